package result

// Kind is the public classification of a declared type.
type Kind string

const (
	KindObject      Kind = "OBJECT"
	KindInterface   Kind = "INTERFACE"
	KindUnion       Kind = "UNION"
	KindEnum        Kind = "ENUM"
	KindInputObject Kind = "INPUT_OBJECT"
	KindScalar      Kind = "SCALAR"
	KindNewtype     Kind = "NEWTYPE"
	KindOpaque      Kind = "OPAQUE"
	KindInputUnion  Kind = "INPUT_UNION"
	KindInputEnum   Kind = "INPUT_ENUM"
)

// ParseResult is everything a consumer gets back from one invocation.
// Types, Fragments and Diagnostics are never nil.
type ParseResult struct {
	Success     bool           `json:"success"     yaml:"success"`
	Types       []TypeInfo     `json:"types"       yaml:"types"`
	Schema      SchemaInfo     `json:"schema"      yaml:"schema"`
	Fragments   []FragmentInfo `json:"fragments"   yaml:"fragments"`
	Diagnostics []Diagnostic   `json:"diagnostics" yaml:"diagnostics"`
}

type TypeInfo struct {
	Name        string          `json:"name"                  yaml:"name"`
	Kind        Kind            `json:"kind"                  yaml:"kind"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	TypeParams  []TypeParamInfo `json:"typeParams,omitempty"  yaml:"typeParams,omitempty"`
	Fields      []FieldInfo     `json:"fields,omitempty"      yaml:"fields,omitempty"`
	Implements  []string        `json:"implements,omitempty"  yaml:"implements,omitempty"`
	Values      []ValueInfo     `json:"values,omitempty"      yaml:"values,omitempty"`
	Members     []string        `json:"members,omitempty"     yaml:"members,omitempty"`
	Underlying  string          `json:"underlying,omitempty"  yaml:"underlying,omitempty"`
	// Invalid marks a type whose member list lost unresolved entries.
	Invalid bool `json:"invalid,omitempty" yaml:"invalid,omitempty"`
}

type TypeParamInfo struct {
	Name   string   `json:"name"             yaml:"name"`
	Bounds []string `json:"bounds,omitempty" yaml:"bounds,omitempty"`
}

// FieldInfo describes an output field, an input field or an argument.
type FieldInfo struct {
	Name              string      `json:"name"                        yaml:"name"`
	Type              string      `json:"type"                        yaml:"type"`
	Description       string      `json:"description,omitempty"       yaml:"description,omitempty"`
	Nullable          bool        `json:"nullable,omitempty"          yaml:"nullable,omitempty"`
	Args              []FieldInfo `json:"args,omitempty"              yaml:"args,omitempty"`
	DefaultValue      *string     `json:"defaultValue,omitempty"      yaml:"defaultValue,omitempty"`
	Deprecated        bool        `json:"deprecated,omitempty"        yaml:"deprecated,omitempty"`
	DeprecationReason string      `json:"deprecationReason,omitempty" yaml:"deprecationReason,omitempty"`
}

type ValueInfo struct {
	Name              string      `json:"name"                        yaml:"name"`
	Description       string      `json:"description,omitempty"       yaml:"description,omitempty"`
	Fields            []FieldInfo `json:"fields,omitempty"            yaml:"fields,omitempty"`
	Deprecated        bool        `json:"deprecated,omitempty"        yaml:"deprecated,omitempty"`
	DeprecationReason string      `json:"deprecationReason,omitempty" yaml:"deprecationReason,omitempty"`
}

type SchemaInfo struct {
	QueryType        string `json:"queryType,omitempty"        yaml:"queryType,omitempty"`
	MutationType     string `json:"mutationType,omitempty"     yaml:"mutationType,omitempty"`
	SubscriptionType string `json:"subscriptionType,omitempty" yaml:"subscriptionType,omitempty"`
}

type FragmentInfo struct {
	Name     string   `json:"name"     yaml:"name"`
	OnType   string   `json:"onType"   yaml:"onType"`
	IsServer bool     `json:"isServer" yaml:"isServer"`
	Fields   []string `json:"fields"   yaml:"fields"`
}

// Diagnostic is the public form: 1-based positions, no notes or fixes.
// File is set only for documents other than the root one.
type Diagnostic struct {
	Message     string `json:"message"          yaml:"message"`
	Severity    string `json:"severity"         yaml:"severity"`
	StartLine   uint32 `json:"start_line"       yaml:"start_line"`
	StartColumn uint32 `json:"start_column"     yaml:"start_column"`
	EndLine     uint32 `json:"end_line"         yaml:"end_line"`
	EndColumn   uint32 `json:"end_column"       yaml:"end_column"`
	Code        string `json:"code,omitempty"   yaml:"code,omitempty"`
	File        string `json:"file,omitempty"   yaml:"file,omitempty"`
}

// Empty is the result for input that never reached the parser.
func Empty() ParseResult {
	return ParseResult{
		Success:     true,
		Types:       []TypeInfo{},
		Fragments:   []FragmentInfo{},
		Diagnostics: []Diagnostic{},
	}
}

// EnsureArrays replaces nil top-level slices so they encode as [] after a
// decode that produced nil.
func (r *ParseResult) EnsureArrays() {
	if r.Types == nil {
		r.Types = []TypeInfo{}
	}
	if r.Fragments == nil {
		r.Fragments = []FragmentInfo{}
	}
	if r.Diagnostics == nil {
		r.Diagnostics = []Diagnostic{}
	}
}

// Type returns the type called name, or nil.
func (r *ParseResult) Type(name string) *TypeInfo {
	for i := range r.Types {
		if r.Types[i].Name == name {
			return &r.Types[i]
		}
	}
	return nil
}

// Field returns the field called name, or nil.
func (t *TypeInfo) Field(name string) *FieldInfo {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i]
		}
	}
	return nil
}

// Errors counts error diagnostics.
func (r *ParseResult) Errors() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == "error" {
			n++
		}
	}
	return n
}
