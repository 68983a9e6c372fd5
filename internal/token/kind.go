package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid marks a malformed token; the lexer already reported it.
	Invalid Kind = iota
	// EOF marks the end of the document.
	EOF

	// Ident is a name.
	Ident

	// KwType represents the 'type' keyword.
	KwType // type
	// KwInterface represents the 'interface' keyword.
	KwInterface // interface
	// KwUnion represents the 'union' keyword.
	KwUnion // union
	// KwEnum represents the 'enum' keyword.
	KwEnum // enum
	// KwInput represents the 'input' keyword.
	KwInput // input
	// KwScalar represents the 'scalar' keyword.
	KwScalar // scalar
	// KwNewtype represents the 'newtype' keyword.
	KwNewtype // newtype
	// KwOpaque represents the 'opaque' keyword.
	KwOpaque // opaque
	// KwDirective represents the 'directive' keyword.
	KwDirective // directive
	// KwFragment represents the 'fragment' keyword.
	KwFragment // fragment
	// KwMod represents the 'mod' keyword.
	KwMod // mod
	// KwUse represents the 'use' keyword.
	KwUse // use
	// KwSchema represents the 'schema' keyword.
	KwSchema // schema
	// KwPub represents the 'pub' keyword.
	KwPub // pub
	// KwImplements represents the 'implements' keyword.
	KwImplements // implements
	// KwExtends represents the 'extends' keyword.
	KwExtends // extends
	// KwOn represents the 'on' keyword.
	KwOn // on
	// KwRepeatable represents the 'repeatable' keyword.
	KwRepeatable // repeatable
	// KwAs represents the 'as' keyword.
	KwAs // as
	// KwCrate represents the 'crate' path root.
	KwCrate // crate
	// KwSuper represents the 'super' path root.
	KwSuper // super
	// KwSelf represents the 'self' path root.
	KwSelf // self
	// KwTrue represents the 'true' literal keyword.
	KwTrue // true
	// KwFalse represents the 'false' literal keyword.
	KwFalse // false
	// KwNull represents the 'null' literal keyword.
	KwNull // null

	IntLit
	FloatLit
	StringLit
	// BlockString is a """triple-quoted""" string, usually a description.
	BlockString

	LBrace     // {
	RBrace     // }
	LParen     // (
	RParen     // )
	LBracket   // [
	RBracket   // ]
	Lt         // <
	Gt         // >
	Colon      // :
	ColonColon // ::
	Assign     // =
	At         // @
	Amp        // &
	Pipe       // |
	Comma      // ,
	Bang       // !
	Semicolon  // ;
	Dot        // .
	Ellipsis   // ...
	Star       // *
	Question   // ?
)

var kindNames = [...]string{
	Invalid:     "invalid token",
	EOF:         "end of file",
	Ident:       "identifier",
	IntLit:      "integer literal",
	FloatLit:    "float literal",
	StringLit:   "string literal",
	BlockString: "block string",
	LBrace:      "'{'",
	RBrace:      "'}'",
	LParen:      "'('",
	RParen:      "')'",
	LBracket:    "'['",
	RBracket:    "']'",
	Lt:          "'<'",
	Gt:          "'>'",
	Colon:       "':'",
	ColonColon:  "'::'",
	Assign:      "'='",
	At:          "'@'",
	Amp:         "'&'",
	Pipe:        "'|'",
	Comma:       "','",
	Bang:        "'!'",
	Semicolon:   "';'",
	Dot:         "'.'",
	Ellipsis:    "'...'",
	Star:        "'*'",
	Question:    "'?'",
}

// String returns a human readable name used in parser messages.
func (k Kind) String() string {
	if k >= KwType && k <= KwNull {
		return "'" + keywordText[k] + "'"
	}
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}
