package token

var keywords = map[string]Kind{
	"type":       KwType,
	"interface":  KwInterface,
	"union":      KwUnion,
	"enum":       KwEnum,
	"input":      KwInput,
	"scalar":     KwScalar,
	"newtype":    KwNewtype,
	"opaque":     KwOpaque,
	"directive":  KwDirective,
	"fragment":   KwFragment,
	"mod":        KwMod,
	"use":        KwUse,
	"schema":     KwSchema,
	"pub":        KwPub,
	"implements": KwImplements,
	"extends":    KwExtends,
	"on":         KwOn,
	"repeatable": KwRepeatable,
	"as":         KwAs,
	"crate":      KwCrate,
	"super":      KwSuper,
	"self":       KwSelf,
	"true":       KwTrue,
	"false":      KwFalse,
	"null":       KwNull,
}

var keywordText = func() map[Kind]string {
	out := make(map[Kind]string, len(keywords))
	for s, k := range keywords {
		out[k] = s
	}
	return out
}()

// LookupKeyword reports whether ident is a keyword. Keywords are case sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// IsDeclKeyword reports whether k can open a top-level declaration.
// The parser resynchronizes on these.
func IsDeclKeyword(k Kind) bool {
	switch k {
	case KwType, KwInterface, KwUnion, KwEnum, KwInput, KwScalar, KwNewtype, KwOpaque,
		KwDirective, KwFragment, KwMod, KwUse, KwSchema, KwPub:
		return true
	default:
		return false
	}
}
