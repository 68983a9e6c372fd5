package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                    Code = 1000
	LexUnknownChar             Code = 1001
	LexUnterminatedString      Code = 1002
	LexUnterminatedBlockString Code = 1003
	LexBadNumber               Code = 1004
	LexTokenTooLong            Code = 1005
	LexInvalidUTF8             Code = 1006
	LexBadEscape               Code = 1007
	LexTooManyTokens           Code = 1008

	// Синтаксические
	SynInfo                    Code = 2000
	SynUnexpectedToken         Code = 2001
	SynUnclosedBrace           Code = 2002
	SynUnclosedParen           Code = 2003
	SynUnclosedBracket         Code = 2004
	SynUnclosedAngle           Code = 2005
	SynExpectIdentifier        Code = 2006
	SynExpectColon             Code = 2007
	SynExpectType              Code = 2008
	SynExpectValue             Code = 2009
	SynExpectEquals            Code = 2010
	SynExpectBody              Code = 2011
	SynExpectUnionMember       Code = 2012
	SynExpectDirectiveLocation Code = 2013
	SynExpectOn                Code = 2014
	SynUnexpectedTopLevel      Code = 2015
	SynBadVisibility           Code = 2016
	SynNestingTooDeep          Code = 2017
	SynEmptyImportGroup        Code = 2018
	SynExpectSelection         Code = 2019
	SynExpectModulePath        Code = 2020

	// Связывание имён
	SemaInfo            Code = 3000
	SemaDuplicateSymbol Code = 3001
	SemaUndefinedType   Code = 3002
	SemaReservedName    Code = 3003
	SemaUndefinedFrag   Code = 3004
	SemaTypeParamArgs   Code = 3005

	// Семантика
	SemaBoundNotSatisfied          Code = 3101
	SemaBoundNotInterface          Code = 3102
	SemaTypeArgCount               Code = 3103
	SemaMissingTypeArgs            Code = 3104
	SemaDirectiveUnknown           Code = 3110
	SemaDirectiveLocation          Code = 3111
	SemaDirectiveMissingArg        Code = 3112
	SemaDirectiveUnknownArg        Code = 3113
	SemaDirectiveArgType           Code = 3114
	SemaDirectiveNotRepeatable     Code = 3115
	SemaDirectiveDefInvalid        Code = 3116
	SemaUnionMemberKind            Code = 3120
	SemaUnionDuplicateMember       Code = 3121
	SemaImplementsNotInterface     Code = 3122
	SemaMissingInterfaceField      Code = 3123
	SemaIncompatibleField          Code = 3124
	SemaMissingTransitiveInterface Code = 3125
	SemaInterfaceCycle             Code = 3126
	SemaDuplicateImplements        Code = 3127
	SemaNewtypeCycle               Code = 3130
	SemaNewtypeUnderlying          Code = 3131
	SemaConstraintMismatch         Code = 3132
	SemaNullabilityRedundant       Code = 3140
	SemaNullabilityConflict        Code = 3141
	SemaDuplicateField             Code = 3150
	SemaDuplicateArgument          Code = 3151
	SemaDuplicateEnumValue         Code = 3152
	SemaInputOutputMismatch        Code = 3153
	SemaDefaultValueType           Code = 3154
	SemaSchemaRoot                 Code = 3160
	SemaSchemaDuplicate            Code = 3161
	SemaFragmentTarget             Code = 3170
	SemaFragmentUnknownField       Code = 3171
	SemaFragmentSelection          Code = 3172
	SemaFragmentCycle              Code = 3173
	SemaDeprecatedUsage            Code = 3174

	// Ввод-вывод
	IOLoadFileError Code = 4001

	// Модули
	ModCycle            Code = 5001
	ModNotFound         Code = 5002
	ModLoadFailed       Code = 5003
	ModNoLoader         Code = 5004
	ModNotVisible       Code = 5005
	ModUnresolvedImport Code = 5006
	ModDuplicate        Code = 5007
	ModTooDeep          Code = 5008
	ModBadPath          Code = 5009
	ModCyclicReexport   Code = 5010

	// Внутренние сбои, превращённые в диагностику
	InternalFailure Code = 9001
)

var codeDescription = map[Code]string{
	UnknownCode:                    "Unknown error",
	LexInfo:                        "Lexical information",
	LexUnknownChar:                 "Unknown character",
	LexUnterminatedString:          "Unterminated string literal",
	LexUnterminatedBlockString:     "Unterminated block string",
	LexBadNumber:                   "Malformed number literal",
	LexTokenTooLong:                "Token too long",
	LexInvalidUTF8:                 "Invalid UTF-8 sequence",
	LexBadEscape:                   "Invalid escape sequence",
	LexTooManyTokens:               "Token limit exceeded",
	SynInfo:                        "Syntax information",
	SynUnexpectedToken:             "Unexpected token",
	SynUnclosedBrace:               "Unclosed brace",
	SynUnclosedParen:               "Unclosed parenthesis",
	SynUnclosedBracket:             "Unclosed bracket",
	SynUnclosedAngle:               "Unclosed angle bracket",
	SynExpectIdentifier:            "Expect identifier",
	SynExpectColon:                 "Expect colon",
	SynExpectType:                  "Expect type",
	SynExpectValue:                 "Expect value",
	SynExpectEquals:                "Expect '='",
	SynExpectBody:                  "Expect declaration body",
	SynExpectUnionMember:           "Expect union member",
	SynExpectDirectiveLocation:     "Expect directive location",
	SynExpectOn:                    "Expect 'on'",
	SynUnexpectedTopLevel:          "Unexpected token at top level",
	SynBadVisibility:               "Malformed visibility",
	SynNestingTooDeep:              "Nesting too deep",
	SynEmptyImportGroup:            "Empty import group",
	SynExpectSelection:             "Expect selection",
	SynExpectModulePath:            "Expect module path",
	SemaInfo:                       "Semantic information",
	SemaDuplicateSymbol:            "Duplicate symbol",
	SemaUndefinedType:              "Undefined type",
	SemaReservedName:               "Reserved name",
	SemaUndefinedFrag:              "Undefined fragment",
	SemaTypeParamArgs:              "Type parameter with type arguments",
	SemaBoundNotSatisfied:          "Generic bound not satisfied",
	SemaBoundNotInterface:          "Generic bound is not an interface",
	SemaTypeArgCount:               "Wrong number of type arguments",
	SemaMissingTypeArgs:            "Missing type arguments",
	SemaDirectiveUnknown:           "Unknown directive",
	SemaDirectiveLocation:          "Directive not allowed here",
	SemaDirectiveMissingArg:        "Missing required directive argument",
	SemaDirectiveUnknownArg:        "Unknown directive argument",
	SemaDirectiveArgType:           "Directive argument type mismatch",
	SemaDirectiveNotRepeatable:     "Directive is not repeatable",
	SemaDirectiveDefInvalid:        "Invalid directive definition",
	SemaUnionMemberKind:            "Invalid union member",
	SemaUnionDuplicateMember:       "Duplicate union member",
	SemaImplementsNotInterface:     "Implemented type is not an interface",
	SemaMissingInterfaceField:      "Missing interface field",
	SemaIncompatibleField:          "Incompatible interface field",
	SemaMissingTransitiveInterface: "Missing transitive interface",
	SemaInterfaceCycle:             "Interface implementation cycle",
	SemaDuplicateImplements:        "Interface implemented twice",
	SemaNewtypeCycle:               "Cyclic newtype chain",
	SemaNewtypeUnderlying:          "Invalid underlying type",
	SemaConstraintMismatch:         "Constraint does not fit underlying type",
	SemaNullabilityRedundant:       "Redundant nullability marker",
	SemaNullabilityConflict:        "Conflicting nullability",
	SemaDuplicateField:             "Duplicate field",
	SemaDuplicateArgument:          "Duplicate argument",
	SemaDuplicateEnumValue:         "Duplicate enum value",
	SemaInputOutputMismatch:        "Input/output type mismatch",
	SemaDefaultValueType:           "Default value type mismatch",
	SemaSchemaRoot:                 "Invalid schema root",
	SemaSchemaDuplicate:            "Duplicate schema definition",
	SemaFragmentTarget:             "Invalid fragment target",
	SemaFragmentUnknownField:       "Unknown field in fragment",
	SemaFragmentSelection:          "Invalid selection",
	SemaFragmentCycle:              "Fragment spread cycle",
	SemaDeprecatedUsage:            "Use of deprecated field",
	IOLoadFileError:                "Failed to load file",
	ModCycle:                       "Module cycle",
	ModNotFound:                    "Module not found",
	ModLoadFailed:                  "Module load failed",
	ModNoLoader:                    "No module loader",
	ModNotVisible:                  "Item not visible",
	ModUnresolvedImport:            "Unresolved import",
	ModDuplicate:                   "Duplicate module",
	ModTooDeep:                     "Module nesting too deep",
	ModBadPath:                     "Invalid module path",
	ModCyclicReexport:              "Cyclic re-export",
	InternalFailure:                "Internal failure",
}

// ID returns the stable textual form, e.g. SYN2002.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("MOD%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("INT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
