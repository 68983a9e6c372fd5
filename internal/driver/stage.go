package driver

import (
	"fmt"
	"strings"
)

// Stage определяет, до какого этапа идёт конвейер
type Stage string

const (
	StageTokenize Stage = "tokenize"
	StageSyntax   Stage = "syntax"
	StageModules  Stage = "modules"
	StageSymbols  Stage = "symbols"
	StageSema     Stage = "sema"
	StageAll      Stage = "all"
)

var stageRank = map[Stage]int{
	StageTokenize: 0,
	StageSyntax:   1,
	StageModules:  2,
	StageSymbols:  3,
	StageSema:     4,
	StageAll:      5,
}

// ParseStage accepts the names used by `bgql diag --stages`.
func ParseStage(s string) (Stage, error) {
	switch st := Stage(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return StageAll, nil
	case "parse":
		return StageSyntax, nil
	case "bind":
		return StageSymbols, nil
	default:
		if _, ok := stageRank[st]; ok {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown stage %q (want tokenize, syntax, modules, symbols, sema or all)", s)
}

// Reaches reports whether running up to s includes other.
func (s Stage) Reaches(other Stage) bool {
	if s == "" {
		s = StageAll
	}
	return stageRank[s] >= stageRank[other]
}
