package ast

import (
	"bgql/internal/source"
)

type TypeExprKind uint8

const (
	TypeInvalid TypeExprKind = iota
	TypeNamed                // Path
	TypeGeneric              // Path<Args...>
	TypeList                 // [T] and List<T>; Args[0]
	TypeOption               // Option<T>; Args[0]
	TypeTuple                // (A, B)
)

// TypeExpr is a written type reference. Bang records a trailing `!`.
type TypeExpr struct {
	Kind     TypeExprKind
	Span     source.Span
	Path     []PathSeg
	Args     []TypeID
	Bang     bool
	BangSpan source.Span
}

type Types struct {
	Arena *Arena[TypeExpr]
}

func NewTypes(capHint uint) *Types {
	return &Types{Arena: NewArena[TypeExpr](capHint)}
}

func (t *Types) New(expr TypeExpr) TypeID {
	return TypeID(t.Arena.Allocate(expr))
}

func (t *Types) Get(id TypeID) *TypeExpr {
	return t.Arena.Get(uint32(id))
}

// Elem returns the single argument of a list or option.
func (t *Types) Elem(id TypeID) TypeID {
	expr := t.Get(id)
	if expr == nil || (expr.Kind != TypeList && expr.Kind != TypeOption) || len(expr.Args) == 0 {
		return NoTypeID
	}
	return expr.Args[0]
}
