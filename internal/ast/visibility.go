package ast

// Visibility of a declaration relative to other modules.
type Visibility uint8

const (
	VisPrivate Visibility = iota
	VisSuper              // pub(super)
	VisCrate              // pub(crate)
	VisPublic             // pub
)

func (v Visibility) String() string {
	switch v {
	case VisSuper:
		return "pub(super)"
	case VisCrate:
		return "pub(crate)"
	case VisPublic:
		return "pub"
	default:
		return "private"
	}
}
