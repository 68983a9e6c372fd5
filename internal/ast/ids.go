package ast

type (
	FileID      uint32
	ItemID      uint32
	TypeID      uint32 // type expression
	FieldID     uint32 // field, argument or input field definition
	EnumValueID uint32
	DirectiveID uint32 // directive application
	ValueID     uint32 // constant value
	SelectionID uint32
	TypeParamID uint32
	PayloadID   uint32
)

const (
	NoFileID      FileID      = 0
	NoItemID      ItemID      = 0
	NoTypeID      TypeID      = 0
	NoFieldID     FieldID     = 0
	NoEnumValueID EnumValueID = 0
	NoDirectiveID DirectiveID = 0
	NoValueID     ValueID     = 0
	NoSelectionID SelectionID = 0
	NoTypeParamID TypeParamID = 0
	NoPayloadID   PayloadID   = 0
)

func (id FileID) IsValid() bool      { return id != NoFileID }
func (id ItemID) IsValid() bool      { return id != NoItemID }
func (id TypeID) IsValid() bool      { return id != NoTypeID }
func (id FieldID) IsValid() bool     { return id != NoFieldID }
func (id EnumValueID) IsValid() bool { return id != NoEnumValueID }
func (id DirectiveID) IsValid() bool { return id != NoDirectiveID }
func (id ValueID) IsValid() bool     { return id != NoValueID }
func (id SelectionID) IsValid() bool { return id != NoSelectionID }
func (id TypeParamID) IsValid() bool { return id != NoTypeParamID }
func (id PayloadID) IsValid() bool   { return id != NoPayloadID }
