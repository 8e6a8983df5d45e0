package frame

import "fmt"

// Currawong 29-bit identifier layout:
//
//	+---------+--------------+-------------+----------------+
//	| GroupID | Message Type | Device Type | Device Address |
//	| 5 bits  | 8 bits       | 8 bits      | 8 bits         |
//	+---------+--------------+-------------+----------------+
//	  28..24      23..16          15..8           7..0
const (
	groupShift   = 24
	groupMask    = 0x1F
	msgTypeShift = 16
	devTypeShift = 8
	byteMask     = 0xFF

	// MaxGroup is the highest value of the 5-bit group field.
	MaxGroup = groupMask
)

// IdentifierRangeError reports an identifier field that exceeds its
// declared bit width on compose.
type IdentifierRangeError struct {
	Field string
	Value uint32
	Width int
}

func (e *IdentifierRangeError) Error() string {
	return fmt.Sprintf("identifier: field %q value 0x%X does not fit in %d bits", e.Field, e.Value, e.Width)
}

// Identifier is the structured form of a Currawong CAN identifier.
type Identifier struct {
	Group         uint8
	MessageType   uint8
	DeviceType    uint8
	DeviceAddress uint8
}

// Decompose splits a 29-bit identifier into its fields.
func Decompose(id uint32) Identifier {
	return Identifier{
		Group:         uint8((id >> groupShift) & groupMask),
		MessageType:   uint8((id >> msgTypeShift) & byteMask),
		DeviceType:    uint8((id >> devTypeShift) & byteMask),
		DeviceAddress: uint8(id & byteMask),
	}
}

// Compose builds the 29-bit identifier back from its fields. It is the
// exact inverse of [Decompose] over valid identifiers.
func (i Identifier) Compose() (uint32, error) {
	if i.Group > MaxGroup {
		return 0, &IdentifierRangeError{Field: "group", Value: uint32(i.Group), Width: 5}
	}

	return uint32(i.Group)<<groupShift |
		uint32(i.MessageType)<<msgTypeShift |
		uint32(i.DeviceType)<<devTypeShift |
		uint32(i.DeviceAddress), nil
}

// Classify projects the identifier fields used as the capability
// registry lookup key.
func Classify(id uint32) (deviceType, messageType uint8) {
	return uint8((id >> devTypeShift) & byteMask), uint8((id >> msgTypeShift) & byteMask)
}
