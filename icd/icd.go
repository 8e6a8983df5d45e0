// Package icd holds the static interface tables of the Currawong CAN
// device family: identifier constants, enumerations and the packet
// schemas of the manufacturer base set and the can2pwm device set.
// Adding a device means adding table entries here, not new types.
package icd

import (
	"github.com/currawonglabs/canpwm/frame"
	"github.com/currawonglabs/canpwm/registry"
	"github.com/currawonglabs/canpwm/schema"
)

// GroupID is the manufacturer group in the 29-bit identifier layout.
const GroupID uint8 = 0x07

// BroadcastAddress addresses every device of a type on the bus.
const BroadcastAddress uint8 = 0xFF

// Device types.
const (
	DeviceTypeServo   uint8 = 0x00
	DeviceTypeCAN2PWM uint8 = 0x0A
)

// Message types.
const (
	MsgMultiCommand      uint8 = 0x00
	MsgPWMCommand        uint8 = 0x10
	MsgHomeCommand       uint8 = 0x15
	MsgDisable           uint8 = 0x20
	MsgSetNodeID         uint8 = 0x50
	MsgStatusA           uint8 = 0x60
	MsgStatusB           uint8 = 0x61
	MsgSerialNumber      uint8 = 0x70
	MsgTelemetrySettings uint8 = 0x74
)

// NewRegistry builds the capability registry: the manufacturer-wide
// base set plus the can2pwm overlay. It fails only on a duplicate
// table entry, which is fatal at startup.
func NewRegistry() (*registry.Registry, error) {
	r := registry.New()

	base := map[uint8]*schema.Schema{
		MsgMultiCommand:      MultiCommand,
		MsgSetNodeID:         SetNodeID,
		MsgSerialNumber:      SerialNumber,
		MsgTelemetrySettings: TelemetrySettings,
	}
	for msgType, s := range base {
		if err := r.RegisterBase(msgType, s); err != nil {
			return nil, err
		}
	}

	can2pwm := map[uint8]*schema.Schema{
		MsgPWMCommand: PWMCommand,
		MsgStatusA:    StatusA,
		MsgStatusB:    StatusB,
	}
	for msgType, s := range can2pwm {
		if err := r.RegisterDevice(DeviceTypeCAN2PWM, msgType, s); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// PacketFrame encodes a packet value and wraps it in a frame addressed
// to one device (or to every device of the type via
// [BroadcastAddress]).
func PacketFrame(reg *registry.Registry, deviceType, messageType, address uint8, v schema.Value) (frame.Frame, error) {
	s, err := reg.Lookup(deviceType, messageType)
	if err != nil {
		return frame.Frame{}, err
	}

	data, err := schema.Encode(v, s)
	if err != nil {
		return frame.Frame{}, err
	}

	id, err := frame.Identifier{
		Group:         GroupID,
		MessageType:   messageType,
		DeviceType:    deviceType,
		DeviceAddress: address,
	}.Compose()
	if err != nil {
		return frame.Frame{}, err
	}

	return frame.New(id, data)
}

// RequestFrame builds an empty-payload frame that polls a device for
// the given message type.
func RequestFrame(deviceType, messageType, address uint8) (frame.Frame, error) {
	id, err := frame.Identifier{
		Group:         GroupID,
		MessageType:   messageType,
		DeviceType:    deviceType,
		DeviceAddress: address,
	}.Compose()
	if err != nil {
		return frame.Frame{}, err
	}

	return frame.New(id, nil)
}
