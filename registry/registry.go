// Package registry resolves (device type, message type) pairs to
// packet schemas. A device is not a subtype of a base device: it is a
// capability set overlaid on the manufacturer-wide base set, so schema
// resolution stays a pure data lookup.
package registry

import (
	"fmt"

	"github.com/currawonglabs/canpwm/schema"
)

// DuplicateRegistrationError reports a (device type, message type)
// pair registered twice within the same scope. It is fatal at startup.
type DuplicateRegistrationError struct {
	Scope       string
	DeviceType  uint8
	MessageType uint8
}

func (e *DuplicateRegistrationError) Error() string {
	if e.Scope == "base" {
		return fmt.Sprintf("registry: message type 0x%02X already registered in base scope", e.MessageType)
	}
	return fmt.Sprintf("registry: message type 0x%02X already registered for device type 0x%02X", e.MessageType, e.DeviceType)
}

// UnknownPacketTypeError reports a lookup with no schema in either
// scope. The frame is unclassified, not broken: callers pass it
// through rather than dropping it.
type UnknownPacketTypeError struct {
	DeviceType  uint8
	MessageType uint8
}

func (e *UnknownPacketTypeError) Error() string {
	return fmt.Sprintf("registry: no schema for device type 0x%02X, message type 0x%02X", e.DeviceType, e.MessageType)
}

type deviceKey struct {
	deviceType  uint8
	messageType uint8
}

// Registry holds the base capability set plus per-device overlays.
// It is populated at process start and read-only afterwards.
type Registry struct {
	base   map[uint8]*schema.Schema
	device map[deviceKey]*schema.Schema

	byName map[string]*schema.Schema
}

func New() *Registry {
	return &Registry{
		base:   make(map[uint8]*schema.Schema),
		device: make(map[deviceKey]*schema.Schema),

		byName: make(map[string]*schema.Schema),
	}
}

// RegisterBase adds a schema to the manufacturer-wide scope.
func (r *Registry) RegisterBase(messageType uint8, s *schema.Schema) error {
	if _, ok := r.base[messageType]; ok {
		return &DuplicateRegistrationError{Scope: "base", MessageType: messageType}
	}

	r.base[messageType] = s
	r.byName[s.Name()] = s

	return nil
}

// RegisterDevice adds a schema to one device type's overlay scope.
func (r *Registry) RegisterDevice(deviceType, messageType uint8, s *schema.Schema) error {
	key := deviceKey{deviceType: deviceType, messageType: messageType}

	if _, ok := r.device[key]; ok {
		return &DuplicateRegistrationError{Scope: "device", DeviceType: deviceType, MessageType: messageType}
	}

	r.device[key] = s
	r.byName[s.Name()] = s

	return nil
}

// Lookup resolves a schema, checking the device overlay first and
// falling back to the base scope.
func (r *Registry) Lookup(deviceType, messageType uint8) (*schema.Schema, error) {
	if s, ok := r.device[deviceKey{deviceType: deviceType, messageType: messageType}]; ok {
		return s, nil
	}

	if s, ok := r.base[messageType]; ok {
		return s, nil
	}

	return nil, &UnknownPacketTypeError{DeviceType: deviceType, MessageType: messageType}
}

// ByName looks a schema up by its packet type name. Used by the
// logging filter to validate configured field names at load time.
func (r *Registry) ByName(name string) (*schema.Schema, bool) {
	s, ok := r.byName[name]
	return s, ok
}
