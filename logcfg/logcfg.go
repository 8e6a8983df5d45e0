// Package logcfg implements the per-packet-type logging filter: which
// packet types a listener emits and which of their fields survive.
package logcfg

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/currawonglabs/canpwm/registry"
	"github.com/currawonglabs/canpwm/schema"
)

// Entry configures logging for one packet type. A nil Fields slice
// means every field is emitted.
type Entry struct {
	Enabled bool     `toml:"enabled"`
	Fields  []string `toml:"fields"`
}

// Config maps packet type names to their logging entries. A packet
// type with no entry is silenced.
type Config map[string]Entry

// Load reads a filter configuration from a TOML file of the form:
//
//	[packets.statusA]
//	enabled = true
//	fields = ["command", "feedback"]
func Load(path string) (Config, error) {
	var file struct {
		Packets Config `toml:"packets"`
	}

	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("logcfg: %w", err)
	}

	if file.Packets == nil {
		file.Packets = Config{}
	}

	return file.Packets, nil
}

// ShouldLog reports whether the packet type is configured and enabled.
func (c Config) ShouldLog(packetType string) bool {
	entry, ok := c[packetType]
	return ok && entry.Enabled
}

// SelectFields applies the field allow-list of the packet type's
// entry. With no field list the value passes through unchanged;
// otherwise a copy holding only the named fields is returned, silently
// omitting configured names the value does not carry.
func (c Config) SelectFields(packetType string, v schema.Value) schema.Value {
	entry, ok := c[packetType]
	if !ok || entry.Fields == nil {
		return v
	}

	selected := make(schema.Value, len(entry.Fields))
	for _, name := range entry.Fields {
		if val, ok := v[name]; ok {
			selected[name] = val
		}
	}

	return selected
}

// FieldOrder returns the emit order of the packet type's fields: the
// configured field list, or the schema declaration order when no list
// is set.
func (c Config) FieldOrder(packetType string, s *schema.Schema) []string {
	if entry, ok := c[packetType]; ok && entry.Fields != nil {
		return entry.Fields
	}
	return s.FieldNames()
}

// Warning reports a configuration authoring problem found at load
// time. Per-frame filtering never fails on these.
type Warning struct {
	PacketType string
	Field      string
}

func (w Warning) String() string {
	if w.Field == "" {
		return fmt.Sprintf("packet type %q is not in the registry", w.PacketType)
	}
	return fmt.Sprintf("packet type %q has no field %q", w.PacketType, w.Field)
}

// Validate checks every configured packet type and field name against
// the registry. It is meant to run once at configuration load; the
// returned warnings are reported to the user, not treated as errors.
func (c Config) Validate(reg *registry.Registry) []Warning {
	var warnings []Warning

	for packetType, entry := range c {
		s, ok := reg.ByName(packetType)
		if !ok {
			warnings = append(warnings, Warning{PacketType: packetType})
			continue
		}

		for _, name := range entry.Fields {
			if !s.HasField(name) {
				warnings = append(warnings, Warning{PacketType: packetType, Field: name})
			}
		}
	}

	return warnings
}
