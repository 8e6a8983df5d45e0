package logcfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/currawonglabs/canpwm/icd"
	"github.com/currawonglabs/canpwm/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ShouldLog(t *testing.T) {
	assert := assert.New(t)

	cfg := Config{
		"statusA": {Enabled: true, Fields: []string{"command", "feedback"}},
		"statusB": {Enabled: false},
	}

	assert.True(cfg.ShouldLog("statusA"))
	assert.False(cfg.ShouldLog("statusB"))

	// Absent packet types are implicitly silenced.
	assert.False(cfg.ShouldLog("serialNumber"))
}

func Test_SelectFields(t *testing.T) {
	assert := assert.New(t)

	v := schema.Value{"a": 1, "b": 2, "c": 3}

	// No field list: the value passes through unchanged.
	cfg := Config{"pkt": {Enabled: true}}
	assert.True(cfg.SelectFields("pkt", v).Equal(v))

	// Allow-list keeps exactly the named fields.
	cfg = Config{"pkt": {Enabled: true, Fields: []string{"a"}}}
	assert.True(cfg.SelectFields("pkt", v).Equal(schema.Value{"a": 1}))

	// Unknown configured names are silently omitted.
	cfg = Config{"pkt": {Enabled: true, Fields: []string{"a", "nope"}}}
	assert.True(cfg.SelectFields("pkt", v).Equal(schema.Value{"a": 1}))

	// The original value is never mutated.
	assert.True(v.Equal(schema.Value{"a": 1, "b": 2, "c": 3}))
}

func Test_Validate(t *testing.T) {
	assert := assert.New(t)

	reg, err := icd.NewRegistry()
	require.NoError(t, err)

	cfg := Config{
		"statusA":  {Enabled: true, Fields: []string{"command", "typoField"}},
		"statusB":  {Enabled: true},
		"ghostPkt": {Enabled: true},
	}

	warnings := cfg.Validate(reg)
	assert.Len(warnings, 2)

	byPacket := map[string]Warning{}
	for _, w := range warnings {
		byPacket[w.PacketType] = w
	}

	assert.Equal("typoField", byPacket["statusA"].Field)
	assert.Empty(byPacket["ghostPkt"].Field)
}

func Test_Load(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "log.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[packets.statusA]
enabled = true
fields = ["command", "feedback"]

[packets.statusB]
enabled = false
`), 0o644))

	cfg, err := Load(path)
	assert.NoError(err)

	assert.Equal(Config{
		"statusA": {Enabled: true, Fields: []string{"command", "feedback"}},
		"statusB": {Enabled: false},
	}, cfg)
}

func Test_FieldOrder(t *testing.T) {
	assert := assert.New(t)

	s := schema.MustNew("pkt", 2, schema.Uns("hi", 8, 8), schema.Uns("lo", 8, 0))

	cfg := Config{"pkt": {Enabled: true, Fields: []string{"lo"}}}
	assert.Equal([]string{"lo"}, cfg.FieldOrder("pkt", s))

	cfg = Config{"pkt": {Enabled: true}}
	assert.Equal([]string{"hi", "lo"}, cfg.FieldOrder("pkt", s))
}
