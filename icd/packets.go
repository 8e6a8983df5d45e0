package icd

import (
	"time"

	"github.com/currawonglabs/canpwm/schema"
)

// Manufacturer base packets.
var (
	// MultiCommand carries four signed 16-bit command channels.
	// Commands are clamped to +/-20000 by the devices; out-of-range
	// values are rejected at encode time instead.
	MultiCommand = schema.MustNew("multiCommand", 8,
		schema.Field{Name: "commandA", Width: 16, Shift: 48, Signed: true, Min: -20000, Max: 20000},
		schema.Field{Name: "commandB", Width: 16, Shift: 32, Signed: true, Min: -20000, Max: 20000},
		schema.Field{Name: "commandC", Width: 16, Shift: 16, Signed: true, Min: -20000, Max: 20000},
		schema.Field{Name: "commandD", Width: 16, Shift: 0, Signed: true, Min: -20000, Max: 20000},
	)

	// SetNodeID assigns a bus address to the device with the given
	// serial number. The serial here is 32 bits wide while the
	// serialNumber packet reports 24; both widths are carried as the
	// devices document them.
	SetNodeID = schema.MustNew("setNodeID", 6,
		schema.Uns("command", 8, 40),
		schema.Uns("serialNumber", 32, 8),
		schema.Uns("nodeID", 8, 0),
	)

	// SerialNumber reports hardware revision, serial and user IDs.
	SerialNumber = schema.MustNew("serialNumber", 8,
		schema.Uns("hwRev", 8, 56),
		schema.Uns("serialNumber", 24, 32),
		schema.Uns("userIDA", 16, 16),
		schema.Uns("userIDB", 16, 0),
	)

	// TelemetrySettings configures the periodic telemetry stream:
	// period and silence timeout in 50 ms steps, the legacy packets
	// bitmap, and per-status enable flags.
	TelemetrySettings = schema.MustNew("telemetrySettings", 4,
		schema.Uns("period", 8, 24),
		schema.Uns("silence", 8, 16),
		schema.Uns("packets", 8, 8),
		schema.Flag("statusA", 1),
		schema.Flag("statusB", 0),
	)
)

// can2pwm device packets.
var (
	// PWMCommand sets the output pulse width in microseconds.
	PWMCommand = schema.MustNew("pwmCommand", 2,
		schema.Sgn("pwm", 16, 0),
	)

	// StatusA is the primary telemetry packet. The status word
	// aliases the individual mode and flag bits.
	StatusA = schema.MustNew("statusA", 8,
		schema.Field{Name: "status", Width: 16, Shift: 48, Alias: true},
		schema.Flag("enabled", 63),
		schema.Uns("reserved", 5, 58),
		schema.Flag("mapEnabled", 57),
		schema.Flag("mapInvalid", 56),
		schema.Uns("inputMode", 3, 53),
		schema.Uns("feedbackMode", 3, 50),
		schema.Flag("validInput", 49),
		schema.Flag("validFeedback", 48),
		schema.Sgn("command", 16, 32),
		schema.Uns("feedback", 16, 16),
		schema.Uns("pwm", 16, 0),
	)

	// StatusB reports supply current and voltage, 10 mA / 10 mV per bit.
	StatusB = schema.MustNew("statusB", 4,
		schema.Sgn("current", 16, 16),
		schema.Uns("voltage", 16, 0),
	)
)

// Wire scaling factors. The codec carries raw integers only; these
// helpers convert to engineering units at the presentation boundary.
const (
	statusBScale      = 10
	telemetryStepMs   = 50
	telemetryMaxSteps = 200
)

// CurrentMilliAmps converts a raw statusB current value to mA.
func CurrentMilliAmps(raw int64) int64 {
	return raw * statusBScale
}

// VoltageMilliVolts converts a raw statusB voltage value to mV.
func VoltageMilliVolts(raw int64) int64 {
	return raw * statusBScale
}

// TelemetryPeriod converts a raw telemetrySettings period or silence
// value to a duration.
func TelemetryPeriod(raw int64) time.Duration {
	return time.Duration(raw) * telemetryStepMs * time.Millisecond
}

// TelemetrySteps converts a period to the raw 50 ms step count.
// Periods are valid from 50 ms to 10 s in 50 ms increments; zero
// disables the stream.
func TelemetrySteps(period time.Duration) (int64, bool) {
	if period == 0 {
		return 0, true
	}

	ms := period.Milliseconds()
	if ms%telemetryStepMs != 0 {
		return 0, false
	}

	steps := ms / telemetryStepMs
	if steps < 1 || steps > telemetryMaxSteps {
		return 0, false
	}

	return steps, true
}
