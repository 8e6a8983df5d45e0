// Package discovery enumerates the devices present on a bus by
// broadcasting a serial number request and collecting the replies.
package discovery

import (
	"context"
	"errors"
	"time"

	"github.com/currawonglabs/canpwm/frame"
	"github.com/currawonglabs/canpwm/icd"
	"github.com/currawonglabs/canpwm/internal"
	"github.com/currawonglabs/canpwm/registry"
	"github.com/currawonglabs/canpwm/schema"
	"github.com/currawonglabs/canpwm/transport"
)

// Device is one responder found on the bus.
type Device struct {
	SerialNumber int64
	NodeID       uint8
	HardwareRev  int64
}

// Discover broadcasts a serial number request for the given device
// type and collects replies until the window elapses. Replies are
// deduplicated by serial number: a device that answers twice, or on
// two addresses, is reported once.
func Discover(ctx context.Context, tr transport.Transport, reg *registry.Registry, deviceType uint8, window time.Duration) ([]Device, error) {
	l := internal.NewLogger("discovery", "can")

	req, err := icd.RequestFrame(deviceType, icd.MsgSerialNumber, icd.BroadcastAddress)
	if err != nil {
		return nil, err
	}

	if err := tr.Send(ctx, req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, window)
	defer cancel()

	devices := []Device{}
	seen := map[int64]struct{}{}

	for {
		f, err := tr.Receive(ctx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, transport.ErrClosed) {
				return devices, nil
			}

			return devices, err
		}

		id := frame.Decompose(f.ID)
		if id.DeviceType != deviceType || id.MessageType != icd.MsgSerialNumber {
			continue
		}

		s, err := reg.Lookup(id.DeviceType, id.MessageType)
		if err != nil {
			continue
		}

		v, err := schema.Decode(f.Payload(), s)
		if err != nil {
			l.Warn("skipping malformed serial number reply", "can_id", f.ID, "reason", err)
			continue
		}

		serial := v["serialNumber"]
		if _, ok := seen[serial]; ok {
			continue
		}
		seen[serial] = struct{}{}

		devices = append(devices, Device{
			SerialNumber: serial,
			NodeID:       id.DeviceAddress,
			HardwareRev:  v["hwRev"],
		})
	}
}
