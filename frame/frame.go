// Package frame defines the CAN frame type and the Currawong
// identifier layout used to classify frames.
package frame

import (
	"errors"
	"fmt"
)

const (
	// MaxStdID is the highest 11-bit identifier.
	MaxStdID = 0x7FF
	// MaxExtID is the highest 29-bit identifier.
	MaxExtID = 0x1FFFFFFF
)

var (
	ErrInvalidID  = errors.New("frame: invalid identifier")
	ErrInvalidLen = errors.New("frame: invalid data length")
)

// Frame is one classical CAN message: identifier plus up to 8 data bytes.
type Frame struct {
	ID       uint32
	Extended bool
	Len      uint8
	Data     [8]byte
}

// New builds a validated frame. Identifiers above the 11-bit range are
// marked extended.
func New(id uint32, data []byte) (Frame, error) {
	if len(data) > 8 {
		return Frame{}, fmt.Errorf("%w: %d bytes", ErrInvalidLen, len(data))
	}

	f := Frame{
		ID:       id,
		Extended: id > MaxStdID,
		Len:      uint8(len(data)),
	}
	copy(f.Data[:], data)

	if err := f.Validate(); err != nil {
		return Frame{}, err
	}

	return f, nil
}

// Validate returns an error if the frame is not a valid classical CAN frame.
func (f Frame) Validate() error {
	if f.Len > 8 {
		return fmt.Errorf("%w: %d bytes", ErrInvalidLen, f.Len)
	}

	if f.Extended {
		if f.ID > MaxExtID {
			return fmt.Errorf("%w: 0x%X", ErrInvalidID, f.ID)
		}
	} else if f.ID > MaxStdID {
		return fmt.Errorf("%w: 0x%X", ErrInvalidID, f.ID)
	}

	return nil
}

// Payload returns the valid portion of the data buffer.
func (f *Frame) Payload() []byte {
	return f.Data[:f.Len]
}
