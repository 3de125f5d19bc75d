// Package emulator implements the Chiiko CPU: a memory-mapped bus over RAM
// and ROM, and a single-threaded fetch/decode/execute loop.
package emulator

import "github.com/chiiko/chiiko/internal/chiikoerr"

// Chip is the uniform interface every memory-mapped component implements.
type Chip interface {
	Read(address uint16) (byte, error)
	Write(address uint16, value byte) error
	Tick() error
	Reset()
}

// RAM is 8 KB of read-write storage mapped at 0x0000-0x1FFF.
type RAM struct {
	data [0x2000]byte
}

// NewRAM returns a zeroed RAM chip.
func NewRAM() *RAM { return &RAM{} }

func (r *RAM) Read(address uint16) (byte, error) {
	if int(address) >= len(r.data) {
		return 0, &chiikoerr.ChipError{Address: address, Cause: chiikoerr.ErrUnmappedAddress}
	}
	return r.data[address], nil
}

func (r *RAM) Write(address uint16, value byte) error {
	if int(address) >= len(r.data) {
		return &chiikoerr.ChipError{Address: address, Write: true, Cause: chiikoerr.ErrUnmappedAddress}
	}
	r.data[address] = value
	return nil
}

func (r *RAM) Tick() error { return nil }

func (r *RAM) Reset() {
	for i := range r.data {
		r.data[i] = 0
	}
}

// ROM is 32 KB of read-only storage mapped at 0x8000-0xFFFF. Writes always
// fail; Reset never clears its content (it is reloaded explicitly by the
// caller).
type ROM struct {
	data [0x8000]byte
}

// NewROM returns a ROM chip preloaded with image, which must be exactly
// 32 KB (0x8000 bytes).
func NewROM(image []byte) (*ROM, error) {
	r := &ROM{}
	if len(image) != len(r.data) {
		return nil, &chiikoerr.ChipError{Cause: chiikoerr.ErrUnmappedAddress}
	}
	copy(r.data[:], image)
	return r, nil
}

func (r *ROM) Read(address uint16) (byte, error) {
	offset := address - 0x8000
	if int(offset) >= len(r.data) {
		return 0, &chiikoerr.ChipError{Address: address, Cause: chiikoerr.ErrUnmappedAddress}
	}
	return r.data[offset], nil
}

func (r *ROM) Write(address uint16, value byte) error {
	return &chiikoerr.ChipError{Address: address, Write: true, Cause: chiikoerr.ErrReadOnly}
}

func (r *ROM) Tick() error { return nil }

func (r *ROM) Reset() {}
