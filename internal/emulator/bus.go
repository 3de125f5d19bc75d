package emulator

import "github.com/chiiko/chiiko/internal/chiikoerr"

// Bus splits the 16-bit address space between RAM (0x0000-0x1FFF, r/w) and
// ROM (0x8000-0xFFFF, read-only). Everything else reads as 0 and rejects
// writes.
type Bus struct {
	RAM *RAM
	ROM *ROM
}

// NewBus wires a RAM and ROM chip behind one address space.
func NewBus(ram *RAM, rom *ROM) *Bus {
	return &Bus{RAM: ram, ROM: rom}
}

func (b *Bus) Read(address uint16) (byte, error) {
	switch {
	case address <= 0x1FFF:
		return b.RAM.Read(address)
	case address >= 0x8000:
		return b.ROM.Read(address)
	default:
		return 0, nil
	}
}

func (b *Bus) Write(address uint16, value byte) error {
	switch {
	case address <= 0x1FFF:
		return b.RAM.Write(address, value)
	case address >= 0x8000:
		return &chiikoerr.ChipError{Address: address, Write: true, Cause: chiikoerr.ErrReadOnly}
	default:
		return &chiikoerr.ChipError{Address: address, Write: true, Cause: chiikoerr.ErrUnmappedAddress}
	}
}

// Tick delegates to both sub-chips.
func (b *Bus) Tick() error {
	if err := b.RAM.Tick(); err != nil {
		return err
	}
	return b.ROM.Tick()
}

// Reset zeroes RAM; ROM content survives a reset.
func (b *Bus) Reset() {
	b.RAM.Reset()
}

// ReadWord reads a big-endian 16-bit value starting at address.
func (b *Bus) ReadWord(address uint16) (uint16, error) {
	hi, err := b.Read(address)
	if err != nil {
		return 0, err
	}
	lo, err := b.Read(address + 1)
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// WriteWord writes a big-endian 16-bit value starting at address.
func (b *Bus) WriteWord(address uint16, value uint16) error {
	if err := b.Write(address, byte(value>>8)); err != nil {
		return err
	}
	return b.Write(address+1, byte(value))
}
