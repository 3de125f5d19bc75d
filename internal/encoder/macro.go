package encoder

import (
	"fmt"

	"github.com/chiiko/chiiko/internal/chiikoerr"
	"github.com/chiiko/chiiko/internal/parser"
)

// encodeMacro places macro output into the ROM image. STRING and ARRAY
// write their bytes at the macro's explicit target address when that
// address falls in ROM, or queue them for the RAM-init prologue when it
// falls in RAM; VAR needs no bytes (RAM reset already zeroes its storage);
// LINK splices a file's raw bytes in at the current sequential cursor.
func (e *Encoder) encodeMacro(m parser.MacroNode) error {
	switch m.Kind {
	case parser.MacroString:
		return e.placeData(m.Address.Location, append([]byte(m.Text), 0))

	case parser.MacroArray:
		bytes := make([]byte, len(m.Elements))
		for i, el := range m.Elements {
			bytes[i] = byte(el.Value)
		}
		return e.placeData(m.Address.Location, bytes)

	case parser.MacroVariable:
		return nil

	case parser.MacroLink:
		data, err := e.readFile(m.Filename)
		if err != nil {
			return &chiikoerr.SourceError{Path: m.Filename, Cause: err}
		}
		return e.emitBytes(data)

	default:
		return &chiikoerr.AssemblerError{Stage: "encode", Cause: fmt.Errorf("%w: unknown macro kind", chiikoerr.ErrMalformedMacro)}
	}
}

// placeData routes bytes to wherever address actually lives: straight into
// the ROM image if address maps there, or onto the RAM-init queue (realized
// as boot-time LOAD/SAVE instructions by emitRAMInit) if it doesn't.
func (e *Encoder) placeData(address uint16, bytes []byte) error {
	if address < RomBase {
		for i, b := range bytes {
			e.queueRAMByte(address+uint16(i), b)
		}
		return nil
	}
	return e.writeAt(address, bytes)
}

// writeAt places bytes directly into the ROM image at a mapped address,
// independent of the sequential instruction cursor.
func (e *Encoder) writeAt(address uint16, bytes []byte) error {
	offset := int(address) - RomBase
	if offset+len(bytes) > RomSize {
		return &chiikoerr.ChipError{Address: address, Write: true, Cause: chiikoerr.ErrUnmappedAddress}
	}
	copy(e.rom[offset:], bytes)
	return nil
}
