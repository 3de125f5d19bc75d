package assembler_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chiiko/chiiko/internal/assembler"
	"github.com/chiiko/chiiko/internal/emulator"
)

func TestAssembleProducesFullSizedROM(t *testing.T) {
	rom, err := assembler.Assemble("HALT\n")
	require.NoError(t, err)
	require.Len(t, rom, 0x8000)
}

func TestAssembleRejectsUnresolvedSymbol(t *testing.T) {
	_, err := assembler.Assemble("JUMP :NOWHERE\n")
	require.Error(t, err)
}

func TestAssembleAndRunLoadAddHalt(t *testing.T) {
	source := strings.Join([]string{
		"LOAD 5, A",
		"ADD 7, A",
		"SAVE A, $0x0100",
		"HALT",
		"",
	}, "\n")

	rom, err := assembler.Assemble(source)
	require.NoError(t, err)

	r, err := emulator.NewROM(rom)
	require.NoError(t, err)
	bus := emulator.NewBus(emulator.NewRAM(), r)
	cpu := emulator.NewCPU(bus, strings.NewReader(""), &bytes.Buffer{})

	require.NoError(t, cpu.Run())

	value, err := bus.Read(0x0100)
	require.NoError(t, err)
	require.Equal(t, byte(12), value)
}

func TestAssembleAndRunArrayMacroAtRAMAddress(t *testing.T) {
	source := strings.Join([]string{
		"ARRAY $0x0010 [1, SECOND = 7, 3]",
		"LOAD (ADDR, REGISTER) $SECOND, B",
		"HALT",
		"",
	}, "\n")

	rom, err := assembler.Assemble(source)
	require.NoError(t, err)

	r, err := emulator.NewROM(rom)
	require.NoError(t, err)
	bus := emulator.NewBus(emulator.NewRAM(), r)
	cpu := emulator.NewCPU(bus, strings.NewReader(""), &bytes.Buffer{})

	require.NoError(t, cpu.Run())

	// The RAM-init prologue stages each element through A, so A holds the
	// last element when the program starts.
	require.Equal(t, byte(3), cpu.A)
	require.Equal(t, byte(7), cpu.B)
}

func TestAssembleAndRunForwardJumpSkipsDeadCode(t *testing.T) {
	source := strings.Join([]string{
		"JUMP :START",
		"HALT",
		"START:",
		"LOAD 9, A",
		"SAVE A, $0x0100",
		"HALT",
		"",
	}, "\n")

	rom, err := assembler.Assemble(source)
	require.NoError(t, err)

	r, err := emulator.NewROM(rom)
	require.NoError(t, err)
	bus := emulator.NewBus(emulator.NewRAM(), r)
	cpu := emulator.NewCPU(bus, strings.NewReader(""), &bytes.Buffer{})

	require.NoError(t, cpu.Run())

	value, err := bus.Read(0x0100)
	require.NoError(t, err)
	require.Equal(t, byte(9), value)
}
