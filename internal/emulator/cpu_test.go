package emulator

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chiiko/chiiko/internal/isa"
)

func blankROM() []byte {
	return make([]byte, 0x8000)
}

func newCPU(t *testing.T, image []byte, in string) (*CPU, *bytes.Buffer) {
	t.Helper()
	rom, err := NewROM(image)
	require.NoError(t, err)
	bus := NewBus(NewRAM(), rom)
	out := &bytes.Buffer{}
	cpu := NewCPU(bus, strings.NewReader(in), out)
	return cpu, out
}

func op(mnemonic string) isa.Operation {
	o, err := isa.OperationByMnemonic(mnemonic)
	if err != nil {
		panic(err)
	}
	return o
}

func regOperand(r isa.Register) RuntimeOperand {
	return RuntimeOperand{Group: isa.RegisterM, Value: uint16(r)}
}

func valueOperand(v uint16) RuntimeOperand {
	return RuntimeOperand{Group: isa.Value, Value: v}
}

func TestResetLoadsVectorAndInitialState(t *testing.T) {
	image := blankROM()
	image[len(image)-2] = 0x80
	image[len(image)-1] = 0x10
	cpu, _ := newCPU(t, image, "")

	require.Equal(t, uint16(0x8010), cpu.PC)
	require.Equal(t, uint16(0x1FFF), cpu.SP)
	require.Equal(t, byte(0), cpu.A)
}

func TestHaltSignalsEndOfProgramAndStopsRun(t *testing.T) {
	image := blankROM()
	image[0] = 0x70            // HALT opcode
	image[len(image)-2] = 0x80 // reset vector 0x8000
	cpu, _ := newCPU(t, image, "")

	err := cpu.Run()
	require.NoError(t, err)
	require.Equal(t, uint16(0xFFFF), cpu.PC)
}

func TestLoadImmediateThenAddWritesAccumulator(t *testing.T) {
	cpu, _ := newCPU(t, blankROM(), "")

	inst := Instruction{
		Operation: op("LOAD"),
		Left:      valueOperand(5),
		Right:     regOperand(isa.A),
	}
	require.NoError(t, cpu.execute(inst))
	require.Equal(t, byte(5), cpu.A)

	addInst := Instruction{
		Operation: op("ADD"),
		Left:      valueOperand(7),
		Right:     regOperand(isa.A),
	}
	require.NoError(t, cpu.execute(addInst))
	require.Equal(t, byte(12), cpu.A)
	require.False(t, cpu.flagSet(FlagZero))
}

func TestWideSumWritesPairAndSetsCarry(t *testing.T) {
	cpu, _ := newCPU(t, blankROM(), "")
	cpu.H, cpu.L = 0xFF, 0xFF

	inst := Instruction{
		Operation: op("SUM"),
		Left:      regOperand(isa.HL),
		Right:     valueOperand(2),
	}
	require.NoError(t, cpu.execute(inst))
	require.Equal(t, [2]byte{0x00, 0x01}, [2]byte{cpu.H, cpu.L})
	require.True(t, cpu.flagSet(FlagCarry))
}

func TestConditionalBranchAdvancesPCWhenPositive(t *testing.T) {
	cpu, _ := newCPU(t, blankROM(), "")
	cpu.Status = 0
	cpu.PC = 0x8000

	inst := Instruction{
		Operation: op("POS"),
		Left:      valueOperand(4),
	}
	require.NoError(t, cpu.execute(inst))
	require.Equal(t, uint16(0x8004), cpu.PC)
}

func TestCompareSetsZeroFlagOnEqualOperands(t *testing.T) {
	cpu, _ := newCPU(t, blankROM(), "")

	inst := Instruction{
		Operation: op("COMP"),
		Left:      valueOperand(9),
		Right:     valueOperand(9),
	}
	require.NoError(t, cpu.execute(inst))
	require.True(t, cpu.flagSet(FlagZero))
}

func TestCallAndReturnRoundTripsProgramCounter(t *testing.T) {
	cpu, _ := newCPU(t, blankROM(), "")
	cpu.PC = 0x8010

	call := Instruction{
		Operation: op("CALL"),
		Left:      RuntimeOperand{Group: isa.JumpAddr, Value: 0x9000},
	}
	require.NoError(t, cpu.execute(call))
	require.Equal(t, uint16(0x9000), cpu.PC)

	ret := Instruction{Operation: op("RTRN")}
	require.NoError(t, cpu.execute(ret))
	require.Equal(t, uint16(0x8010), cpu.PC)
}

func TestPushPopRoundTripsRegister(t *testing.T) {
	cpu, _ := newCPU(t, blankROM(), "")
	cpu.A = 0x42
	startSP := cpu.SP

	push := Instruction{Operation: op("PUSH"), Left: regOperand(isa.A)}
	require.NoError(t, cpu.execute(push))
	require.Equal(t, startSP-1, cpu.SP)

	cpu.A = 0
	pop := Instruction{Operation: op("POP"), Left: regOperand(isa.A)}
	require.NoError(t, cpu.execute(pop))
	require.Equal(t, byte(0x42), cpu.A)
	require.Equal(t, startSP, cpu.SP)
}

func TestPushPopRoundTripsPair(t *testing.T) {
	cpu, _ := newCPU(t, blankROM(), "")
	cpu.H, cpu.L = 0x12, 0x34
	startSP := cpu.SP

	push := Instruction{Operation: op("PUSH"), Left: regOperand(isa.HL)}
	require.NoError(t, cpu.execute(push))
	require.Equal(t, startSP-2, cpu.SP)

	cpu.H, cpu.L = 0, 0
	pop := Instruction{Operation: op("POP"), Left: regOperand(isa.HL)}
	require.NoError(t, cpu.execute(pop))
	require.Equal(t, byte(0x12), cpu.H)
	require.Equal(t, byte(0x34), cpu.L)
}

func TestDumpRestoreRoundTripsAllRegisters(t *testing.T) {
	cpu, _ := newCPU(t, blankROM(), "")
	cpu.A, cpu.B, cpu.C, cpu.H, cpu.L, cpu.I, cpu.J = 1, 2, 3, 4, 5, 6, 7

	dump := Instruction{Operation: op("DUMP")}
	require.NoError(t, cpu.execute(dump))

	cpu.A, cpu.B, cpu.C, cpu.H, cpu.L, cpu.I, cpu.J = 0, 0, 0, 0, 0, 0, 0
	rstr := Instruction{Operation: op("RSTR")}
	require.NoError(t, cpu.execute(rstr))

	require.Equal(t, [7]byte{1, 2, 3, 4, 5, 6, 7},
		[7]byte{cpu.A, cpu.B, cpu.C, cpu.H, cpu.L, cpu.I, cpu.J})
}

func TestMoveCopiesBetweenRegisters(t *testing.T) {
	cpu, _ := newCPU(t, blankROM(), "")
	cpu.A = 0x55

	inst := Instruction{
		Operation: op("MOVE"),
		Left:      regOperand(isa.A),
		Right:     regOperand(isa.B),
	}
	require.NoError(t, cpu.execute(inst))
	require.Equal(t, byte(0x55), cpu.B)
}

func TestSwapExchangesRegisterValues(t *testing.T) {
	cpu, _ := newCPU(t, blankROM(), "")
	cpu.A, cpu.B = 1, 2

	inst := Instruction{
		Operation: op("SWAP"),
		Left:      regOperand(isa.A),
		Right:     regOperand(isa.B),
	}
	require.NoError(t, cpu.execute(inst))
	require.Equal(t, byte(2), cpu.A)
	require.Equal(t, byte(1), cpu.B)
}

func TestSaveWritesRegisterToDirectAddress(t *testing.T) {
	cpu, _ := newCPU(t, blankROM(), "")
	cpu.A = 0x42

	inst := Instruction{
		Operation: op("SAVE"),
		Left:      regOperand(isa.A),
		Right:     RuntimeOperand{Group: isa.DirectA, Value: 0x0100},
	}
	require.NoError(t, cpu.execute(inst))

	value, err := cpu.bus.Read(0x0100)
	require.NoError(t, err)
	require.Equal(t, byte(0x42), value)
}

func TestSaveRejectsRegisterDestination(t *testing.T) {
	cpu, _ := newCPU(t, blankROM(), "")

	inst := Instruction{
		Operation: op("SAVE"),
		Left:      regOperand(isa.A),
		Right:     regOperand(isa.B),
	}
	require.Error(t, cpu.execute(inst))
}

func TestSwapRejectsNonRegisterOperand(t *testing.T) {
	cpu, _ := newCPU(t, blankROM(), "")

	inst := Instruction{
		Operation: op("SWAP"),
		Left:      regOperand(isa.A),
		Right:     RuntimeOperand{Group: isa.DirectA, Value: 0x0100},
	}
	require.Error(t, cpu.execute(inst))
}

func TestPrntWritesNulTerminatedStringToOutput(t *testing.T) {
	cpu, out := newCPU(t, blankROM(), "")
	require.NoError(t, cpu.bus.Write(0x0100, 'h'))
	require.NoError(t, cpu.bus.Write(0x0101, 'i'))
	require.NoError(t, cpu.bus.Write(0x0102, 0))

	inst := Instruction{
		Operation: op("PRNT"),
		Left:      RuntimeOperand{Group: isa.DirectA, Value: 0x0100},
	}
	require.NoError(t, cpu.execute(inst))
	require.Equal(t, "hi", out.String())
}

func TestInReadsLineFromInputIntoMemory(t *testing.T) {
	cpu, _ := newCPU(t, blankROM(), "hi\n")

	inst := Instruction{
		Operation: op("IN"),
		Left:      RuntimeOperand{Group: isa.DirectA, Value: 0x0100},
	}
	require.NoError(t, cpu.execute(inst))
	a, err := cpu.bus.Read(0x0100)
	require.NoError(t, err)
	require.Equal(t, byte('h'), a)
}

func TestBusDispatchesRAMAndROMByAddressRange(t *testing.T) {
	rom, err := NewROM(blankROM())
	require.NoError(t, err)
	bus := NewBus(NewRAM(), rom)

	require.NoError(t, bus.Write(0x0010, 0x42))
	b, err := bus.Read(0x0010)
	require.NoError(t, err)
	require.Equal(t, byte(0x42), b)

	err = bus.Write(0x8000, 0x01)
	require.Error(t, err)
}

func TestRAMResetZeroesMemory(t *testing.T) {
	ram := NewRAM()
	require.NoError(t, ram.Write(5, 0xFF))
	ram.Reset()
	b, err := ram.Read(5)
	require.NoError(t, err)
	require.Equal(t, byte(0), b)
}

func TestNewROMRejectsWrongSizedImage(t *testing.T) {
	_, err := NewROM(make([]byte, 10))
	require.Error(t, err)
}

func TestPCWraparoundSignalsEndOfProgram(t *testing.T) {
	cpu, _ := newCPU(t, blankROM(), "")
	cpu.PC = 0xFFFF

	_, err := cpu.fetchByte()
	require.Error(t, err)
	require.Equal(t, uint16(0), cpu.PC)
}
