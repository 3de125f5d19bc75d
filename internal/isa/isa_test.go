package isa_test

import (
	"testing"

	"github.com/chiiko/chiiko/internal/isa"
	"github.com/stretchr/testify/require"
)

func TestOperationRoundTrip(t *testing.T) {
	for _, mnemonic := range []string{"ADD", "JUMP", "HALT", "SWAP", "COMP", "SUM"} {
		op, err := isa.OperationByMnemonic(mnemonic)
		require.NoError(t, err)

		byOpcode, err := isa.OperationByOpcode(op.Opcode)
		require.NoError(t, err)
		require.Equal(t, op.Opcode, byOpcode.Opcode)

		// High mode-flag bit must not affect the round trip.
		byOpcodeHighBit, err := isa.OperationByOpcode(op.Opcode | 0x80)
		require.NoError(t, err)
		require.Equal(t, op.Opcode, byOpcodeHighBit.Opcode)
	}
}

func TestModeRoundTrip(t *testing.T) {
	for _, g := range []isa.ModeGroup{isa.NoOperand, isa.Value, isa.RegisterM, isa.DirectA, isa.JumpAddr, isa.Accum, isa.Low, isa.High} {
		nibble := g.Nibble()
		back, err := isa.ModeByNibble(nibble)
		require.NoError(t, err)
		require.Equal(t, g, back)
	}
}

func TestModeByteRoundTrip(t *testing.T) {
	m := isa.Mode{Left: isa.Value, Right: isa.RegisterM}
	b := m.Byte()
	decoded, err := isa.ModeFromByte(b)
	require.NoError(t, err)
	require.Equal(t, m, decoded)
}

func TestModeCompatibility(t *testing.T) {
	require.True(t, isa.Compatible(isa.AnyOp, isa.Value))
	require.True(t, isa.Compatible(isa.Value, isa.Value))
	require.True(t, isa.Compatible(isa.Accum, isa.NoOperand))
	require.True(t, isa.Compatible(isa.NoOperand, isa.Low))
	require.False(t, isa.Compatible(isa.Value, isa.RegisterM))
}

func TestRegisterLookup(t *testing.T) {
	r, err := isa.RegisterByName("bc")
	require.NoError(t, err)
	require.Equal(t, isa.BC, r)
	require.True(t, r.IsPair())

	hi, lo := r.Halves()
	require.Equal(t, isa.B, hi)
	require.Equal(t, isa.C, lo)

	_, err = isa.RegisterByName("ZZ")
	require.Error(t, err)
}

func TestParseNumeral(t *testing.T) {
	cases := map[string]uint64{
		"10":     10,
		"0x1F":   0x1F,
		"0o17":   0o17,
		"0b1010": 0b1010,
	}
	for lit, want := range cases {
		got, err := isa.ParseNumeral(lit)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := isa.ParseNumeral("0xZZ")
	require.Error(t, err)
}
