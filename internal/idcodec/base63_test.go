package idcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeintel/symgraph/internal/types"
)

func TestEncode_Zero(t *testing.T) {
	assert.Equal(t, "A", Encode(0), "zero should encode to 'A'")
}

func TestEncode_SingleDigits(t *testing.T) {
	tests := []struct {
		value    uint64
		expected string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "a"},
		{51, "z"},
		{52, "0"},
		{61, "9"},
		{62, "_"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, Encode(tc.value))
		})
	}
}

func TestEncode_MultiDigit(t *testing.T) {
	tests := []struct {
		value    uint64
		expected string
	}{
		{63, "BA"},
		{64, "BB"},
		{125, "B_"},
		{126, "CA"},
		{3969, "BAA"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, Encode(tc.value))
		})
	}
}

func TestDecode_EmptyString(t *testing.T) {
	_, err := Decode("")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestDecode_InvalidCharacters(t *testing.T) {
	for _, s := range []string{"!", "@", " ", "AB@CD", "hello world"} {
		t.Run(s, func(t *testing.T) {
			_, err := Decode(s)
			assert.Error(t, err)
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"A", true},
		{"z", true},
		{"0", true},
		{"_", true},
		{"abc123", true},
		{"", false},
		{"!", false},
		{"AB CD", false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.valid, IsValid(tc.input))
		})
	}
}

func TestEncodeNoZero(t *testing.T) {
	assert.Equal(t, "", EncodeNoZero(0))
	assert.Equal(t, "B", EncodeNoZero(1))
}

func TestRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 62, 63, 64, 1000, 100000, 0xFFFFFFFF, 0xFFFFFFFFFFFFFFFF}
	for _, v := range values {
		encoded := Encode(v)
		decoded, err := Decode(encoded)
		require.NoError(t, err)
		assert.Equal(t, v, decoded, "round trip failed for %d -> %s -> %d", v, encoded, decoded)
	}
}

func TestSymbolIDRoundTrip(t *testing.T) {
	ids := []types.SymbolID{0, 1, 42, 1 << 20}
	for _, id := range ids {
		decoded, err := DecodeSymbolID(EncodeSymbolID(id))
		require.NoError(t, err)
		assert.Equal(t, id, decoded)
	}
}

func TestCompositeIDRoundTrip(t *testing.T) {
	ids := []types.CompositeID{
		{File: 1, Local: 0},
		{File: 7, Local: 3},
		{File: 0xFFFFFFFF, Local: 0xFFFFFFFF},
	}
	for _, id := range ids {
		decoded, err := DecodeComposite(EncodeComposite(id))
		require.NoError(t, err)
		assert.Equal(t, id, decoded)
	}
}

func TestCompositeID_ZeroIsEmpty(t *testing.T) {
	assert.Equal(t, "", EncodeComposite(types.CompositeID{}))
}
