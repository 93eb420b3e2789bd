package selector

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"uint", "uint256"},
		{"int", "int256"},
		{"u128", "uint128"},
		{"i64", "int64"},
		{"Address", "address"},
		{"contract::types::Address", "address"},
		{"types.Address", "address"},
		{"String", "string"},
		{"Bytes", "bytes"},
		{"Bytes32", "bytes32"},
		{"byte", "bytes1"},
		{"uint8[]", "uint8[]"},
		{"[]uint8", "uint8[]"},
		{"[2][]u8", "uint8[][2]"},
		{"(u128, Address)", "(uint128,address)"},
		{"(uint256,(bool,string))[3]", "(uint256,(bool,string))[3]"},
		{"()", "()"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := CanonicalType(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalTypeInvalid(t *testing.T) {
	for _, in := range []string{"", "foo", "uint7", "uint264", "bytes33", "bytes0", "uint8[", "(uint8", "uint8[0]", "uint8 x"} {
		_, err := CanonicalType(in)
		assert.ErrorIs(t, err, ErrInvalidType, in)
	}
}

func TestSignature(t *testing.T) {
	sig, err := Signature("transfer", "Address", "u256")
	require.NoError(t, err)
	assert.Equal(t, "transfer(address,uint256)", sig)

	sig, err = Signature("get")
	require.NoError(t, err)
	assert.Equal(t, "get()", sig)

	_, err = Signature("bad name", "uint8")
	assert.ErrorIs(t, err, ErrInvalidName)
	_, err = Signature("", "uint8")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestComputeKeccak(t *testing.T) {
	sel, err := Compute(Keccak256, "transfer", "address", "uint256")
	require.NoError(t, err)
	assert.Equal(t, "0xa9059cbb", sel.String())

	sel, err = Compute(Keccak256, "balanceOf", "Address")
	require.NoError(t, err)
	assert.Equal(t, "0x70a08231", sel.String())
}

func TestComputeDeterministic(t *testing.T) {
	for _, f := range Families {
		a, err := Compute(f, "inc_by", "u128")
		require.NoError(t, err)
		b, err := Compute(f, "inc_by", "uint128")
		require.NoError(t, err)
		assert.Equal(t, a, b, f.String())
	}
}

func TestFamiliesDiffer(t *testing.T) {
	p := PairOf("transfer(address,uint256)")
	assert.NotEqual(t, p.Keccak256, p.SM3)
	assert.Equal(t, p.SM3, p.For(SM3))
	assert.Equal(t, p.Keccak256, p.For(Keccak256))
}

func TestSM3Vector(t *testing.T) {
	sum := SM3.Sum([]byte("abc"))
	assert.Equal(t, "66c7f0f462eeedd9d1f2d46bdc10e4e24167c4875cf2f7a2297da02b8f4ba8e0", hex.EncodeToString(sum[:]))
}

func TestParseFamily(t *testing.T) {
	f, err := ParseFamily("SM3")
	require.NoError(t, err)
	assert.Equal(t, SM3, f)

	f, err = ParseFamily("keccak256")
	require.NoError(t, err)
	assert.Equal(t, Keccak256, f)

	_, err = ParseFamily("blake2")
	assert.ErrorIs(t, err, ErrUnknownFamily)
}

func TestRegistryOverloads(t *testing.T) {
	r := NewRegistry()
	a, err := r.Add("transfer", "address")
	require.NoError(t, err)
	b, err := r.Add("transfer", "address", "uint256")
	require.NoError(t, err)
	assert.NotEqual(t, a.Selectors, b.Selectors)

	for _, f := range Families {
		got, ok := r.Lookup(f, b.Selectors.For(f))
		require.True(t, ok)
		assert.Equal(t, "transfer(address,uint256)", got.Signature)
	}
	assert.Equal(t, 2, r.Len())
}

func TestRegistryCollision(t *testing.T) {
	r := NewRegistry()
	r.MustAdd("transfer", "address")
	_, err := r.Add("transfer", "Address")
	assert.ErrorIs(t, err, ErrCollision)
	assert.Equal(t, 1, r.Len())

	assert.Panics(t, func() { r.MustAdd("transfer", "types.Address") })
}
