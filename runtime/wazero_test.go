package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govm-net/contract/dispatch"
	"github.com/govm-net/contract/store"
	"github.com/govm-net/contract/types"
)

// Minimal wasm binary encoding, enough to build test guests by hand.

func uleb(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func sleb(v int32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func vec(items ...[]byte) []byte {
	out := uleb(uint32(len(items)))
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}

func section(id byte, body []byte) []byte {
	out := append([]byte{id}, uleb(uint32(len(body)))...)
	return append(out, body...)
}

func wasmName(s string) []byte {
	return append(uleb(uint32(len(s))), s...)
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

const (
	i32        = 0x7f
	opCall     = 0x10
	opI32Const = 0x41
	opEnd      = 0x0b
	opTrap     = 0x00 // unreachable
)

func i32Const(v int32) []byte {
	return append([]byte{opI32Const}, sleb(v)...)
}

func callFunc(idx uint32) []byte {
	return append([]byte{opCall}, uleb(idx)...)
}

func funcBody(instrs ...[]byte) []byte {
	body := concat(uleb(0), concat(instrs...), []byte{opEnd})
	return append(uleb(uint32(len(body))), body...)
}

func dataSegment(offset int32, data []byte) []byte {
	return concat([]byte{0x00}, i32Const(offset), []byte{opEnd}, uleb(uint32(len(data))), data)
}

const revertDataOffset = 16

var revertReason = dispatch.RetInfo{Message: "nope"}.Encode()

// storeGuest is a contract whose deploy entry stores k="a" and finishes, and
// whose call entry stores k="b" and reverts with "nope". Both entries hit
// unreachable if the terminal host call returns.
func storeGuest() []byte {
	const (
		setStorage = 0
		finish     = 1
		revert     = 2
	)
	typeSec := section(1, vec(
		[]byte{0x60, 0x00, 0x00},
		[]byte{0x60, 0x02, i32, i32, 0x00},
		[]byte{0x60, 0x04, i32, i32, i32, i32, 0x00},
	))
	imports := section(2, vec(
		concat(wasmName(types.HostModule), wasmName(types.HostSetStorage), []byte{0x00, 0x02}),
		concat(wasmName(types.HostModule), wasmName(types.HostFinish), []byte{0x00, 0x01}),
		concat(wasmName(types.HostModule), wasmName(types.HostRevert), []byte{0x00, 0x01}),
	))
	funcs := section(3, vec([]byte{0x00}, []byte{0x00}))
	memory := section(5, vec([]byte{0x00, 0x01}))
	exports := section(7, vec(
		concat(wasmName("memory"), []byte{0x02, 0x00}),
		concat(wasmName(types.EntryDeploy), []byte{0x00, 0x03}),
		concat(wasmName(types.EntryCall), []byte{0x00, 0x04}),
	))
	code := section(10, vec(
		funcBody(
			i32Const(0), i32Const(1), i32Const(1), i32Const(1), callFunc(setStorage),
			i32Const(0), i32Const(0), callFunc(finish),
			[]byte{opTrap},
		),
		funcBody(
			i32Const(0), i32Const(1), i32Const(2), i32Const(1), callFunc(setStorage),
			i32Const(revertDataOffset), i32Const(int32(len(revertReason))), callFunc(revert),
			[]byte{opTrap},
		),
	))
	data := section(11, vec(
		dataSegment(0, []byte("kab")),
		dataSegment(revertDataOffset, revertReason),
	))
	return concat(emptyModule, typeSec, imports, funcs, memory, exports, code, data)
}

func TestWasmGuestFinishAndRevert(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	r, err := New(ctx, st)
	require.NoError(t, err)
	defer r.Close(ctx)

	code := storeGuest()
	receipt, err := r.DeployWasm(ctx, alice, c1, code, nil)
	require.NoError(t, err)
	require.True(t, receipt.Success, receipt.Message)

	v, err := st.Get(c1, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), v)

	saved, err := st.LoadCode(c1)
	require.NoError(t, err)
	assert.Equal(t, code, saved)

	receipt, err = r.Call(ctx, alice, c1, []byte{1, 2, 3, 4})
	require.NoError(t, err)
	assert.False(t, receipt.Success)
	assert.Equal(t, "nope", receipt.Message)
	assert.Equal(t, revertReason, receipt.Output)

	// the write before the revert was rolled back
	v, err = st.Get(c1, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), v)
}

func TestWasmCodeLoadedFromStore(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	require.NoError(t, st.SaveCode(c1, storeGuest()))

	r, err := New(ctx, st)
	require.NoError(t, err)
	defer r.Close(ctx)

	receipt, err := r.Call(ctx, alice, c1, nil)
	require.NoError(t, err)
	assert.False(t, receipt.Success)
	assert.Equal(t, "nope", receipt.Message)
}

func TestInspectGuest(t *testing.T) {
	info, err := Inspect(context.Background(), storeGuest())
	require.NoError(t, err)
	assert.Equal(t, []string{"env.set_storage", "env.finish", "env.revert"}, info.Imports)
	assert.Equal(t, []string{"call", "deploy"}, info.Exports)
	assert.Empty(t, info.Missing)
}
