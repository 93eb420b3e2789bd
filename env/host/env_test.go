package host

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govm-net/contract/codec"
	"github.com/govm-net/contract/env"
	"github.com/govm-net/contract/selector"
	"github.com/govm-net/contract/types"
)

type logEntry struct {
	data   []byte
	topics []byte
}

// fakeCalls is an in-memory host function surface.
type fakeCalls struct {
	storage    map[string][]byte
	input      []byte
	caller     types.Address
	block      uint64
	time       uint64
	finished   []byte
	reverted   []byte
	logs       []logEntry
	callStatus uint32
	returnData []byte
	lastCall   []byte
}

func newFakeCalls() *fakeCalls {
	return &fakeCalls{storage: make(map[string][]byte)}
}

func (f *fakeCalls) SetStorage(key, value []byte) {
	if len(value) == 0 {
		delete(f.storage, string(key))
		return
	}
	f.storage[string(key)] = bytes.Clone(value)
}

func (f *fakeCalls) GetStorageSize(key []byte) uint32 { return uint32(len(f.storage[string(key)])) }
func (f *fakeCalls) GetStorage(key, dst []byte)       { copy(dst, f.storage[string(key)]) }
func (f *fakeCalls) GetCallDataSize() uint32          { return uint32(len(f.input)) }
func (f *fakeCalls) GetCallData(dst []byte)           { copy(dst, f.input) }
func (f *fakeCalls) Finish(data []byte)               { f.finished = bytes.Clone(data) }
func (f *fakeCalls) Revert(data []byte)               { f.reverted = bytes.Clone(data) }
func (f *fakeCalls) Log(data, topics []byte) {
	f.logs = append(f.logs, logEntry{bytes.Clone(data), bytes.Clone(topics)})
}
func (f *fakeCalls) GetCaller(dst []byte)      { copy(dst, f.caller[:]) }
func (f *fakeCalls) GetBlockNumber() uint64    { return f.block }
func (f *fakeCalls) GetBlockTimestamp() uint64 { return f.time }
func (f *fakeCalls) Call(addr, input []byte) uint32 {
	f.lastCall = bytes.Clone(input)
	return f.callStatus
}
func (f *fakeCalls) GetReturnDataSize() uint32 { return uint32(len(f.returnData)) }
func (f *fakeCalls) GetReturnData(dst []byte)  { copy(dst, f.returnData) }

func TestStorageRoundTrip(t *testing.T) {
	calls := newFakeCalls()
	e := New(calls)

	require.NoError(t, e.SetStorage([]byte("count"), uint64(42)))
	var got uint64
	require.NoError(t, e.GetStorage([]byte("count"), &got))
	assert.Equal(t, uint64(42), got)

	v, err := env.Get[uint64](e, []byte("count"))
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)

	require.NoError(t, e.RemoveStorage([]byte("count")))
	err = e.GetStorage([]byte("count"), &got)
	assert.ErrorIs(t, err, env.ErrUnableToReadFromStorage)

	def, err := env.GetOr(e, []byte("count"), uint64(9))
	require.NoError(t, err)
	assert.Equal(t, uint64(9), def)
}

func TestStorageBufferLengthFidelity(t *testing.T) {
	calls := newFakeCalls()
	e := New(calls, WithCapacity(128))

	require.NoError(t, e.SetStorage([]byte("a"), "a fairly long string value"))
	require.NoError(t, e.SetStorage([]byte("b"), uint64(1)))

	var s string
	require.NoError(t, e.GetStorage([]byte("a"), &s))
	assert.Equal(t, len(calls.storage["a"]), e.Buffer().Len())

	var n uint64
	require.NoError(t, e.GetStorage([]byte("b"), &n))
	assert.Equal(t, len(calls.storage["b"]), e.Buffer().Len())
	assert.Equal(t, uint64(1), n)
}

func TestStorageHeapPath(t *testing.T) {
	calls := newFakeCalls()
	e := New(calls, WithCapacity(16))

	blob := bytes.Repeat([]byte{0xab}, 100)
	require.NoError(t, e.SetStorage([]byte("blob"), blob))
	assert.Greater(t, len(calls.storage["blob"]), 16)
	assert.LessOrEqual(t, e.Buffer().Len(), 16)

	// a small read fills the scratch buffer first
	require.NoError(t, e.SetStorage([]byte("small"), "abcdefghij"))
	var small string
	require.NoError(t, e.GetStorage([]byte("small"), &small))
	assert.Equal(t, len(calls.storage["small"]), e.Buffer().Len())

	var got []byte
	require.NoError(t, e.GetStorage([]byte("blob"), &got))
	assert.Equal(t, blob, got)
	assert.Zero(t, e.Buffer().Len(), "heap read must not leave the previous payload visible")
	assert.Empty(t, e.Buffer().Bytes())
}

func TestGetCallData(t *testing.T) {
	calls := newFakeCalls()
	e := New(calls)

	calls.input = []byte{1, 2, 3}
	_, err := e.GetCallData(types.Call)
	assert.ErrorIs(t, err, env.ErrUnableToReadCallData)

	cd, err := e.GetCallData(types.Deploy)
	require.NoError(t, err)
	assert.Equal(t, types.ZeroSelector, cd.Selector)
	assert.Equal(t, []byte{1, 2, 3}, cd.Payload)

	calls.input = []byte{0xa9, 0x05, 0x9c, 0xbb, 7}
	cd, err = e.GetCallData(types.Call)
	require.NoError(t, err)
	assert.Equal(t, "0xa9059cbb", cd.Selector.String())
	assert.Equal(t, []byte{7}, cd.Payload)
}

func TestTerminals(t *testing.T) {
	calls := newFakeCalls()
	e := New(calls)

	term := env.Catch(func() {
		e.Finish([]byte("ok"))
		t.Fatal("finish returned")
	})
	require.NotNil(t, term)
	assert.True(t, term.Success())
	assert.Equal(t, []byte("ok"), term.Payload)
	assert.Equal(t, []byte("ok"), calls.finished)

	term = env.Catch(func() { env.Require(e, false, "not owner") })
	require.NotNil(t, term)
	assert.Equal(t, env.Reverted, term.Kind)
	ok, msg, err := codec.DecodeOutcome(calls.reverted)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "not owner", msg)

	assert.Nil(t, env.Catch(func() { env.Require(e, true, "fine") }))
	assert.PanicsWithValue(t, "boom", func() { env.Catch(func() { panic("boom") }) })
}

func TestChainMetadata(t *testing.T) {
	calls := newFakeCalls()
	calls.caller = types.AddressFromString("0x01")
	calls.block = 12
	calls.time = 1700000000
	e := New(calls)

	assert.Equal(t, calls.caller, e.Caller())
	assert.Equal(t, types.AddressLength, e.Buffer().Len())
	assert.Equal(t, uint64(12), e.BlockNumber())
	assert.Equal(t, uint64(1700000000), e.Now())
}

func TestEmit(t *testing.T) {
	calls := newFakeCalls()
	e := New(calls)
	ev := codec.MustEvent("Incremented", codec.Indexed("address"), codec.Plain("u128"))
	require.NoError(t, env.EmitEvent(e, ev, types.AddressFromString("0x01"), big.NewInt(3)))

	require.Len(t, calls.logs, 1)
	assert.Len(t, calls.logs[0].topics, 64)
	topic0 := ev.Topic0(selector.Keccak256)
	assert.Equal(t, topic0[:], calls.logs[0].topics[:32])
	assert.Len(t, calls.logs[0].data, 32)
}

func TestCall(t *testing.T) {
	calls := newFakeCalls()
	e := New(calls, WithCapacity(64))
	target := types.AddressFromString("0x09")
	get := codec.MustMethod("get", nil, []string{"u128"})

	out, err := get.Outputs.Encode(big.NewInt(77))
	require.NoError(t, err)
	calls.returnData = out
	values, err := env.CallTyped(e, target, get)
	require.NoError(t, err)
	assert.Equal(t, 0, big.NewInt(77).Cmp(values[0].(*big.Int)))
	assert.Equal(t, get.Selectors.Keccak256[:], calls.lastCall)

	calls.callStatus = 1
	_, err = env.CallTyped(e, target, get)
	assert.ErrorIs(t, err, env.ErrFailToCallRemoteContract)
}

func TestCallEmptyAndLargeOutputs(t *testing.T) {
	calls := newFakeCalls()
	e := New(calls, WithCapacity(64))
	target := types.AddressFromString("0x09")

	calls.returnData = []byte("ignored")
	values, err := e.Call(target, []byte{1, 2, 3, 4}, codec.MustTuple())
	require.NoError(t, err)
	assert.Empty(t, values)
	assert.Equal(t, 0, e.Buffer().Len())

	long := string(bytes.Repeat([]byte("x"), 200))
	tup := codec.MustTuple("string")
	calls.returnData, err = tup.Encode(long)
	require.NoError(t, err)
	values, err = e.Call(target, []byte{1, 2, 3, 4}, tup)
	require.NoError(t, err)
	assert.Equal(t, long, values[0])
}
