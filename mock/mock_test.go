package mock

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govm-net/contract/codec"
	"github.com/govm-net/contract/env"
	"github.com/govm-net/contract/types"
)

func TestContextStackLIFO(t *testing.T) {
	Reset()
	e := Env()
	a := types.AddressFromString("0x0a")
	b := types.AddressFromString("0x0b")
	c := types.AddressFromString("0x0c")
	d := types.AddressFromString("0x0d")

	SetCallerCallee(a, b)
	SetCallerCallee(c, d)
	assert.Equal(t, c, e.Caller())
	assert.Equal(t, d, e.Callee())

	PopExecutionContext()
	assert.Equal(t, a, e.Caller())
	assert.Equal(t, b, e.Callee())
}

func TestEmptyContextPanics(t *testing.T) {
	Reset()
	e := Env()
	assert.Panics(t, func() { e.Caller() })
	assert.Panics(t, func() { e.Callee() })

	SetCaller(Accounts().Alice)
	assert.Equal(t, Accounts().Alice, e.Caller())
	assert.Equal(t, types.ZeroAddress, e.Callee())
}

func TestStorageRoundTrip(t *testing.T) {
	Reset()
	e := Env()

	require.NoError(t, e.SetStorage([]byte("n"), uint64(7)))
	got, err := env.Get[uint64](e, []byte("n"))
	require.NoError(t, err)
	assert.Equal(t, uint64(7), got)

	require.NoError(t, env.Set(e, []byte("s"), "hello"))
	s, err := env.Get[string](e, []byte("s"))
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	raw, ok := RawStorage([]byte("s"))
	require.True(t, ok)
	assert.NotEmpty(t, raw)

	require.NoError(t, e.RemoveStorage([]byte("n")))
	_, err = env.Get[uint64](e, []byte("n"))
	assert.ErrorIs(t, err, env.ErrUnableToReadFromStorage)
}

func TestStateSurvivesUntilReset(t *testing.T) {
	Reset()
	require.NoError(t, Env().SetStorage([]byte("k"), uint64(1)))
	_, ok := RawStorage([]byte("k"))
	assert.True(t, ok)

	Reset()
	_, ok = RawStorage([]byte("k"))
	assert.False(t, ok)
}

func TestBlocks(t *testing.T) {
	Reset()
	e := Env()
	assert.Equal(t, uint64(0), e.BlockNumber())
	assert.Equal(t, uint64(0), e.Now())

	blk := PushBlock(1700000000)
	assert.Equal(t, uint64(1), blk.Number)
	assert.Equal(t, uint64(1), e.BlockNumber())
	assert.Equal(t, uint64(1700000000), e.Now())
	assert.Equal(t, blk, CurrentBlock())
}

func TestGetCallDataUnsupported(t *testing.T) {
	Reset()
	_, err := Env().GetCallData(types.Call)
	assert.ErrorIs(t, err, env.ErrUnsupported)
}

func TestTerminals(t *testing.T) {
	Reset()
	e := Env()
	term := env.Catch(func() { e.Revert(codec.EncodeOutcome(false, "nope")) })
	require.NotNil(t, term)
	assert.False(t, term.Success())
	_, msg, err := codec.DecodeOutcome(term.Payload)
	require.NoError(t, err)
	assert.Equal(t, "nope", msg)

	term = env.Catch(func() { e.Finish([]byte{1}) })
	require.NotNil(t, term)
	assert.True(t, term.Success())
}

func TestEvents(t *testing.T) {
	Reset()
	e := Env()
	contract := types.AddressFromString("0xc0")
	SetCallerCallee(Accounts().Bob, contract)

	ev := codec.MustEvent("Set", codec.Indexed("address"), codec.Plain("u64"))
	require.NoError(t, env.EmitEvent(e, ev, Accounts().Bob, uint64(5)))

	evs := Events()
	require.Len(t, evs, 1)
	assert.Equal(t, contract, evs[0].Contract)
	assert.Equal(t, ev.Topic0(e.Family()), evs[0].Topics[0])
	assert.Len(t, evs[0].Topics, 2)
}

func TestCallRegisteredContract(t *testing.T) {
	Reset()
	e := Env()
	self := types.AddressFromString("0x10")
	target := types.AddressFromString("0x20")
	SetCallerCallee(Accounts().Alice, self)

	get := codec.MustMethod("get", nil, []string{"u128"})
	var seenCaller types.Address
	RegisterContract(target, func(input []byte) ([]byte, error) {
		seenCaller = e.Caller()
		out, err := get.Outputs.Encode(big.NewInt(9))
		if err != nil {
			return nil, err
		}
		e.Finish(out)
		return nil, nil
	})

	values, err := env.CallTyped(e, target, get)
	require.NoError(t, err)
	assert.Equal(t, 0, big.NewInt(9).Cmp(values[0].(*big.Int)))
	assert.Equal(t, self, seenCaller)
	assert.Equal(t, Accounts().Alice, e.Caller(), "context restored after call")

	calls := Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, self, calls[0].Caller)
	assert.Equal(t, target, calls[0].Callee)
	assert.Equal(t, get.Selectors.Keccak256[:], calls[0].Input)
}

func TestCallFailures(t *testing.T) {
	Reset()
	e := Env()
	SetCaller(Accounts().Alice)
	out := codec.MustTuple()

	_, err := e.Call(types.AddressFromString("0x99"), []byte{1, 2, 3, 4}, out)
	assert.ErrorIs(t, err, env.ErrFailToCallRemoteContract)

	reverting := types.AddressFromString("0x98")
	RegisterContract(reverting, func([]byte) ([]byte, error) {
		e.Revert([]byte("no"))
		return nil, nil
	})
	_, err = e.Call(reverting, []byte{1, 2, 3, 4}, out)
	assert.ErrorIs(t, err, env.ErrFailToCallRemoteContract)

	failing := types.AddressFromString("0x97")
	RegisterContract(failing, func([]byte) ([]byte, error) {
		return nil, errors.New("broken")
	})
	_, err = e.Call(failing, []byte{1, 2, 3, 4}, out)
	assert.ErrorIs(t, err, env.ErrFailToCallRemoteContract)

	assert.Len(t, Calls(), 3)
	assert.Equal(t, Accounts().Alice, e.Caller())
}

func TestAccounts(t *testing.T) {
	acc := Accounts()
	assert.Equal(t, "ffffffffffffffffffffffffffffffffffffffff", acc.Alice.String())
	assert.Equal(t, "0101010101010101010101010101010101010101", acc.Bob.String())
	assert.Equal(t, byte(0x05), acc.Frank[19])
}
