// Package types contains shared type definitions and constants
// used by both the contract side and the sandbox host.
package types

import (
	"encoding/hex"
	"strings"
)

// AddressLength is the byte length of an account or contract address.
const AddressLength = 20

// SelectorLength is the byte length of a method selector.
const SelectorLength = 4

// ScratchCapacity is the default capacity of the fixed scratch buffer used
// by the host backend for every encode/decode operation of one invocation.
const ScratchCapacity = 16 * 1024

// Address 表示区块链上的地址
type Address [AddressLength]byte

// Hash is a 32-byte digest, used for event topics.
type Hash [32]byte

// Selector is the 4-byte opcode identifying a contract method.
type Selector [SelectorLength]byte

var (
	ZeroAddress  = Address{}
	ZeroHash     = Hash{}
	ZeroSelector = Selector{}
)

func (addr Address) String() string {
	return hex.EncodeToString(addr[:])
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func (s Selector) String() string {
	return "0x" + hex.EncodeToString(s[:])
}

// AddressFromString parses a hex address, with or without 0x prefix.
// Invalid input yields the zero address.
func AddressFromString(str string) Address {
	str = strings.TrimPrefix(str, "0x")
	b, err := hex.DecodeString(str)
	if err != nil {
		return ZeroAddress
	}
	var out Address
	copy(out[AddressLength-min(len(b), AddressLength):], b)
	return out
}

func HashFromString(str string) Hash {
	str = strings.TrimPrefix(str, "0x")
	h, err := hex.DecodeString(str)
	if err != nil {
		return Hash{}
	}
	var out Hash
	copy(out[:], h)
	return out
}

// BytesToHash copies the trailing 32 bytes of b into a Hash.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > len(h) {
		b = b[len(b)-len(h):]
	}
	copy(h[len(h)-len(b):], b)
	return h
}

// CallMode selects which entry point an invocation runs.
type CallMode int

const (
	// Deploy runs the constructor exactly once.
	Deploy CallMode = iota
	// Call routes to an external method by selector.
	Call
)

func (m CallMode) String() string {
	switch m {
	case Deploy:
		return "deploy"
	case Call:
		return "call"
	default:
		return "unknown"
	}
}

// CallData is one decoded invocation input.
// In deploy mode Selector is zero and Payload holds the whole input.
type CallData struct {
	Selector Selector
	Payload  []byte
}

// SplitCallData splits call-mode input into selector and payload.
// ok is false when input is too short to hold a selector.
func SplitCallData(input []byte) (cd CallData, ok bool) {
	if len(input) < SelectorLength {
		return CallData{}, false
	}
	copy(cd.Selector[:], input[:SelectorLength])
	cd.Payload = input[SelectorLength:]
	return cd, true
}

// Host function names exported by the sandbox in module "env".
//
// IMPORTANT: these names are the contract between the contract side and the
// sandbox. Both sides must import them from here.
const (
	HostModule = "env"

	HostSetStorage        = "set_storage"
	HostGetStorageSize    = "get_storage_size"
	HostGetStorage        = "get_storage"
	HostGetCallDataSize   = "get_call_data_size"
	HostGetCallData       = "get_call_data"
	HostFinish            = "finish"
	HostRevert            = "revert"
	HostLog               = "log"
	HostGetCaller         = "get_caller"
	HostGetBlockNumber    = "get_block_number"
	HostGetBlockTimestamp = "get_block_timestamp"
	HostCall              = "call"
	HostGetReturnDataSize = "get_return_data_size"
	HostGetReturnData     = "get_return_data"
)

// HostFunctionNames lists the complete host function surface.
var HostFunctionNames = []string{
	HostSetStorage,
	HostGetStorageSize,
	HostGetStorage,
	HostGetCallDataSize,
	HostGetCallData,
	HostFinish,
	HostRevert,
	HostLog,
	HostGetCaller,
	HostGetBlockNumber,
	HostGetBlockTimestamp,
	HostCall,
	HostGetReturnDataSize,
	HostGetReturnData,
}

// Contract entry points exported by a wasm contract.
const (
	EntryDeploy = "deploy"
	EntryCall   = "call"
)
