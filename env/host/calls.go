// Package host implements env.Env on top of the sandbox host functions.
package host

// HostCalls is the host function surface, one method per import of the
// "env" module. Destination slices are filled in place; their length is the
// number of bytes the caller expects.
type HostCalls interface {
	SetStorage(key, value []byte)
	GetStorageSize(key []byte) uint32
	GetStorage(key, dst []byte)

	GetCallDataSize() uint32
	GetCallData(dst []byte)

	// Finish and Revert end the invocation on the host side.
	Finish(data []byte)
	Revert(data []byte)

	// Log appends an event. topics is a concatenation of 32-byte hashes.
	Log(data, topics []byte)

	GetCaller(dst []byte)
	GetBlockNumber() uint64
	GetBlockTimestamp() uint64

	// Call returns 0 on success.
	Call(addr, input []byte) uint32
	GetReturnDataSize() uint32
	GetReturnData(dst []byte)
}
