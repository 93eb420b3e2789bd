//go:build wasip1

package host

import "unsafe"

//go:wasmimport env set_storage
func hostSetStorage(keyPtr, keyLen, valuePtr, valueLen uint32)

//go:wasmimport env get_storage_size
func hostGetStorageSize(keyPtr, keyLen uint32) uint32

//go:wasmimport env get_storage
func hostGetStorage(keyPtr, keyLen, dstPtr, dstLen uint32) uint32

//go:wasmimport env get_call_data_size
func hostGetCallDataSize() uint32

//go:wasmimport env get_call_data
func hostGetCallData(dstPtr, dstLen uint32) uint32

//go:wasmimport env finish
func hostFinish(ptr, size uint32)

//go:wasmimport env revert
func hostRevert(ptr, size uint32)

//go:wasmimport env log
func hostLog(dataPtr, dataLen, topicsPtr, topicCount uint32)

//go:wasmimport env get_caller
func hostGetCaller(dstPtr uint32)

//go:wasmimport env get_block_number
func hostGetBlockNumber() uint64

//go:wasmimport env get_block_timestamp
func hostGetBlockTimestamp() uint64

//go:wasmimport env call
func hostCall(addrPtr, inputPtr, inputLen uint32) uint32

//go:wasmimport env get_return_data_size
func hostGetReturnDataSize() uint32

//go:wasmimport env get_return_data
func hostGetReturnData(dstPtr, dstLen uint32) uint32

func ptr(b []byte) uint32 {
	if len(b) == 0 {
		return 0
	}
	return uint32(uintptr(unsafe.Pointer(unsafe.SliceData(b))))
}

func size(b []byte) uint32 {
	return uint32(len(b))
}

// wasmCalls issues the real host calls.
type wasmCalls struct{}

func (wasmCalls) SetStorage(key, value []byte) {
	hostSetStorage(ptr(key), size(key), ptr(value), size(value))
}

func (wasmCalls) GetStorageSize(key []byte) uint32 {
	return hostGetStorageSize(ptr(key), size(key))
}

func (wasmCalls) GetStorage(key, dst []byte) {
	hostGetStorage(ptr(key), size(key), ptr(dst), size(dst))
}

func (wasmCalls) GetCallDataSize() uint32 { return hostGetCallDataSize() }

func (wasmCalls) GetCallData(dst []byte) { hostGetCallData(ptr(dst), size(dst)) }

func (wasmCalls) Finish(data []byte) { hostFinish(ptr(data), size(data)) }

func (wasmCalls) Revert(data []byte) { hostRevert(ptr(data), size(data)) }

func (wasmCalls) Log(data, topics []byte) {
	hostLog(ptr(data), size(data), ptr(topics), size(topics)/32)
}

func (wasmCalls) GetCaller(dst []byte) { hostGetCaller(ptr(dst)) }

func (wasmCalls) GetBlockNumber() uint64 { return hostGetBlockNumber() }

func (wasmCalls) GetBlockTimestamp() uint64 { return hostGetBlockTimestamp() }

func (wasmCalls) Call(addr, input []byte) uint32 {
	return hostCall(ptr(addr), ptr(input), size(input))
}

func (wasmCalls) GetReturnDataSize() uint32 { return hostGetReturnDataSize() }

func (wasmCalls) GetReturnData(dst []byte) { hostGetReturnData(ptr(dst), size(dst)) }

// The sandbox instantiates one module per invocation, so the environment is
// a single module-level handle.
var instance = New(wasmCalls{})

// Instance returns the invocation's environment.
func Instance() *Env {
	return instance
}
