package runtime

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/govm-net/contract/store"
	"github.com/govm-net/contract/types"
)

// 宿主函数: 参数均为线性内存中的偏移量和长度, 只读写当前帧和状态存储

func (r *Runtime) setStorage(mem Memory, keyPtr, keyLen, valuePtr, valueLen uint32) {
	f := r.current()
	key := read(mem, keyPtr, keyLen)
	value := read(mem, valuePtr, valueLen)

	prev, err := r.store.Get(f.Contract, key)
	if err != nil {
		trapf("storage read: %v", err)
	}
	if err := r.store.Set(f.Contract, key, value); err != nil {
		trapf("storage write: %v", err)
	}
	f.journal = append(f.journal, undo{contract: f.Contract, key: key, prev: prev})
}

func (r *Runtime) getStorageSize(mem Memory, keyPtr, keyLen uint32) uint32 {
	f := r.current()
	v, err := r.store.Get(f.Contract, read(mem, keyPtr, keyLen))
	if err != nil {
		trapf("storage read: %v", err)
	}
	return uint32(len(v))
}

func (r *Runtime) getStorage(mem Memory, keyPtr, keyLen, dstPtr, dstLen uint32) uint32 {
	f := r.current()
	v, err := r.store.Get(f.Contract, read(mem, keyPtr, keyLen))
	if err != nil {
		trapf("storage read: %v", err)
	}
	return copyOut(mem, dstPtr, dstLen, v)
}

func (r *Runtime) getCallDataSize() uint32 {
	return uint32(len(r.current().Input))
}

func (r *Runtime) getCallData(mem Memory, dstPtr, dstLen uint32) uint32 {
	return copyOut(mem, dstPtr, dstLen, r.current().Input)
}

func (r *Runtime) finish(mem Memory, ptr, size uint32) {
	f := r.current()
	f.Output = read(mem, ptr, size)
	f.Status = Finished
}

func (r *Runtime) revert(mem Memory, ptr, size uint32) {
	f := r.current()
	f.Output = read(mem, ptr, size)
	f.Status = Reverted
}

func (r *Runtime) log(mem Memory, dataPtr, dataLen, topicsPtr, topicCount uint32) {
	f := r.current()
	if uint64(topicCount)*32 > math.MaxUint32 {
		trapf("too many topics: %d", topicCount)
	}
	raw := read(mem, topicsPtr, topicCount*32)
	ev := store.Event{
		Block:    r.block.Number,
		Contract: f.Contract,
		Data:     read(mem, dataPtr, dataLen),
	}
	for i := 0; i+32 <= len(raw); i += 32 {
		ev.Topics = append(ev.Topics, types.BytesToHash(raw[i:i+32]))
	}
	f.events = append(f.events, ev)
}

func (r *Runtime) getCaller(mem Memory, dstPtr uint32) {
	caller := r.current().Caller
	write(mem, dstPtr, caller[:])
}

func (r *Runtime) getBlockNumber() uint64 {
	return r.block.Number
}

func (r *Runtime) getBlockTimestamp() uint64 {
	return r.block.Timestamp
}

func (r *Runtime) call(ctx context.Context, mem Memory, addrPtr, inputPtr, inputLen uint32) uint32 {
	parent := r.current()
	addr := types.Address(read(mem, addrPtr, types.AddressLength))
	input := read(mem, inputPtr, inputLen)

	child, status := r.invoke(ctx, parent.Contract, addr, types.Call, input)
	parent.ReturnData = nil
	if child != nil {
		parent.ReturnData = child.Output
	}
	r.logger.Debug("nested call",
		zap.Stringer("caller", parent.Contract),
		zap.Stringer("contract", addr),
		zap.Uint32("status", status))
	return status
}

func (r *Runtime) getReturnDataSize() uint32 {
	return uint32(len(r.current().ReturnData))
}

func (r *Runtime) getReturnData(mem Memory, dstPtr, dstLen uint32) uint32 {
	return copyOut(mem, dstPtr, dstLen, r.current().ReturnData)
}

// copyOut writes at most dstLen bytes of src and returns the count.
func copyOut(mem Memory, dstPtr, dstLen uint32, src []byte) uint32 {
	n := min(uint32(len(src)), dstLen)
	write(mem, dstPtr, src[:n])
	return n
}
