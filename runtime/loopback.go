package runtime

import (
	"context"

	"github.com/govm-net/contract/env/host"
)

// loopback is the HostCalls of a native contract. Every call stages its
// arguments in a LinearMemory and goes through the same host functions a
// wasm module imports.
type loopback struct {
	ctx context.Context
	r   *Runtime
	mem *LinearMemory
}

var _ host.HostCalls = (*loopback)(nil)

func newLoopback(ctx context.Context, r *Runtime) *loopback {
	return &loopback{ctx: ctx, r: r, mem: NewLinearMemory(r.capacity + reserved)}
}

// fill allocates len(dst) bytes, lets fn write them and copies them to dst.
func (l *loopback) fill(dst []byte, fn func(off, n uint32)) {
	mark := l.mem.top
	defer l.mem.release(mark)
	off := l.mem.alloc(len(dst))
	fn(off, uint32(len(dst)))
	if off != 0 {
		copy(dst, l.mem.data[off:int(off)+len(dst)])
	}
}

func (l *loopback) SetStorage(key, value []byte) {
	mark := l.mem.top
	defer l.mem.release(mark)
	kp, kl := l.mem.stage(key)
	vp, vl := l.mem.stage(value)
	l.r.setStorage(l.mem, kp, kl, vp, vl)
}

func (l *loopback) GetStorageSize(key []byte) uint32 {
	mark := l.mem.top
	defer l.mem.release(mark)
	kp, kl := l.mem.stage(key)
	return l.r.getStorageSize(l.mem, kp, kl)
}

func (l *loopback) GetStorage(key, dst []byte) {
	mark := l.mem.top
	defer l.mem.release(mark)
	kp, kl := l.mem.stage(key)
	l.fill(dst, func(off, n uint32) { l.r.getStorage(l.mem, kp, kl, off, n) })
}

func (l *loopback) GetCallDataSize() uint32 {
	return l.r.getCallDataSize()
}

func (l *loopback) GetCallData(dst []byte) {
	l.fill(dst, func(off, n uint32) { l.r.getCallData(l.mem, off, n) })
}

func (l *loopback) Finish(data []byte) {
	mark := l.mem.top
	defer l.mem.release(mark)
	p, n := l.mem.stage(data)
	l.r.finish(l.mem, p, n)
}

func (l *loopback) Revert(data []byte) {
	mark := l.mem.top
	defer l.mem.release(mark)
	p, n := l.mem.stage(data)
	l.r.revert(l.mem, p, n)
}

func (l *loopback) Log(data, topics []byte) {
	mark := l.mem.top
	defer l.mem.release(mark)
	dp, dl := l.mem.stage(data)
	tp, tl := l.mem.stage(topics)
	l.r.log(l.mem, dp, dl, tp, tl/32)
}

func (l *loopback) GetCaller(dst []byte) {
	l.fill(dst, func(off, _ uint32) { l.r.getCaller(l.mem, off) })
}

func (l *loopback) GetBlockNumber() uint64 {
	return l.r.getBlockNumber()
}

func (l *loopback) GetBlockTimestamp() uint64 {
	return l.r.getBlockTimestamp()
}

func (l *loopback) Call(addr, input []byte) uint32 {
	mark := l.mem.top
	defer l.mem.release(mark)
	ap, _ := l.mem.stage(addr)
	ip, il := l.mem.stage(input)
	return l.r.call(l.ctx, l.mem, ap, ip, il)
}

func (l *loopback) GetReturnDataSize() uint32 {
	return l.r.getReturnDataSize()
}

func (l *loopback) GetReturnData(dst []byte) {
	l.fill(dst, func(off, n uint32) { l.r.getReturnData(l.mem, off, n) })
}
