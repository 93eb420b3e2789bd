package runtime

import "fmt"

// Memory is the linear memory host functions address by offset. wazero's
// api.Memory satisfies it.
type Memory interface {
	Read(offset, byteCount uint32) ([]byte, bool)
	Write(offset uint32, v []byte) bool
}

// LinearMemory is an in-process Memory used to run native contracts
// through the same host functions as wasm modules.
type LinearMemory struct {
	data []byte
	top  uint32
}

// reserved keeps offset 0 unused so it can stand for a null pointer.
const reserved = 8

func NewLinearMemory(size int) *LinearMemory {
	if size < reserved {
		size = reserved
	}
	return &LinearMemory{data: make([]byte, size), top: reserved}
}

func (m *LinearMemory) Read(offset, byteCount uint32) ([]byte, bool) {
	end := uint64(offset) + uint64(byteCount)
	if end > uint64(len(m.data)) {
		return nil, false
	}
	return m.data[offset:end], true
}

func (m *LinearMemory) Write(offset uint32, v []byte) bool {
	end := uint64(offset) + uint64(len(v))
	if end > uint64(len(m.data)) {
		return false
	}
	copy(m.data[offset:], v)
	return true
}

func (m *LinearMemory) Size() uint32 {
	return uint32(len(m.data))
}

// alloc reserves n bytes and returns their offset, growing the memory when
// needed.
func (m *LinearMemory) alloc(n int) uint32 {
	if n == 0 {
		return 0
	}
	need := int(m.top) + n
	if need > len(m.data) {
		grown := make([]byte, max(need, 2*len(m.data)))
		copy(grown, m.data)
		m.data = grown
	}
	off := m.top
	m.top += uint32(n)
	return off
}

// stage copies b into fresh memory.
func (m *LinearMemory) stage(b []byte) (uint32, uint32) {
	off := m.alloc(len(b))
	if off != 0 {
		copy(m.data[off:], b)
	}
	return off, uint32(len(b))
}

// release frees everything allocated since the mark.
func (m *LinearMemory) release(mark uint32) {
	m.top = mark
}

// trap aborts the running contract.
type trap struct {
	msg string
}

func (t *trap) Error() string {
	return "trap: " + t.msg
}

func trapf(format string, args ...any) {
	panic(&trap{msg: fmt.Sprintf(format, args...)})
}

func read(mem Memory, offset, n uint32) []byte {
	if n == 0 {
		return nil
	}
	b, ok := mem.Read(offset, n)
	if !ok {
		trapf("out of bounds read at %d+%d", offset, n)
	}
	return append([]byte(nil), b...)
}

func write(mem Memory, offset uint32, b []byte) {
	if len(b) == 0 {
		return
	}
	if !mem.Write(offset, b) {
		trapf("out of bounds write at %d+%d", offset, len(b))
	}
}
