package buffer

// Dynamic is an unbounded buffer for off-chain use.
type Dynamic struct {
	data []byte
}

var _ Buffer = (*Dynamic)(nil)

func NewDynamic() *Dynamic {
	return &Dynamic{}
}

func (b *Dynamic) Clear() {
	b.data = b.data[:0]
}

func (b *Dynamic) Resize(n int) error {
	if n < 0 {
		return ErrOutOfRange
	}
	if n <= len(b.data) {
		b.data = b.data[:n]
		return nil
	}
	if n <= cap(b.data) {
		old := len(b.data)
		b.data = b.data[:n]
		clear(b.data[old:])
		return nil
	}
	b.data = append(b.data, make([]byte, n-len(b.data))...)
	return nil
}

func (b *Dynamic) Len() int {
	return len(b.data)
}

func (b *Dynamic) Cap() int {
	return -1
}

func (b *Dynamic) Bytes() []byte {
	return b.data
}

func (b *Dynamic) Slice(from, to int) ([]byte, error) {
	if err := checkRange(from, to, len(b.data)); err != nil {
		return nil, err
	}
	return b.data[from:to], nil
}

func (b *Dynamic) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}
