package codec

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
)

// EncodeValue writes the RLP encoding of v to w.
func EncodeValue(w io.Writer, v any) error {
	if err := rlp.Encode(w, v); err != nil {
		return err
	}
	return nil
}

// MarshalValue returns the RLP encoding of v.
func MarshalValue(v any) ([]byte, error) {
	b, err := rlp.EncodeToBytes(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return b, nil
}

// UnmarshalValue decodes RLP data into out, which must be a pointer.
func UnmarshalValue(data []byte, out any) error {
	if err := rlp.DecodeBytes(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}
