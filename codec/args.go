package codec

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/govm-net/contract/types"
)

// ParseValues converts textual arguments into values Encode accepts.
// Only elementary types are supported: integers (decimal or 0x hex), bool,
// string, address, bytes and bytesN (0x hex).
func (t Tuple) ParseValues(strs []string) ([]any, error) {
	if len(strs) != len(t.args) {
		return nil, fmt.Errorf("%w: want %d arguments, got %d", ErrEncode, len(t.args), len(strs))
	}
	values := make([]any, len(strs))
	for i, s := range strs {
		v, err := parseValue(t.args[i].Type, s)
		if err != nil {
			return nil, fmt.Errorf("%w: argument %d (%s): %v", ErrEncode, i, t.names[i], err)
		}
		values[i] = v
	}
	return values, nil
}

func parseValue(typ abi.Type, s string) (any, error) {
	switch typ.T {
	case abi.BoolTy:
		return strconv.ParseBool(s)
	case abi.StringTy:
		return s, nil
	case abi.AddressTy:
		if !common.IsHexAddress(s) {
			return nil, fmt.Errorf("invalid address %q", s)
		}
		return types.Address(common.HexToAddress(s)), nil
	case abi.BytesTy:
		return hexutil.Decode(s)
	case abi.FixedBytesTy:
		b, err := hexutil.Decode(s)
		if err != nil {
			return nil, err
		}
		if len(b) != typ.Size {
			return nil, fmt.Errorf("want %d bytes, got %d", typ.Size, len(b))
		}
		v := reflect.New(typ.GetType()).Elem()
		reflect.Copy(v, reflect.ValueOf(b))
		return v.Interface(), nil
	case abi.IntTy, abi.UintTy:
		return parseInt(typ, s)
	default:
		return nil, fmt.Errorf("unsupported type %s", typ.String())
	}
}

func parseInt(typ abi.Type, s string) (any, error) {
	n, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	if typ.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > typ.Size {
			return nil, fmt.Errorf("%s out of range for %s", s, typ.String())
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(typ.Size-1))
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, fmt.Errorf("%s out of range for %s", s, typ.String())
		}
	}
	rt := typ.GetType()
	switch rt.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := reflect.New(rt).Elem()
		v.SetUint(n.Uint64())
		return v.Interface(), nil
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := reflect.New(rt).Elem()
		v.SetInt(n.Int64())
		return v.Interface(), nil
	default:
		return n, nil
	}
}
