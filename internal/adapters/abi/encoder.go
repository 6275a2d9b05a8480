package abi

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/tokendeploy/internal/usecase"
)

// Encoder coerces deployment arguments into the Go types the go-ethereum ABI
// packer expects. Arguments that already have a usable type pass through
// untouched; arity and type mismatches are left for the packer to report.
type Encoder struct{}

// NewEncoder creates a new argument encoder
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode converts args positionally against the constructor inputs
func (e *Encoder) Encode(inputs abi.Arguments, args []any) ([]any, error) {
	out := make([]any, len(args))
	for i, arg := range args {
		if i >= len(inputs) {
			out[i] = arg
			continue
		}
		value, err := coerce(inputs[i].Type, arg)
		if err != nil {
			name := inputs[i].Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("argument %s (%s): %w", name, inputs[i].Type.String(), err)
		}
		out[i] = value
	}
	return out, nil
}

func coerce(t abi.Type, arg any) (any, error) {
	switch t.T {
	case abi.IntTy, abi.UintTy:
		return coerceInteger(t, arg)
	}

	text, ok := arg.(string)
	if !ok {
		return arg, nil
	}

	switch t.T {
	case abi.StringTy:
		return text, nil
	case abi.AddressTy:
		if !common.IsHexAddress(text) {
			return nil, fmt.Errorf("invalid address %q", text)
		}
		return common.HexToAddress(text), nil
	case abi.BoolTy:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, fmt.Errorf("invalid bool %q", text)
		}
		return b, nil
	case abi.BytesTy:
		b, err := hexutil.Decode(text)
		if err != nil {
			return nil, fmt.Errorf("invalid bytes %q: %w", text, err)
		}
		return b, nil
	case abi.FixedBytesTy:
		b, err := hexutil.Decode(text)
		if err != nil {
			return nil, fmt.Errorf("invalid bytes%d %q: %w", t.Size, text, err)
		}
		if len(b) > t.Size {
			return nil, fmt.Errorf("value %q is longer than %d bytes", text, t.Size)
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil
	default:
		return arg, nil
	}
}

// coerceInteger accepts decimal or 0x text, Go integers and *big.Int and
// returns *big.Int for sizes above 64 bits or the sized Go integer below.
func coerceInteger(t abi.Type, arg any) (any, error) {
	var n *big.Int
	switch v := arg.(type) {
	case string:
		parsed, ok := new(big.Int).SetString(strings.TrimSpace(v), 0)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", v)
		}
		n = parsed
	case *big.Int:
		n = v
	case int:
		n = big.NewInt(int64(v))
	case int8:
		n = big.NewInt(int64(v))
	case int16:
		n = big.NewInt(int64(v))
	case int32:
		n = big.NewInt(int64(v))
	case int64:
		n = big.NewInt(v)
	case uint:
		n = new(big.Int).SetUint64(uint64(v))
	case uint8:
		n = new(big.Int).SetUint64(uint64(v))
	case uint16:
		n = new(big.Int).SetUint64(uint64(v))
	case uint32:
		n = new(big.Int).SetUint64(uint64(v))
	case uint64:
		n = new(big.Int).SetUint64(v)
	default:
		return arg, nil
	}

	if t.T == abi.UintTy && n.Sign() < 0 {
		return nil, fmt.Errorf("negative value %s for unsigned type", n)
	}
	if !fits(t, n) {
		return nil, fmt.Errorf("value %s overflows %s", n, t.String())
	}

	goType := t.GetType()
	if goType == reflect.TypeOf(&big.Int{}) {
		return n, nil
	}
	if t.T == abi.UintTy {
		return reflect.ValueOf(n.Uint64()).Convert(goType).Interface(), nil
	}
	return reflect.ValueOf(n.Int64()).Convert(goType).Interface(), nil
}

func fits(t abi.Type, n *big.Int) bool {
	if t.T == abi.UintTy {
		return n.BitLen() <= t.Size
	}
	limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
	if n.Sign() >= 0 {
		return n.Cmp(limit) < 0
	}
	return new(big.Int).Neg(n).Cmp(limit) <= 0
}

// Ensure the adapter implements the interface
var _ usecase.ArgumentEncoder = (*Encoder)(nil)
