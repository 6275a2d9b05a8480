package abi

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustType(t *testing.T, name string) abi.Type {
	t.Helper()
	typ, err := abi.NewType(name, "", nil)
	require.NoError(t, err)
	return typ
}

func tokenInputs(t *testing.T) abi.Arguments {
	return abi.Arguments{
		{Name: "name_", Type: mustType(t, "string")},
		{Name: "symbol_", Type: mustType(t, "string")},
		{Name: "initialSupply", Type: mustType(t, "uint256")},
	}
}

func TestEncoderEncode(t *testing.T) {
	encoder := NewEncoder()

	t.Run("text arguments from the command line", func(t *testing.T) {
		out, err := encoder.Encode(tokenInputs(t), []any{"MyToken", "MTK", "1000000"})
		require.NoError(t, err)
		require.Len(t, out, 3)
		assert.Equal(t, "MyToken", out[0])
		assert.Equal(t, "MTK", out[1])
		assert.Equal(t, 0, big.NewInt(1_000_000).Cmp(out[2].(*big.Int)))

		packed, err := tokenInputs(t).Pack(out...)
		require.NoError(t, err)
		assert.NotEmpty(t, packed)
	})

	t.Run("typed defaults pass through", func(t *testing.T) {
		supply := big.NewInt(1_000_000)
		out, err := encoder.Encode(tokenInputs(t), []any{"MyToken", "MTK", supply})
		require.NoError(t, err)
		assert.Same(t, supply, out[2])
	})

	t.Run("hex integer", func(t *testing.T) {
		out, err := encoder.Encode(tokenInputs(t), []any{"a", "b", "0xff"})
		require.NoError(t, err)
		assert.Equal(t, int64(255), out[2].(*big.Int).Int64())
	})

	t.Run("extra arguments are left for the packer", func(t *testing.T) {
		out, err := encoder.Encode(tokenInputs(t), []any{"a", "b", "1", "extra"})
		require.NoError(t, err)
		assert.Len(t, out, 4)
		assert.Equal(t, "extra", out[3])

		_, err = tokenInputs(t).Pack(out...)
		assert.Error(t, err)
	})

	t.Run("invalid integer names the argument", func(t *testing.T) {
		_, err := encoder.Encode(tokenInputs(t), []any{"a", "b", "lots"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "initialSupply")
		assert.Contains(t, err.Error(), "uint256")
	})

	t.Run("negative unsigned", func(t *testing.T) {
		_, err := encoder.Encode(tokenInputs(t), []any{"a", "b", "-1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "negative")
	})
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name    string
		typ     string
		arg     any
		want    any
		wantErr string
	}{
		{name: "address", typ: "address", arg: "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", want: common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")},
		{name: "bad address", typ: "address", arg: "0x1234", wantErr: "invalid address"},
		{name: "bool", typ: "bool", arg: "true", want: true},
		{name: "bad bool", typ: "bool", arg: "maybe", wantErr: "invalid bool"},
		{name: "bytes", typ: "bytes", arg: "0x0102", want: []byte{1, 2}},
		{name: "bytes4", typ: "bytes4", arg: "0x01020304", want: [4]byte{1, 2, 3, 4}},
		{name: "bytes2 too long", typ: "bytes2", arg: "0x010203", wantErr: "longer than 2 bytes"},
		{name: "uint8", typ: "uint8", arg: "255", want: uint8(255)},
		{name: "uint8 overflow", typ: "uint8", arg: "256", wantErr: "overflows uint8"},
		{name: "int8 lower bound", typ: "int8", arg: "-128", want: int8(-128)},
		{name: "int8 overflow", typ: "int8", arg: "128", wantErr: "overflows int8"},
		{name: "uint64 from int", typ: "uint64", arg: 42, want: uint64(42)},
		{name: "int256 from int64", typ: "int256", arg: int64(-5), want: big.NewInt(-5)},
		{name: "string", typ: "string", arg: "hello", want: "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coerce(mustType(t, tt.typ), tt.arg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
