package soroban

import (
	"fmt"

	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"
)

// AccountScVal builds an address ScVal from an ed25519 account address.
func AccountScVal(accountID string) (xdr.ScVal, error) {
	aid, err := xdr.AddressToAccountId(accountID)
	if err != nil {
		return xdr.ScVal{}, fmt.Errorf("invalid account address %q: %w", accountID, err)
	}
	return xdr.ScVal{
		Type: xdr.ScValTypeScvAddress,
		Address: &xdr.ScAddress{
			Type:      xdr.ScAddressTypeScAddressTypeAccount,
			AccountId: &aid,
		},
	}, nil
}

// ContractScVal builds an address ScVal from a C... contract address.
func ContractScVal(contractID string) (xdr.ScVal, error) {
	addr, err := ContractScAddress(contractID)
	if err != nil {
		return xdr.ScVal{}, err
	}
	return xdr.ScVal{
		Type:    xdr.ScValTypeScvAddress,
		Address: &addr,
	}, nil
}

// ContractScAddress builds an ScAddress from a C... contract address.
func ContractScAddress(contractID string) (xdr.ScAddress, error) {
	hash, err := ContractIDHash(contractID)
	if err != nil {
		return xdr.ScAddress{}, err
	}
	return xdr.ScAddress{
		Type:       xdr.ScAddressTypeScAddressTypeContract,
		ContractId: &hash,
	}, nil
}

// ContractIDHash decodes a C... strkey contract address into its 32-byte id.
func ContractIDHash(contractID string) (xdr.Hash, error) {
	var hash xdr.Hash
	raw, err := strkey.Decode(strkey.VersionByteContract, contractID)
	if err != nil {
		return hash, fmt.Errorf("invalid contract address %q: %w", contractID, err)
	}
	copy(hash[:], raw)
	return hash, nil
}

// BytesScVal builds a bytes ScVal.
func BytesScVal(b []byte) xdr.ScVal {
	bytes := xdr.ScBytes(b)
	return xdr.ScVal{Type: xdr.ScValTypeScvBytes, Bytes: &bytes}
}

// U32ScVal builds an u32 ScVal.
func U32ScVal(v uint32) xdr.ScVal {
	u := xdr.Uint32(v)
	return xdr.ScVal{Type: xdr.ScValTypeScvU32, U32: &u}
}

// BoolScVal builds a bool ScVal.
func BoolScVal(v bool) xdr.ScVal {
	return xdr.ScVal{Type: xdr.ScValTypeScvBool, B: &v}
}

// SymbolScVal builds a symbol ScVal.
func SymbolScVal(s string) xdr.ScVal {
	sym := xdr.ScSymbol(s)
	return xdr.ScVal{Type: xdr.ScValTypeScvSymbol, Sym: &sym}
}

// MapEntry looks up a key by name among the unordered entries of a map
// ScVal. Contract struct values arrive as symbol-keyed maps; a missing key
// is absent, not an error, and positional layout is never assumed.
func MapEntry(v xdr.ScVal, key string) (xdr.ScVal, bool) {
	if v.Type != xdr.ScValTypeScvMap || v.Map == nil || *v.Map == nil {
		return xdr.ScVal{}, false
	}
	for _, entry := range **v.Map {
		sym, ok := entry.Key.GetSym()
		if ok && string(sym) == key {
			return entry.Val, true
		}
	}
	return xdr.ScVal{}, false
}

// U32FromScVal extracts an u32 value.
func U32FromScVal(v xdr.ScVal) (uint32, bool) {
	u, ok := v.GetU32()
	return uint32(u), ok
}

// U64FromScVal extracts an u64 value.
func U64FromScVal(v xdr.ScVal) (uint64, bool) {
	u, ok := v.GetU64()
	return uint64(u), ok
}

// BoolFromScVal extracts a bool value.
func BoolFromScVal(v xdr.ScVal) (bool, bool) {
	return v.GetB()
}

// BytesFromScVal extracts a bytes value.
func BytesFromScVal(v xdr.ScVal) ([]byte, bool) {
	b, ok := v.GetBytes()
	if !ok {
		return nil, false
	}
	return []byte(b), true
}
