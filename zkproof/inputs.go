// Package zkproof implements the derivation of the identity verifier circuit
// inputs and the proof generation pipeline on top of rapidsnark.
package zkproof

import (
	"fmt"
	"math/big"

	"github.com/iden3/go-iden3-crypto/poseidon"
	"github.com/stellar/go/strkey"
	"github.com/zkidlabs/stellar-zkid/types"
	"github.com/zkidlabs/stellar-zkid/util"
)

// Fallback values applied when the caller does not provide the current date
// or the minimum age. Production callers must always supply real current-date
// values, otherwise age comparisons silently use these stale constants.
const (
	fallbackCurrentYear  = 2024
	fallbackCurrentMonth = 5
	fallbackCurrentDay   = 20
	defaultMinAge        = 18
)

// CircuitInputs are the canonical numeric inputs of the identity verifier
// circuit. Field names match the circom signal names exactly. The hash and
// address fields are decimal strings since they do not fit a JSON number.
type CircuitInputs struct {
	NameHash          string `json:"name_hash"`
	DobYear           int    `json:"dob_year"`
	DobMonth          int    `json:"dob_month"`
	DobDay            int    `json:"dob_day"`
	Gender            int    `json:"gender"`
	DocumentType      int    `json:"document_type"`
	DocumentIDHash    string `json:"document_id_hash"`
	SecretSalt        string `json:"secret_salt"`
	CurrentYear       int    `json:"current_year"`
	CurrentMonth      int    `json:"current_month"`
	CurrentDay        int    `json:"current_day"`
	MinAgeRequirement int    `json:"min_age_requirement"`
	GenderFilter      int    `json:"gender_filter"`
	WalletAddrLow     string `json:"wallet_addr_low"`
	WalletAddrHigh    string `json:"wallet_addr_high"`
}

// DeriveInputs maps the raw identity payload and the user's Stellar address
// into circuit-ready inputs. It is a pure function: identical inputs always
// produce identical outputs.
func DeriveInputs(data *types.IdentityData, userAddress string) (*CircuitInputs, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	addrHigh, addrLow, err := SplitAddress(userAddress)
	if err != nil {
		return nil, err
	}
	nameHash, err := hashToField([]byte(data.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to hash name: %w", err)
	}
	docIDHash, err := hashToField([]byte(data.DocID))
	if err != nil {
		return nil, fmt.Errorf("failed to hash docId: %w", err)
	}
	inputs := &CircuitInputs{
		NameHash:          nameHash.String(),
		DobYear:           data.DOB.Year,
		DobMonth:          data.DOB.Month,
		DobDay:            data.DOB.Day,
		Gender:            data.Gender,
		DocumentType:      data.DocType,
		DocumentIDHash:    docIDHash.String(),
		SecretSalt:        data.SecretSalt,
		CurrentYear:       data.CurrentYear,
		CurrentMonth:      data.CurrentMonth,
		CurrentDay:        data.CurrentDay,
		MinAgeRequirement: data.MinAge,
		GenderFilter:      data.GenderFilter,
		WalletAddrLow:     addrLow.String(),
		WalletAddrHigh:    addrHigh.String(),
	}
	// Each date field falls back independently, so a payload carrying
	// only the year still gets a usable month and day.
	if inputs.CurrentYear == 0 {
		inputs.CurrentYear = fallbackCurrentYear
	}
	if inputs.CurrentMonth == 0 {
		inputs.CurrentMonth = fallbackCurrentMonth
	}
	if inputs.CurrentDay == 0 {
		inputs.CurrentDay = fallbackCurrentDay
	}
	if inputs.MinAgeRequirement == 0 {
		inputs.MinAgeRequirement = defaultMinAge
	}
	return inputs, nil
}

// SplitAddress decodes an ed25519 Stellar account address and splits its 32
// raw bytes into two 128-bit big-endian halves, most-significant first.
func SplitAddress(address string) (high, low *big.Int, err error) {
	raw, err := strkey.Decode(strkey.VersionByteAccountID, address)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid user address: %w", err)
	}
	high = new(big.Int).SetBytes(raw[:16])
	low = new(big.Int).SetBytes(raw[16:])
	return high, low, nil
}

// hashToField hashes an arbitrary byte string into a field element with the
// same Poseidon parameterization the circuit was compiled against: the bytes
// interpreted as a big-endian integer, reduced into the BN254 scalar field,
// hashed as a single-element input.
func hashToField(b []byte) (*big.Int, error) {
	return poseidon.Hash([]*big.Int{util.BigToFF(new(big.Int).SetBytes(b))})
}
