package zkproof

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/stellar/go/strkey"
	"github.com/zkidlabs/stellar-zkid/types"
)

func testIdentity() *types.IdentityData {
	return &types.IdentityData{
		Name:       "Jane Example",
		DOB:        types.DateOfBirth{Year: 1990, Month: 7, Day: 14},
		Gender:     types.GenderFemale,
		DocType:    types.DocTypePassport,
		DocID:      "P1234567",
		SecretSalt: "424242",
	}
}

// encodes 32 known bytes as a G... address so the expected halves are known
// exactly.
func testAddress(c *qt.C) (string, *big.Int, *big.Int) {
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = byte(i + 1)
	}
	addr, err := strkey.Encode(strkey.VersionByteAccountID, raw)
	c.Assert(err, qt.IsNil)
	return addr, new(big.Int).SetBytes(raw[:16]), new(big.Int).SetBytes(raw[16:])
}

func TestSplitAddress(t *testing.T) {
	c := qt.New(t)

	addr, wantHigh, wantLow := testAddress(c)
	high, low, err := SplitAddress(addr)
	c.Assert(err, qt.IsNil)
	c.Assert(high.Cmp(wantHigh), qt.Equals, 0)
	c.Assert(low.Cmp(wantLow), qt.Equals, 0)

	_, _, err = SplitAddress("not an address")
	c.Assert(err, qt.IsNotNil)

	// a contract address is not an account address
	_, _, err = SplitAddress("CA663VKXGRMCBQAKN26VNJPX5ZW7K73WDCVJQQLQCFXA7UKB2JXTNGH2")
	c.Assert(err, qt.IsNotNil)
}

func TestDeriveInputs(t *testing.T) {
	c := qt.New(t)
	addr, wantHigh, wantLow := testAddress(c)

	inputs, err := DeriveInputs(testIdentity(), addr)
	c.Assert(err, qt.IsNil)
	c.Assert(inputs.DobYear, qt.Equals, 1990)
	c.Assert(inputs.Gender, qt.Equals, types.GenderFemale)
	c.Assert(inputs.DocumentType, qt.Equals, types.DocTypePassport)
	c.Assert(inputs.SecretSalt, qt.Equals, "424242")
	c.Assert(inputs.WalletAddrHigh, qt.Equals, wantHigh.String())
	c.Assert(inputs.WalletAddrLow, qt.Equals, wantLow.String())

	// hashes are decimal field elements, never raw strings
	_, ok := new(big.Int).SetString(inputs.NameHash, 10)
	c.Assert(ok, qt.IsTrue)
	_, ok = new(big.Int).SetString(inputs.DocumentIDHash, 10)
	c.Assert(ok, qt.IsTrue)

	// derivation is deterministic
	again, err := DeriveInputs(testIdentity(), addr)
	c.Assert(err, qt.IsNil)
	c.Assert(again, qt.DeepEquals, inputs)

	// invalid payloads never reach hashing
	bad := testIdentity()
	bad.SecretSalt = ""
	_, err = DeriveInputs(bad, addr)
	c.Assert(err, qt.IsNotNil)
}

func TestDeriveInputsDefaults(t *testing.T) {
	c := qt.New(t)
	addr, _, _ := testAddress(c)

	inputs, err := DeriveInputs(testIdentity(), addr)
	c.Assert(err, qt.IsNil)
	c.Assert(inputs.CurrentYear, qt.Equals, fallbackCurrentYear)
	c.Assert(inputs.CurrentMonth, qt.Equals, fallbackCurrentMonth)
	c.Assert(inputs.CurrentDay, qt.Equals, fallbackCurrentDay)
	c.Assert(inputs.MinAgeRequirement, qt.Equals, defaultMinAge)

	data := testIdentity()
	data.CurrentYear, data.CurrentMonth, data.CurrentDay = 2026, 8, 31
	data.MinAge = 21
	inputs, err = DeriveInputs(data, addr)
	c.Assert(err, qt.IsNil)
	c.Assert(inputs.CurrentYear, qt.Equals, 2026)
	c.Assert(inputs.CurrentMonth, qt.Equals, 8)
	c.Assert(inputs.CurrentDay, qt.Equals, 31)
	c.Assert(inputs.MinAgeRequirement, qt.Equals, 21)

	// a partial date falls back per field, not all or nothing
	data = testIdentity()
	data.CurrentYear = 2026
	inputs, err = DeriveInputs(data, addr)
	c.Assert(err, qt.IsNil)
	c.Assert(inputs.CurrentYear, qt.Equals, 2026)
	c.Assert(inputs.CurrentMonth, qt.Equals, fallbackCurrentMonth)
	c.Assert(inputs.CurrentDay, qt.Equals, fallbackCurrentDay)
}

func TestSignalHex(t *testing.T) {
	c := qt.New(t)

	signals := []string{"255", "1", "18446744073709551616"}
	hex, err := SignalHex(signals, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(hex, qt.HasLen, 64)
	c.Assert(hex, qt.Equals, "00000000000000000000000000000000000000000000000000000000000000ff")

	hex, err = SignalHex(signals, 2)
	c.Assert(err, qt.IsNil)
	c.Assert(hex, qt.Equals, "0000000000000000000000000000000000000000000000010000000000000000")

	_, err = SignalHex(signals, 3)
	c.Assert(err, qt.IsNotNil)

	_, err = SignalHex([]string{"not decimal"}, 0)
	c.Assert(err, qt.IsNotNil)
}
