package engine

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/stellar/go/xdr"
	"github.com/zkidlabs/stellar-zkid/soroban"
	"github.com/zkidlabs/stellar-zkid/types"
)

func scMap(pairs ...any) xdr.ScVal {
	entries := make(xdr.ScMap, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		entries = append(entries, xdr.ScMapEntry{
			Key: soroban.SymbolScVal(pairs[i].(string)),
			Val: pairs[i+1].(xdr.ScVal),
		})
	}
	m := &entries
	return xdr.ScVal{Type: xdr.ScValTypeScvMap, Map: &m}
}

func u64ScVal(v uint64) xdr.ScVal {
	u := xdr.Uint64(v)
	return xdr.ScVal{Type: xdr.ScValTypeScvU64, U64: &u}
}

func TestDecodeIdentityRecord(t *testing.T) {
	c := qt.New(t)

	commitment := []byte{0xaa, 0xbb, 0xcc}
	registeredAt := int64(1714608000)
	record := scMap(
		"commitment_hash", soroban.BytesScVal(commitment),
		"timestamp", u64ScVal(uint64(registeredAt)),
		"attributes_verified", scMap(
			"age_over_18", soroban.BoolScVal(true),
			"age_over_21", soroban.BoolScVal(false),
			"document_type", soroban.U32ScVal(types.DocTypeAadhaarCard),
			"gender_verified", soroban.BoolScVal(true),
			"verification_date", u64ScVal(uint64(registeredAt)),
		),
	)

	doc, err := decodeIdentityRecord(record)
	c.Assert(err, qt.IsNil)
	c.Assert(doc.CommitmentHash, qt.DeepEquals, types.HexBytes(commitment))
	c.Assert(doc.Timestamp, qt.Equals, time.Unix(registeredAt, 0).UTC())
	c.Assert(doc.Attributes, qt.IsNotNil)
	c.Assert(doc.Attributes.AgeOver18, qt.IsTrue)
	c.Assert(doc.Attributes.AgeOver21, qt.IsFalse)
	c.Assert(doc.Attributes.GenderVerified, qt.IsTrue)
	c.Assert(doc.Attributes.DocumentTypeCode, qt.Equals, types.DocTypeAadhaarCard)
	c.Assert(doc.Attributes.DocumentType, qt.Equals, "Aadhaar Card")
	c.Assert(doc.Attributes.VerificationDate, qt.Equals, time.Unix(registeredAt, 0).UTC())
}

func TestDecodeIdentityRecordPartial(t *testing.T) {
	c := qt.New(t)

	// missing keys leave zero values instead of failing the decode
	doc, err := decodeIdentityRecord(scMap("timestamp", u64ScVal(42)))
	c.Assert(err, qt.IsNil)
	c.Assert(doc.CommitmentHash, qt.HasLen, 0)
	c.Assert(doc.Attributes, qt.IsNil)
	c.Assert(doc.Timestamp.Unix(), qt.Equals, int64(42))

	// an attributes entry of the wrong shape decodes to nil attributes
	doc, err = decodeIdentityRecord(scMap("attributes_verified", soroban.U32ScVal(1)))
	c.Assert(err, qt.IsNil)
	c.Assert(doc.Attributes, qt.IsNil)

	// unknown document codes resolve to the Unknown label
	doc, err = decodeIdentityRecord(scMap(
		"attributes_verified", scMap("document_type", soroban.U32ScVal(77)),
	))
	c.Assert(err, qt.IsNil)
	c.Assert(doc.Attributes.DocumentType, qt.Equals, "Unknown")

	// only a non-map record is an error
	_, err = decodeIdentityRecord(soroban.U32ScVal(1))
	c.Assert(err, qt.IsNotNil)
}
