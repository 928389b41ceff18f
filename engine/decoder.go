package engine

import (
	"fmt"
	"time"

	"github.com/stellar/go/xdr"
	"github.com/zkidlabs/stellar-zkid/soroban"
	"github.com/zkidlabs/stellar-zkid/types"
)

// decodeIdentityRecord walks an on-chain identity record map. Missing
// keys leave the corresponding field at its zero value rather than
// failing the whole decode; only a non-map value is an error.
func decodeIdentityRecord(val xdr.ScVal) (*types.IdentityDocument, error) {
	if val.Type != xdr.ScValTypeScvMap {
		return nil, fmt.Errorf("identity record is %v, expected a map", val.Type)
	}
	doc := &types.IdentityDocument{}
	if v, ok := soroban.MapEntry(val, "commitment_hash"); ok {
		if b, ok := soroban.BytesFromScVal(v); ok {
			doc.CommitmentHash = types.HexBytes(b)
		}
	}
	if v, ok := soroban.MapEntry(val, "timestamp"); ok {
		if ts, ok := soroban.U64FromScVal(v); ok {
			doc.Timestamp = time.Unix(int64(ts), 0).UTC()
		}
	}
	if v, ok := soroban.MapEntry(val, "attributes_verified"); ok {
		doc.Attributes = decodeAttributes(v)
	}
	return doc, nil
}

// decodeAttributes reads the attributes_verified submap. The document
// type name is resolved locally from the numeric code.
func decodeAttributes(val xdr.ScVal) *types.VerifiedAttributes {
	if val.Type != xdr.ScValTypeScvMap {
		return nil
	}
	attrs := &types.VerifiedAttributes{}
	if v, ok := soroban.MapEntry(val, "age_over_18"); ok {
		attrs.AgeOver18, _ = soroban.BoolFromScVal(v)
	}
	if v, ok := soroban.MapEntry(val, "age_over_21"); ok {
		attrs.AgeOver21, _ = soroban.BoolFromScVal(v)
	}
	if v, ok := soroban.MapEntry(val, "document_type"); ok {
		if code, ok := soroban.U32FromScVal(v); ok {
			attrs.DocumentTypeCode = int(code)
			attrs.DocumentType = types.DocumentTypeName(int(code))
		}
	}
	if v, ok := soroban.MapEntry(val, "gender_verified"); ok {
		attrs.GenderVerified, _ = soroban.BoolFromScVal(v)
	}
	if v, ok := soroban.MapEntry(val, "verification_date"); ok {
		if ts, ok := soroban.U64FromScVal(v); ok {
			attrs.VerificationDate = time.Unix(int64(ts), 0).UTC()
		}
	}
	return attrs
}
