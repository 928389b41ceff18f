package engine

import (
	"context"
	"fmt"

	"github.com/stellar/go/xdr"
	"github.com/zkidlabs/stellar-zkid/soroban"
)

// Eligibility is the result of the registration payment gate for one
// user account. The first document is free; every further document
// consumes one prepaid credit.
type Eligibility struct {
	// DocCount is the number of documents already registered.
	DocCount uint32 `json:"docCount"`
	// PrepaidCredits is the number of unspent registration credits.
	PrepaidCredits uint32 `json:"prepaidCredits"`
}

// Allowed reports whether the user may register another document right
// now without paying first.
func (e Eligibility) Allowed() bool {
	return e.DocCount == 0 || e.PrepaidCredits > 0
}

// CheckEligibility reads the user's document count and prepaid credit
// balance from the contract. Both reads hit the ledger on every call so
// a prepayment confirmed by another party is visible immediately.
func (e *Engine) CheckEligibility(ctx context.Context, userAddress string) (Eligibility, error) {
	userVal, err := soroban.AccountScVal(userAddress)
	if err != nil {
		return Eligibility{}, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}
	docCount, err := e.readU32(ctx, "get_user_doc_count", userVal)
	if err != nil {
		return Eligibility{}, err
	}
	credits, err := e.readU32(ctx, "get_prepaid_credits", userVal)
	if err != nil {
		return Eligibility{}, err
	}
	return Eligibility{DocCount: docCount, PrepaidCredits: credits}, nil
}

// readU32 simulates a read-only contract call expected to return a u32.
// A void return decodes as zero, matching the contract's behavior for
// accounts it has never seen.
func (e *Engine) readU32(ctx context.Context, fn string, args ...xdr.ScVal) (uint32, error) {
	val, _, err := e.simulateRead(ctx, fn, args)
	if err != nil {
		return 0, err
	}
	if val.Type == xdr.ScValTypeScvVoid {
		return 0, nil
	}
	n, ok := soroban.U32FromScVal(val)
	if !ok {
		return 0, fmt.Errorf("%s returned unexpected value type %v", fn, val.Type)
	}
	return n, nil
}
