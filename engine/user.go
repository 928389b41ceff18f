package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"
	"github.com/zkidlabs/stellar-zkid/log"
	"github.com/zkidlabs/stellar-zkid/soroban"
	"github.com/zkidlabs/stellar-zkid/types"
)

// User assembles the full on-chain view of a registered user: the
// primary identity record, the credit balance and every registered
// document. Nothing is cached; every call reads the ledger.
func (e *Engine) User(ctx context.Context, userAddress string) (*types.UserAccount, error) {
	if !strkey.IsValidEd25519PublicKey(userAddress) {
		return nil, fmt.Errorf("%w: invalid user address %q", ErrInvalidRequest, userAddress)
	}
	userVal, err := soroban.AccountScVal(userAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}
	elig, err := e.CheckEligibility(ctx, userAddress)
	if err != nil {
		return nil, err
	}
	account := &types.UserAccount{
		Address:        userAddress,
		DocCount:       int(elig.DocCount),
		PrepaidCredits: int(elig.PrepaidCredits),
		Documents:      []types.IdentityDocument{},
	}

	// A failed or void check_verification read means the contract has
	// no record for this address.
	recordVal, _, err := e.simulateRead(ctx, "check_verification", []xdr.ScVal{userVal})
	if err != nil || recordVal.Type == xdr.ScValTypeScvVoid {
		if err != nil && !errors.Is(err, ErrSimulationFailed) {
			return nil, err
		}
		if elig.DocCount == 0 {
			return nil, fmt.Errorf("%w: %s", ErrUserNotVerified, userAddress)
		}
	} else {
		record, err := decodeIdentityRecord(recordVal)
		if err != nil {
			return nil, fmt.Errorf("decode identity record for %s: %w", userAddress, err)
		}
		account.Verified = true
		account.CommitmentHash = record.CommitmentHash
		account.Timestamp = record.Timestamp
		account.Attributes = record.Attributes
	}

	// One bad document must not hide the others, so decode failures are
	// logged and skipped.
	for i := uint32(0); i < elig.DocCount; i++ {
		docVal, _, err := e.simulateRead(ctx, "get_user_document", []xdr.ScVal{userVal, soroban.U32ScVal(i)})
		if err != nil {
			log.Warnw("failed to read user document", "user", userAddress, "index", i, "error", err)
			continue
		}
		doc, err := decodeIdentityRecord(docVal)
		if err != nil {
			log.Warnw("failed to decode user document", "user", userAddress, "index", i, "error", err)
			continue
		}
		doc.Index = int(i)
		account.Documents = append(account.Documents, *doc)
	}
	return account, nil
}

// TransactionInfo is the status of one submitted transaction as the
// network reports it.
type TransactionInfo struct {
	Hash             string `json:"hash"`
	Status           string `json:"status"`
	Ledger           uint32 `json:"ledger,omitempty"`
	CreatedAt        string `json:"createdAt,omitempty"`
	ApplicationOrder int32  `json:"applicationOrder,omitempty"`
	EnvelopeXDR      string `json:"envelopeXdr,omitempty"`
	ResultXDR        string `json:"resultXdr,omitempty"`
	LatestLedger     uint32 `json:"latestLedger"`
}

// Transaction looks up one transaction by hash.
func (e *Engine) Transaction(ctx context.Context, hash string) (*TransactionInfo, error) {
	status, err := e.client.GetTransaction(ctx, hash)
	if err != nil {
		return nil, err
	}
	if status.Status == soroban.TxStatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrTransactionNotFound, hash)
	}
	info := &TransactionInfo{
		Hash:             hash,
		Status:           status.Status,
		Ledger:           status.Ledger,
		ApplicationOrder: status.ApplicationOrder,
		EnvelopeXDR:      status.EnvelopeXDR,
		ResultXDR:        status.ResultXDR,
		LatestLedger:     status.LatestLedger,
	}
	if t := status.CreatedAtTime(); !t.IsZero() {
		info.CreatedAt = t.Format(time.RFC3339)
	}
	return info, nil
}
