package engine

import (
	"context"
	"fmt"

	"github.com/stellar/go/strkey"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
	"github.com/zkidlabs/stellar-zkid/log"
	"github.com/zkidlabs/stellar-zkid/soroban"
)

// PrepaymentEnvelope is the outcome of the first prepayment phase: a
// fully prepared but unsigned transaction envelope that the user must
// sign with their own key and hand back verbatim.
type PrepaymentEnvelope struct {
	// XDR is the base64 unsigned transaction envelope.
	XDR string `json:"xdr"`
	// NetworkPassphrase is the passphrase the envelope must be signed
	// for.
	NetworkPassphrase string `json:"networkPassphrase"`
	// Fee is the total fee in stroops the envelope carries.
	Fee int64 `json:"fee"`
}

// BuildPrepayment builds, simulates and prepares a prepay_credit
// invocation sourced from the user's own account, so the user both
// authorizes the token transfer and pays the transaction fee. The
// operator key never touches the envelope.
func (e *Engine) BuildPrepayment(ctx context.Context, userAddress string) (*PrepaymentEnvelope, error) {
	if !strkey.IsValidEd25519PublicKey(userAddress) {
		return nil, fmt.Errorf("%w: invalid user address %q", ErrInvalidRequest, userAddress)
	}
	userVal, err := soroban.AccountScVal(userAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}
	out, err := e.submitContractCall(ctx, contractCall{
		policy: SignExternal,
		source: userAddress,
		fn:     "prepay_credit",
		args: []xdr.ScVal{
			userVal,
			{Type: xdr.ScValTypeScvAddress, Address: &e.tokenAddr},
		},
	})
	if err != nil {
		return nil, err
	}
	tx := out.unsigned
	envelope, err := tx.Base64()
	if err != nil {
		return nil, fmt.Errorf("encode prepayment transaction: %w", err)
	}
	log.Debugw("built prepayment envelope", "user", userAddress, "fee", tx.BaseFee())
	return &PrepaymentEnvelope{
		XDR:               envelope,
		NetworkPassphrase: e.passphrase,
		Fee:               tx.BaseFee(),
	}, nil
}

// PrepaymentResult reports a confirmed prepayment.
type PrepaymentResult struct {
	TxnHash        string `json:"txnHash"`
	Ledger         uint32 `json:"ledger,omitempty"`
	PrepaidCredits uint32 `json:"prepaidCredits"`
}

// SubmitPrepayment submits a signed prepayment envelope exactly as
// received and waits for confirmation. Re-simulating or rebuilding here
// would invalidate the user's signature, so the envelope is only parsed
// to check it is well formed.
func (e *Engine) SubmitPrepayment(ctx context.Context, signedXDR string) (*PrepaymentResult, error) {
	generic, err := txnbuild.TransactionFromXDR(signedXDR)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed transaction envelope: %s", ErrInvalidRequest, err)
	}
	tx, ok := generic.Transaction()
	if !ok {
		return nil, fmt.Errorf("%w: unsupported transaction envelope", ErrInvalidRequest)
	}
	userAddress := tx.SourceAccount().AccountID
	sent, err := e.client.SendTransaction(ctx, signedXDR)
	if err != nil {
		return nil, fmt.Errorf("send prepayment transaction: %w", err)
	}
	if sent.Status == soroban.TxStatusError {
		return nil, fmt.Errorf("%w: prepay_credit: %s", ErrTransactionRejected, sent.ErrorResultXDR)
	}
	status, err := e.awaitTransaction(ctx, sent.Hash)
	if err != nil {
		return nil, err
	}
	result := &PrepaymentResult{TxnHash: sent.Hash, Ledger: status.Ledger}
	// Fresh balance read, best effort. The prepayment itself already
	// succeeded.
	if elig, err := e.CheckEligibility(ctx, userAddress); err == nil {
		result.PrepaidCredits = elig.PrepaidCredits
	} else {
		log.Warnw("failed to read credit balance after prepayment", "user", userAddress, "error", err)
	}
	log.Infow("prepayment confirmed", "user", userAddress, "tx", sent.Hash, "ledger", status.Ledger)
	return result, nil
}
