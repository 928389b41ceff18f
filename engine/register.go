package engine

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"
	"github.com/zkidlabs/stellar-zkid/log"
	"github.com/zkidlabs/stellar-zkid/soroban"
	"github.com/zkidlabs/stellar-zkid/types"
	"github.com/zkidlabs/stellar-zkid/zkproof"
)

// RegistrationResult reports a completed registration: the proof
// artifacts and the confirmed transaction.
type RegistrationResult struct {
	TxnHash         string                   `json:"txnHash"`
	Ledger          uint32                   `json:"ledger,omitempty"`
	Commitment      string                   `json:"commitment"`
	Nullifier       string                   `json:"nullifier"`
	PublicSignals   []string                 `json:"publicSignals"`
	DocCount        uint32                   `json:"docCount"`
	PaymentRequired bool                     `json:"paymentRequired"`
	Attributes      types.VerifiedAttributes `json:"verifiedAttributes"`
}

// Register runs the full registration pipeline for one identity
// document: payment gate, proof generation and verification, and the
// on-chain register_verified_identity invocation. The identity payload
// never leaves the process; only the commitment and nullifier go on
// chain.
func (e *Engine) Register(ctx context.Context, userAddress string, data *types.IdentityData) (*RegistrationResult, error) {
	if !strkey.IsValidEd25519PublicKey(userAddress) {
		return nil, fmt.Errorf("%w: invalid user address %q", ErrInvalidRequest, userAddress)
	}
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	// The gate runs before the proof so an ineligible request costs no
	// prover time.
	elig, err := e.CheckEligibility(ctx, userAddress)
	if err != nil {
		return nil, err
	}
	if !elig.Allowed() {
		return nil, &PaymentRequiredError{DocCount: elig.DocCount}
	}

	if e.prover == nil {
		return nil, fmt.Errorf("prover not configured")
	}
	bundle, err := e.prover.Generate(ctx, data, userAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProofGeneration, err)
	}
	if !bundle.Verified {
		return nil, ErrProofInvalid
	}
	commitment, err := bundle.CommitmentHex()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProofGeneration, err)
	}
	nullifier, err := bundle.NullifierHex()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProofGeneration, err)
	}

	args, err := e.registerArgs(userAddress, commitment, nullifier, data)
	if err != nil {
		return nil, err
	}
	log.Infow("registering verified identity",
		"user", userAddress, "docType", types.DocumentTypeName(data.DocType),
		"docCount", elig.DocCount, "credits", elig.PrepaidCredits)
	out, err := e.submitContractCall(ctx, contractCall{
		policy: SignOperator,
		fn:     "register_verified_identity",
		args:   args,
	})
	if err != nil {
		return nil, err
	}
	log.Infow("identity registered", "user", userAddress, "tx", out.hash, "ledger", out.status.Ledger)
	return &RegistrationResult{
		TxnHash:         out.hash,
		Ledger:          out.status.Ledger,
		Commitment:      commitment,
		Nullifier:       nullifier,
		PublicSignals:   bundle.PublicSignals,
		DocCount:        elig.DocCount + 1,
		PaymentRequired: elig.DocCount > 0,
		Attributes:      types.AttributesFromRequest(data.MinAge, data.DocType, data.GenderFilter),
	}, nil
}

// registerArgs builds the register_verified_identity argument vector:
// admin, user, commitment, nullifier, token, min_age, document_type,
// gender_verified.
func (e *Engine) registerArgs(userAddress, commitment, nullifier string, data *types.IdentityData) ([]xdr.ScVal, error) {
	adminVal, err := soroban.AccountScVal(e.operator.Address())
	if err != nil {
		return nil, fmt.Errorf("operator address: %w", err)
	}
	userVal, err := soroban.AccountScVal(userAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}
	commitmentBytes, err := hex.DecodeString(commitment)
	if err != nil {
		return nil, fmt.Errorf("decode commitment: %w", err)
	}
	nullifierBytes, err := hex.DecodeString(nullifier)
	if err != nil {
		return nil, fmt.Errorf("decode nullifier: %w", err)
	}
	minAge := data.MinAge
	if minAge == 0 {
		minAge = 18
	}
	return []xdr.ScVal{
		adminVal,
		userVal,
		soroban.BytesScVal(commitmentBytes),
		soroban.BytesScVal(nullifierBytes),
		{Type: xdr.ScValTypeScvAddress, Address: &e.tokenAddr},
		soroban.U32ScVal(uint32(minAge)),
		soroban.U32ScVal(uint32(data.DocType)),
		soroban.BoolScVal(data.GenderFilter != types.GenderUnspecified),
	}, nil
}

// GenerateProof runs input derivation, witness calculation, proving and
// verification without touching the ledger. It backs the dry-run
// endpoint.
func (e *Engine) GenerateProof(ctx context.Context, userAddress string, data *types.IdentityData) (*zkproof.ProofBundle, error) {
	if e.prover == nil {
		return nil, fmt.Errorf("prover not configured")
	}
	if !strkey.IsValidEd25519PublicKey(userAddress) {
		return nil, fmt.Errorf("%w: invalid user address %q", ErrInvalidRequest, userAddress)
	}
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}
	bundle, err := e.prover.Generate(ctx, data, userAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProofGeneration, err)
	}
	return bundle, nil
}
