package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zkidlabs/stellar-zkid/engine"
)

// register handles POST /register. It decodes the identity payload, runs
// the full pipeline and returns the confirmed transaction. A user who
// must prepay first gets a 402 carrying the current document count.
func (a *API) register(w http.ResponseWriter, r *http.Request) {
	req := &RegisterRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	result, err := a.engine.Register(r.Context(), req.UserAddress, req.Identity)
	if err != nil {
		var paymentErr *engine.PaymentRequiredError
		if errors.As(err, &paymentErr) {
			writePaymentRequired(w, paymentErr)
			return
		}
		engineError(err).Write(w)
		return
	}
	httpWriteJSON(w, &RegisterResponse{
		Success:         true,
		TxnHash:         result.TxnHash,
		Ledger:          result.Ledger,
		Commitment:      result.Commitment,
		Nullifier:       result.Nullifier,
		PublicSignals:   result.PublicSignals,
		DocCount:        result.DocCount,
		PaymentRequired: result.PaymentRequired,
		Attributes:      result.Attributes,
	})
}

// generateProof handles POST /generate-proof, the ledger-free dry run of
// the proving pipeline.
func (a *API) generateProof(w http.ResponseWriter, r *http.Request) {
	req := &RegisterRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	bundle, err := a.engine.GenerateProof(r.Context(), req.UserAddress, req.Identity)
	if err != nil {
		engineError(err).Write(w)
		return
	}
	commitment, err := bundle.CommitmentHex()
	if err != nil {
		ErrProofGenerationFailed.WithErr(err).Write(w)
		return
	}
	nullifier, err := bundle.NullifierHex()
	if err != nil {
		ErrProofGenerationFailed.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &ProofResponse{
		Proof:         bundle.Proof,
		PublicSignals: bundle.PublicSignals,
		Commitment:    commitment,
		Nullifier:     nullifier,
		Verified:      bundle.Verified,
	})
}

// writePaymentRequired writes the 402 body including the document count,
// so clients know the prepayment flow applies.
func writePaymentRequired(w http.ResponseWriter, paymentErr *engine.PaymentRequiredError) {
	body, err := json.Marshal(&PaymentRequiredResponse{
		Error:           ErrPaymentRequired.Error(),
		Code:            ErrPaymentRequired.Code,
		RequiresPayment: true,
		DocCount:        paymentErr.DocCount,
	})
	if err != nil {
		ErrMarshalingServerJSONFailed.WithErr(err).Write(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	http.Error(w, string(body), http.StatusPaymentRequired)
}

// engineError maps engine sentinel errors onto the API error catalog.
func engineError(err error) Error {
	switch {
	case errors.Is(err, engine.ErrInvalidRequest):
		return ErrInvalidIdentityPayload.WithErr(err)
	case errors.Is(err, engine.ErrProofGeneration):
		return ErrProofGenerationFailed.WithErr(err)
	case errors.Is(err, engine.ErrProofInvalid):
		return ErrProofVerificationFailed
	case errors.Is(err, engine.ErrSimulationFailed):
		return ErrSimulationFailed.WithErr(err)
	case errors.Is(err, engine.ErrTransactionRejected):
		return ErrTransactionRejected.WithErr(err)
	case errors.Is(err, engine.ErrTransactionFailed):
		return ErrTransactionFailed.WithErr(err)
	case errors.Is(err, engine.ErrTransactionTimeout):
		return ErrTransactionTimeout.WithErr(err)
	case errors.Is(err, engine.ErrTransactionNotFound):
		return ErrTransactionNotFound
	case errors.Is(err, engine.ErrUserNotVerified):
		return ErrUserNotVerified
	default:
		return ErrGenericInternalServerError.WithErr(err)
	}
}
