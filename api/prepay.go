package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zkidlabs/stellar-zkid/engine"
)

// buildPrepay handles POST /register/build-prepay. The response envelope
// is unsigned and sourced from the user's account.
func (a *API) buildPrepay(w http.ResponseWriter, r *http.Request) {
	req := &PrepayRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	envelope, err := a.engine.BuildPrepayment(r.Context(), req.UserAddress)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidRequest) {
			ErrMalformedUserAddress.WithErr(err).Write(w)
			return
		}
		engineError(err).Write(w)
		return
	}
	httpWriteJSON(w, envelope)
}

// submitPrepay handles POST /register/prepay. The signed envelope is
// forwarded to the network exactly as received.
func (a *API) submitPrepay(w http.ResponseWriter, r *http.Request) {
	req := &SubmitPrepayRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	if req.SignedXDR == "" {
		ErrMalformedEnvelope.With("empty signedXdr").Write(w)
		return
	}
	result, err := a.engine.SubmitPrepayment(r.Context(), req.SignedXDR)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidRequest) {
			ErrMalformedEnvelope.WithErr(err).Write(w)
			return
		}
		engineError(err).Write(w)
		return
	}
	httpWriteJSON(w, result)
}
