package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/zkidlabs/stellar-zkid/engine"
)

// user handles GET /user/{address}: the full on-chain view of a user,
// assembled from fresh contract reads.
func (a *API) user(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, UserURLParam)
	account, err := a.engine.User(r.Context(), address)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidRequest) {
			ErrMalformedUserAddress.WithErr(err).Write(w)
			return
		}
		engineError(err).Write(w)
		return
	}
	httpWriteJSON(w, account)
}

// transaction handles GET /transaction/{hash}.
func (a *API) transaction(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, TransactionURLParam)
	info, err := a.engine.Transaction(r.Context(), hash)
	if err != nil {
		engineError(err).Write(w)
		return
	}
	httpWriteJSON(w, info)
}
