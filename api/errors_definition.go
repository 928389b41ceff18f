//nolint:lll
package api

import (
	"fmt"
	"net/http"
)

// The custom Error type satisfies the error interface.
// Error() returns a human-readable description of the error.
//
// Error codes in the 40001-49999 range are the client's fault,
// and they return HTTP Status 400, 402 or 404, whatever is most appropriate.
//
// Error codes 50001-59999 are the server's (or the network's) fault
// and they return HTTP Status 500, 503 or 504.
//
// NEVER change any of the current error codes, only append new errors after the
// current last 4XXX or 5XXX. If a code disappears from this list, don't reuse it.
// There's no correlation between Code and HTTP Status.
var (
	ErrResourceNotFound       = Error{Code: 40001, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("resource not found")}
	ErrMalformedBody          = Error{Code: 40004, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed JSON body")}
	ErrMalformedUserAddress   = Error{Code: 40005, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed user address")}
	ErrInvalidIdentityPayload = Error{Code: 40006, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid identity payload")}
	ErrUserNotVerified        = Error{Code: 40007, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("user not verified")}
	ErrTransactionNotFound    = Error{Code: 40008, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("transaction not found")}
	ErrMalformedEnvelope      = Error{Code: 40009, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed transaction envelope")}
	ErrPaymentRequired        = Error{Code: 40010, HTTPstatus: http.StatusPaymentRequired, Err: fmt.Errorf("payment required for additional document")}
	// Proof failures are the payload's fault: the same identity data
	// deterministically produces the same outcome, so retrying without
	// changing the payload cannot help.
	ErrProofGenerationFailed   = Error{Code: 40011, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("proof generation failed")}
	ErrProofVerificationFailed = Error{Code: 40012, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("proof verification failed")}

	ErrMarshalingServerJSONFailed = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("marshaling (server-side) JSON failed")}
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("internal server error")}
	ErrSimulationFailed           = Error{Code: 50005, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("transaction simulation failed")}
	ErrTransactionRejected        = Error{Code: 50006, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("transaction rejected by network")}
	ErrTransactionFailed          = Error{Code: 50007, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("transaction failed on ledger")}
	ErrTransactionTimeout         = Error{Code: 50008, HTTPstatus: http.StatusGatewayTimeout, Err: fmt.Errorf("transaction confirmation timed out")}
	ErrLedgerUnavailable          = Error{Code: 50009, HTTPstatus: http.StatusServiceUnavailable, Err: fmt.Errorf("ledger unavailable")}
)
