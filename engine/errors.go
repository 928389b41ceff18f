package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest wraps client-side validation failures, bad
	// addresses and malformed identity payloads.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrProofGeneration wraps witness or prover failures.
	ErrProofGeneration = errors.New("proof generation failed")
	// ErrProofInvalid is returned when a freshly generated proof does
	// not verify against the circuit verification key.
	ErrProofInvalid = errors.New("proof verification failed")
	// ErrSimulationFailed wraps a simulateTransaction response that
	// carries an error payload.
	ErrSimulationFailed = errors.New("transaction simulation failed")
	// ErrTransactionRejected is returned when sendTransaction reports
	// an immediate ERROR status.
	ErrTransactionRejected = errors.New("transaction rejected by network")
	// ErrTransactionFailed is returned when a submitted transaction
	// reaches a terminal FAILED status.
	ErrTransactionFailed = errors.New("transaction failed on ledger")
	// ErrTransactionTimeout is returned when polling exhausts its
	// attempt budget without observing a terminal status.
	ErrTransactionTimeout = errors.New("transaction confirmation timed out")
	// ErrTransactionNotFound is returned by transaction lookups for
	// hashes the network has no record of.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrUserNotVerified is returned by user lookups for addresses with
	// no on-chain identity record.
	ErrUserNotVerified = errors.New("user has no verified identity")
)

// PaymentRequiredError is returned by Register when the user already
// holds one or more documents and has no prepaid credit to spend on the
// next one. DocCount carries the current document count so callers can
// surface it.
type PaymentRequiredError struct {
	DocCount uint32
}

func (e *PaymentRequiredError) Error() string {
	return fmt.Sprintf("payment required: %d document(s) already registered and no prepaid credit", e.DocCount)
}
