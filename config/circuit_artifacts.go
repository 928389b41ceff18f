// Package config holds the pinned, versioned constants of the deployment:
// circuit artifact locations with their sha256 hashes, and the defaults for
// the Soroban network endpoints and contract.
package config

import "time"

const (
	// Identity verifier circuit artifacts. The hashes pin the exact circuit
	// version the verification key belongs to; a mismatch would produce
	// syntactically valid but unverifiable proofs.
	IdentityVerifierCircuitURL          = "https://artifacts.zkidlabs.net/circuits/v1/identity_verifier.wasm"
	IdentityVerifierCircuitHash         = "8a0f3a4cf64b77125dd8aafe8cbf3b7fd9f0f47676fbdfdbd4c1301f19f8b1e5"
	IdentityVerifierProvingKeyURL       = "https://artifacts.zkidlabs.net/circuits/v1/circuit_final.zkey"
	IdentityVerifierProvingKeyHash      = "3417e1e7a6e4bd2c8a3b6c2d8ab73422cf5862b69f0efa881e60dbbbd995295f"
	IdentityVerifierVerificationKeyURL  = "https://artifacts.zkidlabs.net/circuits/v1/verification_key.json"
	IdentityVerifierVerificationKeyHash = "c09d17fa37e552628746ef7f8d8f84b070bb9c78cd2c6753122032d501bb7c22"
)

const (
	// DefaultRPCURL is the Soroban RPC endpoint used when none is provided.
	DefaultRPCURL = "https://soroban-testnet.stellar.org:443"
	// DefaultContractID is the identity verifier contract on testnet.
	DefaultContractID = "CA663VKXGRMCBQAKN26VNJPX5ZW7K73WDCVJQQLQCFXA7UKB2JXTNGH2"
	// DefaultPollInterval is the wait between transaction status polls.
	DefaultPollInterval = 2 * time.Second
	// DefaultPollAttempts bounds the transaction status poll loop.
	DefaultPollAttempts = 30
)
