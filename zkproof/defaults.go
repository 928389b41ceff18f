package zkproof

import (
	"github.com/zkidlabs/stellar-zkid/circuits"
	"github.com/zkidlabs/stellar-zkid/config"
	"github.com/zkidlabs/stellar-zkid/types"
)

// DefaultArtifacts returns the pinned identity verifier circuit artifacts.
func DefaultArtifacts() *circuits.CircuitArtifacts {
	return circuits.NewCircuitArtifacts(
		&circuits.Artifact{
			RemoteURL: config.IdentityVerifierCircuitURL,
			Hash:      types.HexStringToHexBytes(config.IdentityVerifierCircuitHash),
		},
		&circuits.Artifact{
			RemoteURL: config.IdentityVerifierProvingKeyURL,
			Hash:      types.HexStringToHexBytes(config.IdentityVerifierProvingKeyHash),
		},
		&circuits.Artifact{
			RemoteURL: config.IdentityVerifierVerificationKeyURL,
			Hash:      types.HexStringToHexBytes(config.IdentityVerifierVerificationKeyHash),
		},
	)
}
