package zkproof

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/iden3/go-rapidsnark/prover"
	rapidsnark "github.com/iden3/go-rapidsnark/types"
	"github.com/iden3/go-rapidsnark/verifier"
	"github.com/iden3/go-rapidsnark/witness"
	"github.com/zkidlabs/stellar-zkid/circuits"
	"github.com/zkidlabs/stellar-zkid/log"
	"github.com/zkidlabs/stellar-zkid/types"
)

// Public signal ordering is a fixed contract between the engine and the
// circuit: it must not change independently on either side.
const (
	commitmentSignalIndex = 0
	nullifierSignalIndex  = 2
)

// ProofBundle is the ephemeral result of one proof generation attempt. It is
// never persisted.
type ProofBundle struct {
	Inputs        *CircuitInputs
	Proof         *rapidsnark.ProofData
	PublicSignals []string
	Verified      bool
}

// CommitmentHex returns publicSignals[0] as a zero-padded 64-hex-character
// big-endian string.
func (b *ProofBundle) CommitmentHex() (string, error) {
	return SignalHex(b.PublicSignals, commitmentSignalIndex)
}

// NullifierHex returns publicSignals[2] as a zero-padded 64-hex-character
// big-endian string.
func (b *ProofBundle) NullifierHex() (string, error) {
	return SignalHex(b.PublicSignals, nullifierSignalIndex)
}

// SignalHex converts the decimal public signal at the given index to a
// zero-padded 64-hex-character big-endian string.
func SignalHex(signals []string, index int) (string, error) {
	if index >= len(signals) {
		return "", fmt.Errorf("missing public signal %d (got %d)", index, len(signals))
	}
	v, ok := new(big.Int).SetString(signals[index], 10)
	if !ok {
		return "", fmt.Errorf("malformed public signal %d: %q", index, signals[index])
	}
	return fmt.Sprintf("%064x", v), nil
}

// Prover is the process-lifetime handle over the circuit artifacts: the
// witness calculator instantiated from the compiled circuit, the proving key
// and the verification key. It is initialized once at startup and passed
// explicitly to its callers. Safe for concurrent use.
type Prover struct {
	calc            *witness.Circom2WitnessCalculator
	provingKey      []byte
	verificationKey []byte
}

// NewProver loads the circuit artifacts (downloading the missing ones) and
// instantiates the witness calculator.
func NewProver(ctx context.Context, artifacts *circuits.CircuitArtifacts) (*Prover, error) {
	if err := artifacts.LoadAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to load circuit artifacts: %w", err)
	}
	calc, err := witness.NewCircom2WitnessCalculator(artifacts.CircuitDefinition(), true)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate witness calculator: %w", err)
	}
	return &Prover{
		calc:            calc,
		provingKey:      artifacts.ProvingKey(),
		verificationKey: artifacts.VerificationKey(),
	}, nil
}

// Generate derives the circuit inputs for the identity payload, produces a
// Groth16 proof and verifies it locally against the pinned verification key.
// A prover failure is returned as an error; a proof that fails verification
// is returned with Verified set to false, and must never reach the ledger.
func (p *Prover) Generate(ctx context.Context, data *types.IdentityData, userAddress string) (*ProofBundle, error) {
	inputs, err := DeriveInputs(data, userAddress)
	if err != nil {
		return nil, err
	}
	if data.CurrentYear == 0 {
		log.Warnw("no current date provided, age checks use the fallback date",
			"year", inputs.CurrentYear, "month", inputs.CurrentMonth, "day", inputs.CurrentDay)
	}
	bInputs, err := json.Marshal(inputs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode circuit inputs: %w", err)
	}
	parsedInputs, err := witness.ParseInputs(bInputs)
	if err != nil {
		return nil, fmt.Errorf("failed to parse circuit inputs: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	wtns, err := p.calc.CalculateWTNSBin(parsedInputs, true)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate witness: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	proofStr, signalsStr, err := prover.Groth16ProverRaw(p.provingKey, wtns)
	if err != nil {
		return nil, fmt.Errorf("failed to generate proof: %w", err)
	}
	proofData := &rapidsnark.ProofData{}
	if err := json.Unmarshal([]byte(proofStr), proofData); err != nil {
		return nil, fmt.Errorf("failed to decode proof: %w", err)
	}
	var signals []string
	if err := json.Unmarshal([]byte(signalsStr), &signals); err != nil {
		return nil, fmt.Errorf("failed to decode public signals: %w", err)
	}
	bundle := &ProofBundle{
		Inputs:        inputs,
		Proof:         proofData,
		PublicSignals: signals,
	}
	// Verify locally before anyone can submit this proof to the ledger.
	if err := verifier.VerifyGroth16(rapidsnark.ZKProof{
		Proof:      proofData,
		PubSignals: signals,
	}, p.verificationKey); err != nil {
		log.Warnw("generated proof failed local verification", "error", err)
		return bundle, nil
	}
	bundle.Verified = true
	return bundle, nil
}
