package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/xdr"
	"github.com/zkidlabs/stellar-zkid/config"
	"github.com/zkidlabs/stellar-zkid/soroban"
	"github.com/zkidlabs/stellar-zkid/zkproof"
)

// Config groups everything an Engine needs to operate against one
// identity registry contract on one network.
type Config struct {
	// Client is the Soroban RPC client used for all ledger access.
	Client *soroban.Client
	// Prover generates and verifies identity proofs. It may be nil for
	// read-only deployments, in which case Register and GenerateProof
	// return an error.
	Prover *zkproof.Prover
	// OperatorSecret is the S... seed of the admin account that signs
	// and pays for registration transactions.
	OperatorSecret string
	// ContractID is the C... address of the identity registry contract.
	ContractID string
	// NetworkPassphrase selects the network transactions are signed for.
	NetworkPassphrase string
	// PollInterval is the delay between transaction status polls.
	// Defaults to config.DefaultPollInterval when zero.
	PollInterval time.Duration
	// PollAttempts is the total number of status polls before a
	// submission is declared timed out. Defaults to
	// config.DefaultPollAttempts when zero.
	PollAttempts uint64
}

// Engine orchestrates the full registration pipeline: proof
// generation, the payment gate, transaction construction and
// submission, and decoding of on-chain identity records.
type Engine struct {
	client       *soroban.Client
	prover       *zkproof.Prover
	operator     *keypair.Full
	contractID   string
	contractAddr xdr.ScAddress
	tokenAddr    xdr.ScAddress
	passphrase   string
	pollInterval time.Duration
	pollAttempts uint64

	// buildMu serialises operator-sourced transaction construction so
	// two concurrent registrations never consume the same sequence
	// number. Read-only simulations do not take it.
	buildMu sync.Mutex
}

// New validates the configuration and returns a ready Engine.
func New(cfg Config) (*Engine, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("missing soroban client")
	}
	if cfg.NetworkPassphrase == "" {
		return nil, fmt.Errorf("missing network passphrase")
	}
	operator, err := keypair.ParseFull(cfg.OperatorSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid operator secret: %w", err)
	}
	contractAddr, err := soroban.ContractScAddress(cfg.ContractID)
	if err != nil {
		return nil, fmt.Errorf("invalid contract id %q: %w", cfg.ContractID, err)
	}
	// The prepayment token is the native XLM Stellar Asset Contract,
	// whose address is derived from the network passphrase.
	tokenHash, err := xdr.MustNewNativeAsset().ContractID(cfg.NetworkPassphrase)
	if err != nil {
		return nil, fmt.Errorf("derive native token contract: %w", err)
	}
	tokenID := xdr.Hash(tokenHash)
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = config.DefaultPollInterval
	}
	if cfg.PollAttempts == 0 {
		cfg.PollAttempts = config.DefaultPollAttempts
	}
	return &Engine{
		client:       cfg.Client,
		prover:       cfg.Prover,
		operator:     operator,
		contractID:   cfg.ContractID,
		contractAddr: contractAddr,
		tokenAddr: xdr.ScAddress{
			Type:       xdr.ScAddressTypeScAddressTypeContract,
			ContractId: &tokenID,
		},
		passphrase:   cfg.NetworkPassphrase,
		pollInterval: cfg.PollInterval,
		pollAttempts: cfg.PollAttempts,
	}, nil
}

// OperatorAddress returns the G... address of the operator account.
func (e *Engine) OperatorAddress() string {
	return e.operator.Address()
}

// ContractID returns the identity registry contract address.
func (e *Engine) ContractID() string {
	return e.contractID
}

// Healthy reports whether the RPC endpoint answers. It returns the
// latest ledger sequence on success.
func (e *Engine) Healthy(ctx context.Context) (uint32, error) {
	return e.client.LatestLedger(ctx)
}
