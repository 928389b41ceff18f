package engine

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-retry"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
	"github.com/zkidlabs/stellar-zkid/log"
	"github.com/zkidlabs/stellar-zkid/soroban"
)

// SignerPolicy states who signs a contract invocation before it is
// submitted.
type SignerPolicy int

const (
	// SignOperator means the engine signs with the operator key and
	// submits immediately. Used for registration, where only the
	// operator (admin) authorization is required.
	SignOperator SignerPolicy = iota
	// SignExternal means the engine stops after attaching simulation
	// resources and returns the unsigned envelope, because the source
	// account's key is not held by the server. Used for prepayments,
	// which spend from the user's own account.
	SignExternal
)

// txTimeoutSeconds bounds the validity window of every envelope the
// engine builds.
const txTimeoutSeconds = 300

// invokeOp builds an InvokeHostFunction operation calling fn on the
// registry contract with the given arguments.
func (e *Engine) invokeOp(fn string, args []xdr.ScVal) *txnbuild.InvokeHostFunction {
	return &txnbuild.InvokeHostFunction{
		HostFunction: xdr.HostFunction{
			Type: xdr.HostFunctionTypeHostFunctionTypeInvokeContract,
			InvokeContract: &xdr.InvokeContractArgs{
				ContractAddress: e.contractAddr,
				FunctionName:    xdr.ScSymbol(fn),
				Args:            args,
			},
		},
	}
}

func buildTx(sourceAddr string, seq int64, baseFee int64, op *txnbuild.InvokeHostFunction) (*txnbuild.Transaction, error) {
	source := txnbuild.NewSimpleAccount(sourceAddr, seq)
	return txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &source,
		IncrementSequenceNum: true,
		Operations:           []txnbuild.Operation{op},
		BaseFee:              baseFee,
		Preconditions: txnbuild.Preconditions{
			TimeBounds: txnbuild.NewTimeout(txTimeoutSeconds),
		},
	})
}

// prepareInvoke runs the BUILD, SIMULATE and PREPARE phases: it builds
// a minimum-fee envelope calling fn, simulates it, and rebuilds the
// envelope with the resource footprint, authorization entries and fee
// the simulation reported. The returned transaction is unsigned.
func (e *Engine) prepareInvoke(ctx context.Context, sourceAddr string, seq int64, fn string, args []xdr.ScVal) (*txnbuild.Transaction, *soroban.SimulationResult, error) {
	op := e.invokeOp(fn, args)
	tx, err := buildTx(sourceAddr, seq, txnbuild.MinBaseFee, op)
	if err != nil {
		return nil, nil, fmt.Errorf("build %s transaction: %w", fn, err)
	}
	envelope, err := tx.Base64()
	if err != nil {
		return nil, nil, fmt.Errorf("encode %s transaction: %w", fn, err)
	}
	sim, err := e.client.SimulateTransaction(ctx, envelope)
	if err != nil {
		return nil, nil, fmt.Errorf("simulate %s: %w", fn, err)
	}
	if sim.Error != "" {
		return nil, sim, fmt.Errorf("%w: %s: %s", ErrSimulationFailed, fn, sim.Error)
	}
	sorobanData, err := sim.SorobanData()
	if err != nil {
		return nil, sim, fmt.Errorf("simulate %s: %w", fn, err)
	}
	auth, err := sim.AuthEntries()
	if err != nil {
		return nil, sim, fmt.Errorf("simulate %s: %w", fn, err)
	}
	op.Ext = xdr.TransactionExt{
		V:           1,
		SorobanData: &sorobanData,
	}
	op.Auth = auth
	minFee, err := sim.MinFee()
	if err != nil {
		return nil, sim, fmt.Errorf("simulate %s: %w", fn, err)
	}
	prepared, err := buildTx(sourceAddr, seq, txnbuild.MinBaseFee+minFee, op)
	if err != nil {
		return nil, sim, fmt.Errorf("rebuild %s transaction: %w", fn, err)
	}
	return prepared, sim, nil
}

// contractCall describes one invocation of the registry contract and
// who signs the resulting envelope. SignOperator calls always spend
// from the operator account, so source is only consulted for
// SignExternal.
type contractCall struct {
	policy SignerPolicy
	source string
	fn     string
	args   []xdr.ScVal
}

// callOutcome carries whichever artifacts the signer policy produced:
// the confirmed hash and status for SignOperator, the prepared unsigned
// envelope for SignExternal.
type callOutcome struct {
	hash     string
	status   *soroban.TransactionStatus
	unsigned *txnbuild.Transaction
}

// submitContractCall runs the transaction pipeline for one contract
// invocation according to its signer policy. SignOperator calls go
// through the full pipeline: prepare, sign with the operator key,
// submit and poll until a terminal status. SignExternal calls stop
// after the envelope is prepared, since the source account's key is
// not held here.
func (e *Engine) submitContractCall(ctx context.Context, call contractCall) (*callOutcome, error) {
	switch call.policy {
	case SignOperator:
		hash, err := e.sendOperator(ctx, call.fn, call.args)
		if err != nil {
			return &callOutcome{hash: hash}, err
		}
		status, err := e.awaitTransaction(ctx, hash)
		return &callOutcome{hash: hash, status: status}, err
	case SignExternal:
		seq, err := e.client.AccountSequence(ctx, call.source)
		if err != nil {
			return nil, fmt.Errorf("fetch %s sequence: %w", call.source, err)
		}
		tx, _, err := e.prepareInvoke(ctx, call.source, seq, call.fn, call.args)
		if err != nil {
			return nil, err
		}
		return &callOutcome{unsigned: tx}, nil
	default:
		return nil, fmt.Errorf("unknown signer policy %d", call.policy)
	}
}

// sendOperator runs the construction-to-submission window for an
// operator-signed invocation under the build lock, so concurrent calls
// never race on the operator sequence number.
func (e *Engine) sendOperator(ctx context.Context, fn string, args []xdr.ScVal) (string, error) {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	seq, err := e.client.AccountSequence(ctx, e.operator.Address())
	if err != nil {
		return "", fmt.Errorf("fetch operator sequence: %w", err)
	}
	tx, _, err := e.prepareInvoke(ctx, e.operator.Address(), seq, fn, args)
	if err != nil {
		return "", err
	}
	signed, err := tx.Sign(e.passphrase, e.operator)
	if err != nil {
		return "", fmt.Errorf("sign %s transaction: %w", fn, err)
	}
	envelope, err := signed.Base64()
	if err != nil {
		return "", fmt.Errorf("encode signed %s transaction: %w", fn, err)
	}
	log.Debugw("submitting contract invocation",
		"function", fn, "fee", signed.BaseFee(), "sequence", seq+1)
	sent, err := e.client.SendTransaction(ctx, envelope)
	if err != nil {
		return "", fmt.Errorf("send %s transaction: %w", fn, err)
	}
	if sent.Status == soroban.TxStatusError {
		return sent.Hash, fmt.Errorf("%w: %s: %s", ErrTransactionRejected, fn, sent.ErrorResultXDR)
	}
	return sent.Hash, nil
}

// awaitTransaction polls the network for the transaction status at a
// constant interval until it becomes terminal, the attempt budget runs
// out, or the context is cancelled.
func (e *Engine) awaitTransaction(ctx context.Context, hash string) (*soroban.TransactionStatus, error) {
	var status *soroban.TransactionStatus
	backoff := retry.WithMaxRetries(e.pollAttempts-1, retry.NewConstant(e.pollInterval))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		status, err = e.client.GetTransaction(ctx, hash)
		if err != nil {
			return retry.RetryableError(err)
		}
		if !status.Terminal() {
			return retry.RetryableError(fmt.Errorf("transaction %s not yet confirmed", hash))
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return status, ctx.Err()
		}
		return status, fmt.Errorf("%w: %s", ErrTransactionTimeout, hash)
	}
	if status.Status == soroban.TxStatusFailed {
		return status, fmt.Errorf("%w: %s: %s", ErrTransactionFailed, hash, status.ResultXDR)
	}
	return status, nil
}

// simulateRead runs a read-only contract invocation and returns its
// return value. The envelope is never submitted, so reads take no lock
// and can run concurrently with registrations.
func (e *Engine) simulateRead(ctx context.Context, fn string, args []xdr.ScVal) (xdr.ScVal, *soroban.SimulationResult, error) {
	seq, err := e.client.AccountSequence(ctx, e.operator.Address())
	if err != nil {
		return xdr.ScVal{}, nil, fmt.Errorf("fetch operator sequence: %w", err)
	}
	tx, err := buildTx(e.operator.Address(), seq, txnbuild.MinBaseFee, e.invokeOp(fn, args))
	if err != nil {
		return xdr.ScVal{}, nil, fmt.Errorf("build %s transaction: %w", fn, err)
	}
	envelope, err := tx.Base64()
	if err != nil {
		return xdr.ScVal{}, nil, fmt.Errorf("encode %s transaction: %w", fn, err)
	}
	sim, err := e.client.SimulateTransaction(ctx, envelope)
	if err != nil {
		return xdr.ScVal{}, nil, fmt.Errorf("simulate %s: %w", fn, err)
	}
	if sim.Error != "" {
		return xdr.ScVal{}, sim, fmt.Errorf("%w: %s: %s", ErrSimulationFailed, fn, sim.Error)
	}
	val, err := sim.RetVal()
	if err != nil {
		return xdr.ScVal{}, sim, fmt.Errorf("%s: %w", fn, err)
	}
	return val, sim, nil
}
