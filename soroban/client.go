// Package soroban implements a minimal JSON-RPC client for a Soroban RPC
// node, covering the calls the engine needs: account sequence lookup,
// transaction simulation, submission and status polling.
package soroban

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/stellar/go/xdr"
)

// Transaction status values returned by the RPC node. NOT_FOUND and PENDING
// are both non-terminal: a transaction not yet observed by the node and one
// observed but not yet included are treated identically.
const (
	TxStatusSuccess  = "SUCCESS"
	TxStatusFailed   = "FAILED"
	TxStatusNotFound = "NOT_FOUND"
	TxStatusPending  = "PENDING"
	TxStatusError    = "ERROR"
)

// Client is a JSON-RPC 2.0 client over HTTP for a single Soroban RPC
// endpoint. Safe for concurrent use.
type Client struct {
	endpoint string
	http     *http.Client
	reqID    atomic.Int64
}

// NewClient creates a client for the given Soroban RPC endpoint.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rpcResponse struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  *rpcError       `json:"error,omitempty"`
}

func (c *Client) call(ctx context.Context, method string, params, result any) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.reqID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer res.Body.Close() //nolint:errcheck
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("%s request failed: http status %d", method, res.StatusCode)
	}
	rpcRes := &rpcResponse{}
	if err := json.NewDecoder(res.Body).Decode(rpcRes); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if rpcRes.Error != nil {
		return fmt.Errorf("%s: %w", method, rpcRes.Error)
	}
	if result != nil {
		if err := json.Unmarshal(rpcRes.Result, result); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
	}
	return nil
}

// AccountSequence fetches the current sequence number of the given account
// through a ledger entry lookup.
func (c *Client) AccountSequence(ctx context.Context, accountID string) (int64, error) {
	aid, err := xdr.AddressToAccountId(accountID)
	if err != nil {
		return 0, fmt.Errorf("invalid account address %q: %w", accountID, err)
	}
	key := xdr.LedgerKey{
		Type:    xdr.LedgerEntryTypeAccount,
		Account: &xdr.LedgerKeyAccount{AccountId: aid},
	}
	b64key, err := xdr.MarshalBase64(key)
	if err != nil {
		return 0, fmt.Errorf("failed to encode account ledger key: %w", err)
	}
	var res struct {
		Entries []struct {
			XDR string `json:"xdr"`
		} `json:"entries"`
		LatestLedger uint32 `json:"latestLedger"`
	}
	params := struct {
		Keys []string `json:"keys"`
	}{Keys: []string{b64key}}
	if err := c.call(ctx, "getLedgerEntries", params, &res); err != nil {
		return 0, err
	}
	if len(res.Entries) == 0 {
		return 0, fmt.Errorf("account %s not found on the ledger", accountID)
	}
	var data xdr.LedgerEntryData
	if err := xdr.SafeUnmarshalBase64(res.Entries[0].XDR, &data); err != nil {
		return 0, fmt.Errorf("failed to decode account ledger entry: %w", err)
	}
	account, ok := data.GetAccount()
	if !ok {
		return 0, fmt.Errorf("unexpected ledger entry type %v for account %s", data.Type, accountID)
	}
	return int64(account.SeqNum), nil
}

// SimulationResult is the relevant subset of a simulateTransaction response.
type SimulationResult struct {
	Error           string `json:"error,omitempty"`
	TransactionData string `json:"transactionData"`
	MinResourceFee  string `json:"minResourceFee"`
	Results         []struct {
		Auth []string `json:"auth,omitempty"`
		XDR  string   `json:"xdr"`
	} `json:"results,omitempty"`
	LatestLedger uint32 `json:"latestLedger"`
}

// MinFee parses the minimum resource fee reported by the simulation.
// A fee that does not parse is an error: silently treating it as zero
// would submit an underfunded envelope.
func (s *SimulationResult) MinFee() (int64, error) {
	fee, err := strconv.ParseInt(s.MinResourceFee, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse minimum resource fee %q: %w", s.MinResourceFee, err)
	}
	return fee, nil
}

// RetVal decodes the return value of the first (and only, for contract
// invocations) simulation result.
func (s *SimulationResult) RetVal() (xdr.ScVal, error) {
	var val xdr.ScVal
	if len(s.Results) == 0 {
		return val, fmt.Errorf("simulation returned no results")
	}
	if err := xdr.SafeUnmarshalBase64(s.Results[0].XDR, &val); err != nil {
		return val, fmt.Errorf("failed to decode simulation return value: %w", err)
	}
	return val, nil
}

// SorobanData decodes the transaction resource footprint the simulation
// reports, to be attached verbatim to the transaction before signing.
func (s *SimulationResult) SorobanData() (xdr.SorobanTransactionData, error) {
	var data xdr.SorobanTransactionData
	if s.TransactionData == "" {
		return data, fmt.Errorf("simulation returned no transaction data")
	}
	if err := xdr.SafeUnmarshalBase64(s.TransactionData, &data); err != nil {
		return data, fmt.Errorf("failed to decode soroban transaction data: %w", err)
	}
	return data, nil
}

// AuthEntries decodes the authorization entries required by the simulated
// invocation.
func (s *SimulationResult) AuthEntries() ([]xdr.SorobanAuthorizationEntry, error) {
	if len(s.Results) == 0 {
		return nil, nil
	}
	entries := make([]xdr.SorobanAuthorizationEntry, 0, len(s.Results[0].Auth))
	for _, b64 := range s.Results[0].Auth {
		var entry xdr.SorobanAuthorizationEntry
		if err := xdr.SafeUnmarshalBase64(b64, &entry); err != nil {
			return nil, fmt.Errorf("failed to decode authorization entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// SimulateTransaction dry-runs a transaction envelope against current ledger
// state. A non-empty Error field means the call would fail deterministically.
func (c *Client) SimulateTransaction(ctx context.Context, envelopeB64 string) (*SimulationResult, error) {
	params := struct {
		Transaction string `json:"transaction"`
	}{Transaction: envelopeB64}
	result := &SimulationResult{}
	if err := c.call(ctx, "simulateTransaction", params, result); err != nil {
		return nil, err
	}
	return result, nil
}

// SendResult is the relevant subset of a sendTransaction response. A
// non-empty ErrorResultXDR means the transaction was rejected at submission.
type SendResult struct {
	Status         string `json:"status"`
	Hash           string `json:"hash"`
	ErrorResultXDR string `json:"errorResultXdr,omitempty"`
	LatestLedger   uint32 `json:"latestLedger"`
}

// SendTransaction submits a signed transaction envelope to the network.
func (c *Client) SendTransaction(ctx context.Context, envelopeB64 string) (*SendResult, error) {
	params := struct {
		Transaction string `json:"transaction"`
	}{Transaction: envelopeB64}
	result := &SendResult{}
	if err := c.call(ctx, "sendTransaction", params, result); err != nil {
		return nil, err
	}
	return result, nil
}

// TransactionStatus is the relevant subset of a getTransaction response.
type TransactionStatus struct {
	Status           string `json:"status"`
	Ledger           uint32 `json:"ledger,omitempty"`
	CreatedAt        string `json:"createdAt,omitempty"`
	ApplicationOrder int32  `json:"applicationOrder,omitempty"`
	EnvelopeXDR      string `json:"envelopeXdr,omitempty"`
	ResultXDR        string `json:"resultXdr,omitempty"`
	LatestLedger     uint32 `json:"latestLedger"`
}

// Terminal reports whether the status is terminal. NOT_FOUND and PENDING are
// equally non-terminal.
func (t *TransactionStatus) Terminal() bool {
	return t.Status != TxStatusNotFound && t.Status != TxStatusPending
}

// CreatedAtTime parses the unix timestamp of the transaction inclusion.
func (t *TransactionStatus) CreatedAtTime() time.Time {
	unix, err := strconv.ParseInt(t.CreatedAt, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(unix, 0).UTC()
}

// GetTransaction queries the status of a transaction by hash.
func (c *Client) GetTransaction(ctx context.Context, hash string) (*TransactionStatus, error) {
	params := struct {
		Hash string `json:"hash"`
	}{Hash: hash}
	result := &TransactionStatus{}
	if err := c.call(ctx, "getTransaction", params, result); err != nil {
		return nil, err
	}
	return result, nil
}

// LatestLedger returns the sequence of the latest ledger known to the node.
// Used as a health check.
func (c *Client) LatestLedger(ctx context.Context) (uint32, error) {
	var res struct {
		Sequence uint32 `json:"sequence"`
	}
	if err := c.call(ctx, "getLatestLedger", nil, &res); err != nil {
		return 0, err
	}
	return res.Sequence, nil
}
