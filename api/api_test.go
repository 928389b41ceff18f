package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/zkidlabs/stellar-zkid/engine"
	"github.com/zkidlabs/stellar-zkid/types"
	"github.com/zkidlabs/stellar-zkid/zkproof"
)

// stubEngine lets each test wire exactly the pipeline behavior it needs.
type stubEngine struct {
	register       func(userAddress string, data *types.IdentityData) (*engine.RegistrationResult, error)
	generateProof  func(userAddress string, data *types.IdentityData) (*zkproof.ProofBundle, error)
	buildPrepay    func(userAddress string) (*engine.PrepaymentEnvelope, error)
	submitPrepay   func(signedXDR string) (*engine.PrepaymentResult, error)
	user           func(userAddress string) (*types.UserAccount, error)
	transaction    func(hash string) (*engine.TransactionInfo, error)
	healthyLedger  uint32
	healthyFailure error
}

func (s *stubEngine) Register(_ context.Context, userAddress string, data *types.IdentityData) (*engine.RegistrationResult, error) {
	return s.register(userAddress, data)
}

func (s *stubEngine) GenerateProof(_ context.Context, userAddress string, data *types.IdentityData) (*zkproof.ProofBundle, error) {
	return s.generateProof(userAddress, data)
}

func (s *stubEngine) BuildPrepayment(_ context.Context, userAddress string) (*engine.PrepaymentEnvelope, error) {
	return s.buildPrepay(userAddress)
}

func (s *stubEngine) SubmitPrepayment(_ context.Context, signedXDR string) (*engine.PrepaymentResult, error) {
	return s.submitPrepay(signedXDR)
}

func (s *stubEngine) User(_ context.Context, userAddress string) (*types.UserAccount, error) {
	return s.user(userAddress)
}

func (s *stubEngine) Transaction(_ context.Context, hash string) (*engine.TransactionInfo, error) {
	return s.transaction(hash)
}

func (s *stubEngine) Healthy(context.Context) (uint32, error) {
	return s.healthyLedger, s.healthyFailure
}

func (s *stubEngine) OperatorAddress() string { return "GOPERATOR" }
func (s *stubEngine) ContractID() string      { return "CCONTRACT" }

func testAPI(stub *stubEngine) *API {
	a := &API{engine: stub}
	a.initRouter()
	return a
}

func doJSON(c *qt.C, a *API, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		c.Assert(json.NewEncoder(&buf).Encode(body), qt.IsNil)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	return rec
}

func TestPingAndHealth(t *testing.T) {
	c := qt.New(t)
	a := testAPI(&stubEngine{healthyLedger: 123})

	rec := doJSON(c, a, http.MethodGet, PingEndpoint, nil)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)

	rec = doJSON(c, a, http.MethodGet, HealthEndpoint, nil)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	var health HealthResponse
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &health), qt.IsNil)
	c.Assert(health.Status, qt.Equals, "ok")
	c.Assert(health.LatestLedger, qt.Equals, uint32(123))
	c.Assert(health.Operator, qt.Equals, "GOPERATOR")

	a = testAPI(&stubEngine{healthyFailure: fmt.Errorf("connection refused")})
	rec = doJSON(c, a, http.MethodGet, HealthEndpoint, nil)
	c.Assert(rec.Code, qt.Equals, http.StatusServiceUnavailable)
}

func TestRegisterHandler(t *testing.T) {
	c := qt.New(t)
	a := testAPI(&stubEngine{
		register: func(userAddress string, data *types.IdentityData) (*engine.RegistrationResult, error) {
			c.Assert(userAddress, qt.Equals, "GUSER")
			c.Assert(data.Name, qt.Equals, "Jane Example")
			return &engine.RegistrationResult{
				TxnHash:    "cafe01",
				Commitment: "aa",
				Nullifier:  "bb",
				DocCount:   1,
			}, nil
		},
	})

	rec := doJSON(c, a, http.MethodPost, RegisterEndpoint, &RegisterRequest{
		UserAddress: "GUSER",
		Identity:    &types.IdentityData{Name: "Jane Example"},
	})
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	var resp RegisterResponse
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &resp), qt.IsNil)
	c.Assert(resp.Success, qt.IsTrue)
	c.Assert(resp.TxnHash, qt.Equals, "cafe01")
	c.Assert(resp.DocCount, qt.Equals, uint32(1))

	// a malformed body never reaches the engine
	req := httptest.NewRequest(http.MethodPost, RegisterEndpoint, bytes.NewBufferString("{nope"))
	rec = httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
}

func TestRegisterPaymentRequired(t *testing.T) {
	c := qt.New(t)
	a := testAPI(&stubEngine{
		register: func(string, *types.IdentityData) (*engine.RegistrationResult, error) {
			return nil, &engine.PaymentRequiredError{DocCount: 2}
		},
	})

	rec := doJSON(c, a, http.MethodPost, RegisterEndpoint, &RegisterRequest{
		UserAddress: "GUSER",
		Identity:    &types.IdentityData{},
	})
	c.Assert(rec.Code, qt.Equals, http.StatusPaymentRequired)
	var resp PaymentRequiredResponse
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &resp), qt.IsNil)
	c.Assert(resp.RequiresPayment, qt.IsTrue)
	c.Assert(resp.DocCount, qt.Equals, uint32(2))
	c.Assert(resp.Code, qt.Equals, ErrPaymentRequired.Code)
}

func TestRegisterErrorMapping(t *testing.T) {
	c := qt.New(t)
	cases := []struct {
		err        error
		wantStatus int
		wantCode   int
	}{
		{fmt.Errorf("%w: bad salt", engine.ErrInvalidRequest), http.StatusBadRequest, ErrInvalidIdentityPayload.Code},
		{fmt.Errorf("%w: witness calculation", engine.ErrProofGeneration), http.StatusBadRequest, ErrProofGenerationFailed.Code},
		{engine.ErrProofInvalid, http.StatusBadRequest, ErrProofVerificationFailed.Code},
		{fmt.Errorf("%w: boom", engine.ErrSimulationFailed), http.StatusInternalServerError, ErrSimulationFailed.Code},
		{fmt.Errorf("%w: h", engine.ErrTransactionTimeout), http.StatusGatewayTimeout, ErrTransactionTimeout.Code},
		{fmt.Errorf("surprise"), http.StatusInternalServerError, ErrGenericInternalServerError.Code},
	}
	for _, tc := range cases {
		a := testAPI(&stubEngine{
			register: func(string, *types.IdentityData) (*engine.RegistrationResult, error) {
				return nil, tc.err
			},
		})
		rec := doJSON(c, a, http.MethodPost, RegisterEndpoint, &RegisterRequest{Identity: &types.IdentityData{}})
		c.Assert(rec.Code, qt.Equals, tc.wantStatus, qt.Commentf("error %v", tc.err))
		var body struct {
			Code int `json:"code"`
		}
		c.Assert(json.Unmarshal(rec.Body.Bytes(), &body), qt.IsNil)
		c.Assert(body.Code, qt.Equals, tc.wantCode)
	}
}

func TestUserHandler(t *testing.T) {
	c := qt.New(t)
	a := testAPI(&stubEngine{
		user: func(userAddress string) (*types.UserAccount, error) {
			if userAddress != "GUSER" {
				return nil, engine.ErrUserNotVerified
			}
			return &types.UserAccount{Address: userAddress, Verified: true, DocCount: 1}, nil
		},
	})

	rec := doJSON(c, a, http.MethodGet, "/user/GUSER", nil)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	var account types.UserAccount
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &account), qt.IsNil)
	c.Assert(account.Verified, qt.IsTrue)

	rec = doJSON(c, a, http.MethodGet, "/user/GNOBODY", nil)
	c.Assert(rec.Code, qt.Equals, http.StatusNotFound)
}

func TestTransactionHandler(t *testing.T) {
	c := qt.New(t)
	a := testAPI(&stubEngine{
		transaction: func(hash string) (*engine.TransactionInfo, error) {
			if hash != "cafe01" {
				return nil, engine.ErrTransactionNotFound
			}
			return &engine.TransactionInfo{Hash: hash, Status: "SUCCESS"}, nil
		},
	})

	rec := doJSON(c, a, http.MethodGet, "/transaction/cafe01", nil)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)

	rec = doJSON(c, a, http.MethodGet, "/transaction/ffff", nil)
	c.Assert(rec.Code, qt.Equals, http.StatusNotFound)
}

func TestPrepayHandlers(t *testing.T) {
	c := qt.New(t)
	a := testAPI(&stubEngine{
		buildPrepay: func(userAddress string) (*engine.PrepaymentEnvelope, error) {
			return &engine.PrepaymentEnvelope{XDR: "AAAA", NetworkPassphrase: "Test", Fee: 200}, nil
		},
		submitPrepay: func(signedXDR string) (*engine.PrepaymentResult, error) {
			c.Assert(signedXDR, qt.Equals, "AAAA")
			return &engine.PrepaymentResult{TxnHash: "cafe02", PrepaidCredits: 1}, nil
		},
	})

	rec := doJSON(c, a, http.MethodPost, BuildPrepayEndpoint, &PrepayRequest{UserAddress: "GUSER"})
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	var envelope engine.PrepaymentEnvelope
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &envelope), qt.IsNil)
	c.Assert(envelope.XDR, qt.Equals, "AAAA")
	c.Assert(envelope.Fee, qt.Equals, int64(200))

	rec = doJSON(c, a, http.MethodPost, SubmitPrepayEndpoint, &SubmitPrepayRequest{SignedXDR: "AAAA"})
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	var result engine.PrepaymentResult
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &result), qt.IsNil)
	c.Assert(result.TxnHash, qt.Equals, "cafe02")

	// an empty envelope is rejected without calling the engine
	rec = doJSON(c, a, http.MethodPost, SubmitPrepayEndpoint, &SubmitPrepayRequest{})
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
}
