package api

import (
	rapidsnark "github.com/iden3/go-rapidsnark/types"
	"github.com/zkidlabs/stellar-zkid/types"
)

// RegisterRequest is the body of POST /register and POST /generate-proof.
type RegisterRequest struct {
	UserAddress string              `json:"userAddress"`
	Identity    *types.IdentityData `json:"identity"`
}

// RegisterResponse is the body of a successful POST /register.
type RegisterResponse struct {
	Success         bool                     `json:"success"`
	TxnHash         string                   `json:"txnHash"`
	Ledger          uint32                   `json:"ledger,omitempty"`
	Commitment      string                   `json:"commitment"`
	Nullifier       string                   `json:"nullifier"`
	PublicSignals   []string                 `json:"publicSignals"`
	DocCount        uint32                   `json:"docCount"`
	PaymentRequired bool                     `json:"paymentRequired"`
	Attributes      types.VerifiedAttributes `json:"verifiedAttributes"`
}

// PaymentRequiredResponse is the 402 body returned when a user must
// prepay before registering another document.
type PaymentRequiredResponse struct {
	Error           string `json:"error"`
	Code            int    `json:"code"`
	RequiresPayment bool   `json:"requiresPayment"`
	DocCount        uint32 `json:"docCount"`
}

// ProofResponse is the body of a successful POST /generate-proof.
// Nothing here touches the ledger.
type ProofResponse struct {
	Proof         *rapidsnark.ProofData `json:"proof"`
	PublicSignals []string              `json:"publicSignals"`
	Commitment    string                `json:"commitment"`
	Nullifier     string                `json:"nullifier"`
	Verified      bool                  `json:"verified"`
}

// PrepayRequest is the body of POST /register/build-prepay.
type PrepayRequest struct {
	UserAddress string `json:"userAddress"`
}

// SubmitPrepayRequest is the body of POST /register/prepay. SignedXDR
// must be the envelope returned by build-prepay, signed and otherwise
// untouched. UserAddress is informational; the envelope's source account
// is authoritative.
type SubmitPrepayRequest struct {
	UserAddress string `json:"userAddress,omitempty"`
	SignedXDR   string `json:"signedXdr"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status       string `json:"status"`
	LatestLedger uint32 `json:"latestLedger"`
	Contract     string `json:"contract"`
	Operator     string `json:"operator"`
}
