package api

const (
	// PingEndpoint is the endpoint for checking the API status
	PingEndpoint = "/ping"
	// HealthEndpoint reports the RPC connectivity and deployment info
	HealthEndpoint = "/health"
	// RegisterEndpoint runs the full registration pipeline for a document
	RegisterEndpoint = "/register"
	// ProofEndpoint generates and verifies a proof without submitting
	// anything to the ledger
	ProofEndpoint = "/generate-proof"
	// BuildPrepayEndpoint builds an unsigned prepayment envelope for the
	// user to sign
	BuildPrepayEndpoint = "/register/build-prepay"
	// SubmitPrepayEndpoint submits a signed prepayment envelope
	SubmitPrepayEndpoint = "/register/prepay"
	// UserEndpoint returns the on-chain view of a user
	UserURLParam = "address"
	UserEndpoint = "/user/{" + UserURLParam + "}"
	// TransactionEndpoint returns the status of a submitted transaction
	TransactionURLParam = "hash"
	TransactionEndpoint = "/transaction/{" + TransactionURLParam + "}"
)
