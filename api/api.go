package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/zkidlabs/stellar-zkid/engine"
	"github.com/zkidlabs/stellar-zkid/log"
	"github.com/zkidlabs/stellar-zkid/types"
	"github.com/zkidlabs/stellar-zkid/zkproof"
)

// Engine is the registration pipeline surface the API exposes over HTTP.
// *engine.Engine satisfies it; tests plug in stubs.
type Engine interface {
	Register(ctx context.Context, userAddress string, data *types.IdentityData) (*engine.RegistrationResult, error)
	GenerateProof(ctx context.Context, userAddress string, data *types.IdentityData) (*zkproof.ProofBundle, error)
	BuildPrepayment(ctx context.Context, userAddress string) (*engine.PrepaymentEnvelope, error)
	SubmitPrepayment(ctx context.Context, signedXDR string) (*engine.PrepaymentResult, error)
	User(ctx context.Context, userAddress string) (*types.UserAccount, error)
	Transaction(ctx context.Context, hash string) (*engine.TransactionInfo, error)
	Healthy(ctx context.Context) (uint32, error)
	OperatorAddress() string
	ContractID() string
}

// APIConfig type represents the configuration for the API HTTP server.
type APIConfig struct {
	Host   string
	Port   int
	Engine Engine
}

// API type represents the API HTTP server.
type API struct {
	router *chi.Mux
	engine Engine
}

// New creates a new API instance with the given configuration and starts
// the HTTP server.
func New(conf *APIConfig) (*API, error) {
	if conf == nil {
		return nil, fmt.Errorf("missing API configuration")
	}
	if conf.Engine == nil {
		return nil, fmt.Errorf("missing engine instance")
	}
	a := &API{
		engine: conf.Engine,
	}

	// Initialize router
	a.initRouter()
	go func() {
		log.Infow("Starting API server", "host", conf.Host, "port", conf.Port)
		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", conf.Host, conf.Port), a.router); err != nil {
			log.Fatalf("failed to start the API server: %v", err)
		}
	}()
	return a, nil
}

// Router returns the chi router for testing purposes
func (a *API) Router() *chi.Mux {
	return a.router
}

// registerHandlers registers all the API handlers.
func (a *API) registerHandlers() {
	log.Infow("register handler", "endpoint", PingEndpoint, "method", "GET")
	a.router.Get(PingEndpoint, func(w http.ResponseWriter, r *http.Request) {
		httpWriteOK(w)
	})
	log.Infow("register handler", "endpoint", HealthEndpoint, "method", "GET")
	a.router.Get(HealthEndpoint, a.health)
	log.Infow("register handler", "endpoint", RegisterEndpoint, "method", "POST")
	a.router.Post(RegisterEndpoint, a.register)
	log.Infow("register handler", "endpoint", ProofEndpoint, "method", "POST")
	a.router.Post(ProofEndpoint, a.generateProof)
	log.Infow("register handler", "endpoint", BuildPrepayEndpoint, "method", "POST")
	a.router.Post(BuildPrepayEndpoint, a.buildPrepay)
	log.Infow("register handler", "endpoint", SubmitPrepayEndpoint, "method", "POST")
	a.router.Post(SubmitPrepayEndpoint, a.submitPrepay)
	log.Infow("register handler", "endpoint", UserEndpoint, "method", "GET")
	a.router.Get(UserEndpoint, a.user)
	log.Infow("register handler", "endpoint", TransactionEndpoint, "method", "GET")
	a.router.Get(TransactionEndpoint, a.transaction)
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() {
	// Create the router with a basic middleware stack
	a.router = chi.NewRouter()
	a.router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Throttle(100))
	a.router.Use(middleware.ThrottleBacklog(5000, 40000, 60*time.Second))
	a.router.Use(middleware.Timeout(120 * time.Second))

	// Register the API handlers
	a.registerHandlers()
}

// health reports RPC connectivity plus the deployment the server talks to.
func (a *API) health(w http.ResponseWriter, r *http.Request) {
	ledger, err := a.engine.Healthy(r.Context())
	if err != nil {
		ErrLedgerUnavailable.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &HealthResponse{
		Status:       "ok",
		LatestLedger: ledger,
		Contract:     a.engine.ContractID(),
		Operator:     a.engine.OperatorAddress(),
	})
}
