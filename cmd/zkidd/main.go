package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/stellar/go/network"
	"github.com/zkidlabs/stellar-zkid/api"
	"github.com/zkidlabs/stellar-zkid/circuits"
	"github.com/zkidlabs/stellar-zkid/config"
	"github.com/zkidlabs/stellar-zkid/engine"
	"github.com/zkidlabs/stellar-zkid/log"
	"github.com/zkidlabs/stellar-zkid/soroban"
	"github.com/zkidlabs/stellar-zkid/zkproof"
)

func main() {
	host := flag.String("host", "0.0.0.0", "API host to bind")
	port := flag.Int("port", 3001, "API port to bind")
	rpcURL := flag.String("rpc-url", config.DefaultRPCURL, "Soroban RPC endpoint")
	contractID := flag.String("contract-id", config.DefaultContractID, "identity registry contract address")
	passphrase := flag.String("network-passphrase", network.TestNetworkPassphrase, "network passphrase transactions are signed for")
	pollInterval := flag.Duration("poll-interval", config.DefaultPollInterval, "delay between transaction status polls")
	pollAttempts := flag.Uint64("poll-attempts", config.DefaultPollAttempts, "status polls before a submission times out")
	artifactsDir := flag.String("artifacts-dir", "", "circuit artifacts cache directory (defaults to the user cache dir)")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	log.Init(*logLevel, "stdout", nil)

	// The operator seed only travels through the environment, never a flag,
	// so it does not leak into process listings.
	operatorSecret := os.Getenv("ZKID_OPERATOR_SECRET")
	if operatorSecret == "" {
		log.Fatalf("ZKID_OPERATOR_SECRET is not set")
	}
	if *artifactsDir != "" {
		circuits.BaseDir = *artifactsDir
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	prover, err := zkproof.NewProver(ctx, zkproof.DefaultArtifacts())
	cancel()
	if err != nil {
		log.Fatalf("failed to load circuit artifacts: %v", err)
	}

	eng, err := engine.New(engine.Config{
		Client:            soroban.NewClient(*rpcURL),
		Prover:            prover,
		OperatorSecret:    operatorSecret,
		ContractID:        *contractID,
		NetworkPassphrase: *passphrase,
		PollInterval:      *pollInterval,
		PollAttempts:      *pollAttempts,
	})
	if err != nil {
		log.Fatalf("failed to initialize engine: %v", err)
	}
	log.Infow("engine ready",
		"rpc", *rpcURL, "contract", eng.ContractID(), "operator", eng.OperatorAddress())

	if _, err := api.New(&api.APIConfig{
		Host:   *host,
		Port:   *port,
		Engine: eng,
	}); err != nil {
		log.Fatalf("failed to start API server: %v", err)
	}
	select {}
}
