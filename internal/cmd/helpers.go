package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/dotandev/rltmarket/internal/config"
	"github.com/dotandev/rltmarket/internal/logger"
	"github.com/dotandev/rltmarket/internal/market"
	"github.com/dotandev/rltmarket/internal/sorobanrpc"
	"github.com/dotandev/rltmarket/internal/telemetry"
	"github.com/dotandev/rltmarket/internal/txpipe"
)

// secretKeyEnv is the fallback for the --secret-key flag.
const secretKeyEnv = "RLTMARKET_SECRET_KEY"

func resolveNetwork() (config.Network, error) {
	net, err := config.Resolve(networkName)
	if err != nil {
		return config.Network{}, err
	}
	if rpcURL != "" {
		net.RPCURL = rpcURL
	}
	return net, nil
}

// newRPCClient builds the RPC client and warns when the server is older
// than the supported minimum. A version mismatch never blocks the command.
func newRPCClient(ctx context.Context, net config.Network) *sorobanrpc.Client {
	client := sorobanrpc.NewClient(net.RPCURL)
	if err := client.CheckVersion(ctx, sorobanrpc.MinServerVersion); err != nil {
		logger.Logger.Warn("rpc server version check failed", "error", err)
	}
	return client
}

// buildMarket assembles the domain operations. signer may be nil for
// read-only commands; state-changing operations then cannot be called.
func buildMarket(ctx context.Context, signer txpipe.Signer) (*market.Market, config.Network, error) {
	net, err := resolveNetwork()
	if err != nil {
		return nil, config.Network{}, err
	}
	client := newRPCClient(ctx, net)
	query := txpipe.NewQueryExecutor(client)

	var invoker market.Invoker
	if signer != nil {
		invoker = txpipe.NewInvokeExecutor(client, signer, net.Passphrase)
	}
	return market.New(query, invoker, market.DefaultContracts()), net, nil
}

// loadSigner parses the secret key from the flag or environment.
func loadSigner(secretKey string) (*txpipe.KeypairSigner, error) {
	if secretKey == "" {
		secretKey = os.Getenv(secretKeyEnv)
	}
	if secretKey == "" {
		return nil, fmt.Errorf("a secret key is required (use --secret-key or %s)", secretKeyEnv)
	}
	return txpipe.NewKeypairSigner(secretKey)
}

// setupTracing installs the exporter when --trace is set. The returned
// function is always safe to defer.
func setupTracing(ctx context.Context) func() {
	if !enableTrace {
		return func() {}
	}
	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		logger.Logger.Warn("tracing disabled", "error", err)
		return func() {}
	}
	return func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Logger.Warn("trace shutdown failed", "error", err)
		}
	}
}
