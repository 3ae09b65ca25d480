// Package config holds network presets and the deployed contract identifiers
// the marketplace talks to. Values are externally supplied constants; the
// defaults match the futurenet deployment.
package config

import (
	"fmt"
	"time"

	"github.com/stellar/go/network"
)

// Futurenet deployment.
const (
	TokenContractID       = "CDWXMXFIAC5VLA744OGHOQDXDLXLQE2WQCUWUWYJQI2S4O46NEMJXWIC"
	RoyaltyCoreContractID = "CB3QTLZHBKZEXJ2JIVHGBJ5VVONNMZBYTB7EU44D77M6A2IWMVZC2SML"
	RouterContractID      = "CABKGM4RZOOMQVQBVVCDWN6QWZ66OF4BFL6SNW7IN5MZQUU4TXGRQGBW"
)

// SimulationAccount is the zero account used as the source for unauthenticated
// read-only queries when no wallet address is supplied.
const SimulationAccount = "GAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAWHF"

const (
	// TxTimeout bounds transaction validity.
	TxTimeout = 30 * time.Second
	// PollInterval is the delay between finality polls.
	PollInterval = time.Second
	// PollDeadline bounds the whole polling phase.
	PollDeadline = 60 * time.Second
	// AllowanceExpirationLedgers is the expiration-ledger offset passed to
	// the token contract's approve method.
	AllowanceExpirationLedgers = 3_000_000
)

// Network bundles the RPC endpoint and passphrase for one Stellar network.
type Network struct {
	Name       string
	RPCURL     string
	Passphrase string
}

// Resolve returns the preset for the named network.
func Resolve(name string) (Network, error) {
	switch name {
	case "futurenet":
		return Network{
			Name:       name,
			RPCURL:     "https://rpc-futurenet.stellar.org",
			Passphrase: network.FutureNetworkPassphrase,
		}, nil
	case "testnet":
		return Network{
			Name:       name,
			RPCURL:     "https://soroban-testnet.stellar.org",
			Passphrase: network.TestNetworkPassphrase,
		}, nil
	case "mainnet", "public":
		return Network{
			Name:       name,
			RPCURL:     "https://soroban-rpc.stellar.org",
			Passphrase: network.PublicNetworkPassphrase,
		}, nil
	default:
		return Network{}, fmt.Errorf("unsupported network: %s (use 'futurenet', 'testnet' or 'mainnet')", name)
	}
}
