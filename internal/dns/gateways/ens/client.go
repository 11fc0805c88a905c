// Package ens reads ENS text records over an Ethereum JSON-RPC endpoint.
package ens

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	goens "github.com/wealdtech/go-ens/v3"
	"github.com/wealdtech/go-ens/v3/contracts/registry"
	"github.com/wealdtech/go-ens/v3/contracts/resolver"

	"github.com/ethlimo/limo-web3-dns/internal/dns/common/log"
)

const defaultTimeout = 5 * time.Second

// registryAddress is the ENS registry deployment shared by mainnet and the
// public testnets.
var registryAddress = common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e")

var (
	// ErrNoResolver is returned when a name has no resolver contract.
	ErrNoResolver = errors.New("no ENS resolver")
	// ErrLookupTimeout is returned when a lookup outlives its deadline.
	ErrLookupTimeout = errors.New("ENS lookup timed out")

	ErrEndpointRequired = errors.New("RPC endpoint is required")
)

// textLookup resolves one text record. It must return once ctx is done.
type textLookup func(ctx context.Context, name, field string) (string, error)

// chainReader is the part of ethclient.Client used for chain metadata.
type chainReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	Close()
}

// ChainInfo describes the chain behind the endpoint.
type ChainInfo struct {
	ChainID   *big.Int
	Block     *big.Int
	BlockTime time.Time
}

// Options configures Dial.
type Options struct {
	Endpoint string
	// Timeout bounds each lookup when the caller's context has no deadline.
	Timeout time.Duration
	Logger  log.Logger
}

// Client resolves ENS text records.
type Client struct {
	chain   chainReader
	text    textLookup
	timeout time.Duration
	logger  log.Logger
}

// Dial connects to the JSON-RPC endpoint.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	if opts.Endpoint == "" {
		return nil, ErrEndpointRequired
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNoopLogger()
	}
	eth, err := ethclient.DialContext(ctx, opts.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", opts.Endpoint, err)
	}
	c := &Client{
		chain:   eth,
		timeout: opts.Timeout,
		logger:  opts.Logger,
	}
	reg, err := registry.NewContract(registryAddress, eth)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("failed to bind ENS registry: %w", err)
	}
	c.text = func(ctx context.Context, name, field string) (string, error) {
		return lookupText(ctx, eth, reg, name, field)
	}
	return c, nil
}

// ensureContextDeadline applies the client timeout when ctx has no deadline.
func (c *Client) ensureContextDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); !ok {
		return context.WithTimeout(ctx, c.timeout)
	}
	return ctx, nil
}

// lookupText reads the resolver of name from the registry, then the text
// record from that resolver. Both calls carry ctx.
func lookupText(ctx context.Context, backend bind.ContractBackend, reg *registry.Contract, name, field string) (string, error) {
	node, err := goens.NameHash(name)
	if err != nil {
		return "", fmt.Errorf("namehash %s: %w", name, err)
	}
	opts := &bind.CallOpts{Context: ctx}
	addr, err := reg.Resolver(opts, node)
	if err != nil {
		return "", fmt.Errorf("registry lookup for %s: %w", name, err)
	}
	if addr == (common.Address{}) {
		return "", fmt.Errorf("%w for %s", ErrNoResolver, name)
	}
	res, err := resolver.NewContract(addr, backend)
	if err != nil {
		return "", fmt.Errorf("bind resolver %s: %w", addr.Hex(), err)
	}
	return res.Text(opts, node, field)
}

// ResolveField returns the text record field of the ENS name. An unset
// record is returned as "" with no error. The lookup runs on the caller's
// goroutine and is abandoned when ctx or the client timeout expires.
func (c *Client) ResolveField(ctx context.Context, name, field string) (string, error) {
	ctx, cancel := c.ensureContextDeadline(ctx)
	if cancel != nil {
		defer cancel()
	}

	v, err := c.text(ctx, name, field)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%w: %s of %s: %v", ErrLookupTimeout, field, name, ctxErr)
		}
		return "", fmt.Errorf("resolve %s of %s: %w", field, name, err)
	}
	c.logger.Debug(map[string]any{"name": name, "field": field, "bytes": len(v)}, "ENS record resolved")
	return v, nil
}

// ChainInfo reports the chain id and the latest block.
func (c *Client) ChainInfo(ctx context.Context) (ChainInfo, error) {
	ctx, cancel := c.ensureContextDeadline(ctx)
	if cancel != nil {
		defer cancel()
	}
	id, err := c.chain.ChainID(ctx)
	if err != nil {
		return ChainInfo{}, fmt.Errorf("chain id: %w", err)
	}
	head, err := c.chain.HeaderByNumber(ctx, nil)
	if err != nil {
		return ChainInfo{}, fmt.Errorf("latest header: %w", err)
	}
	return ChainInfo{
		ChainID:   id,
		Block:     head.Number,
		BlockTime: time.Unix(int64(head.Time), 0).UTC(),
	}, nil
}

// Close releases the RPC connection.
func (c *Client) Close() {
	if c.chain != nil {
		c.chain.Close()
	}
}
