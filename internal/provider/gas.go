package provider

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"liquidity-ticker/internal/domain"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const alchemyBaseURL = "https://eth-mainnet.alchemyapi.io/v2/"

var weiPerGwei = big.NewFloat(1e9)

// GasProvider reads the current gas price over Ethereum JSON-RPC.
type GasProvider struct {
	client *http.Client
	rpcURL string
	tracer trace.Tracer
}

// NewGasProvider targets rpcURL when set, otherwise the Alchemy mainnet
// endpoint for apiKey. A missing key is not an error here; calls will fail.
func NewGasProvider(tracer trace.Tracer, apiKey, rpcURL string) *GasProvider {
	rpcURL = strings.TrimSpace(rpcURL)
	if rpcURL == "" {
		rpcURL = alchemyBaseURL + apiKey
	}
	return &GasProvider{
		client: &http.Client{Timeout: 15 * time.Second},
		rpcURL: rpcURL,
		tracer: tracer,
	}
}

// FetchGasPrice returns the gas price in Gwei.
func (p *GasProvider) FetchGasPrice(ctx context.Context) (float64, error) {
	ctx, span := p.tracer.Start(ctx, "gas.fetch-gas-price")
	defer span.End()

	client, err := rpc.DialOptions(ctx, p.rpcURL, rpc.WithHTTPClient(p.client))
	if err != nil {
		span.RecordError(err)
		return 0, domain.DataUnavailable(domain.SourceGas, fmt.Errorf("dial rpc: %w", err))
	}
	defer client.Close()

	var hexWei string
	if err := client.CallContext(ctx, &hexWei, "eth_gasPrice"); err != nil {
		span.RecordError(err)
		return 0, domain.DataUnavailable(domain.SourceGas, fmt.Errorf("eth_gasPrice: %w", err))
	}

	gwei, err := WeiHexToGwei(hexWei)
	if err != nil {
		span.RecordError(err)
		return 0, domain.DataUnavailable(domain.SourceGas, err)
	}
	span.SetAttributes(attribute.Float64("gas.gwei", gwei))
	return gwei, nil
}

// WeiHexToGwei converts a 0x-prefixed hex Wei quantity to Gwei.
func WeiHexToGwei(hexWei string) (float64, error) {
	wei, err := hexutil.DecodeBig(strings.TrimSpace(hexWei))
	if err != nil {
		return 0, fmt.Errorf("decode wei %q: %w", hexWei, err)
	}
	gwei, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), weiPerGwei).Float64()
	return gwei, nil
}
