package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"liquidity-ticker/internal/domain"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const defiLlamaBaseURL = "https://api.llama.fi"

// DefaultProtocolIndices are the positions in the /protocols list used when
// no protocol slugs are configured.
var DefaultProtocolIndices = []int{28, 42, 88}

// DefiLlamaProvider fetches protocol liquidity data from the DefiLlama API.
type DefiLlamaProvider struct {
	client    *http.Client
	baseURL   string
	tracer    trace.Tracer
	protocols []string
	indices   []int
	limiter   *RateLimiter
}

// NewDefiLlamaProvider selects entries by slug (or name) when protocols is
// non-empty, otherwise by DefaultProtocolIndices.
func NewDefiLlamaProvider(tracer trace.Tracer, baseURL string, protocols []string) *DefiLlamaProvider {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = defiLlamaBaseURL
	}
	return &DefiLlamaProvider{
		client:    &http.Client{Timeout: 15 * time.Second},
		baseURL:   strings.TrimRight(baseURL, "/"),
		tracer:    tracer,
		protocols: protocols,
		indices:   DefaultProtocolIndices,
		limiter:   NewRateLimiter(30, 2*time.Second),
	}
}

// FetchLiquidity returns one LiquiditySample per selected protocol.
func (p *DefiLlamaProvider) FetchLiquidity(ctx context.Context) ([]domain.LiquiditySample, error) {
	ctx, span := p.tracer.Start(ctx, "defillama.fetch-liquidity")
	defer span.End()

	body, err := p.doRequest(ctx, p.baseURL+"/protocols")
	if err != nil {
		span.RecordError(err)
		return nil, domain.DataUnavailable(domain.SourceDefiLlama, fmt.Errorf("fetch protocols: %w", err))
	}

	if !gjson.ValidBytes(body) {
		return nil, domain.DataUnavailable(domain.SourceDefiLlama, errors.New("parse protocols: invalid JSON"))
	}
	list := gjson.ParseBytes(body)
	if !list.IsArray() {
		return nil, domain.DataUnavailable(domain.SourceDefiLlama, errors.New("parse protocols: expected array"))
	}

	entries, err := p.selectEntries(list.Array())
	if err != nil {
		span.RecordError(err)
		return nil, domain.DataUnavailable(domain.SourceDefiLlama, err)
	}

	samples := make([]domain.LiquiditySample, 0, len(entries))
	for _, entry := range entries {
		sample, err := normalizeProtocol(entry)
		if err != nil {
			span.RecordError(err)
			return nil, domain.DataUnavailable(domain.SourceDefiLlama, err)
		}
		samples = append(samples, sample)
	}

	span.SetAttributes(attribute.Int("defillama.samples", len(samples)))
	return samples, nil
}

func (p *DefiLlamaProvider) selectEntries(all []gjson.Result) ([]gjson.Result, error) {
	if len(p.protocols) == 0 {
		selected := make([]gjson.Result, 0, len(p.indices))
		for _, idx := range p.indices {
			if idx < 0 || idx >= len(all) {
				return nil, fmt.Errorf("protocol index %d out of range (%d protocols)", idx, len(all))
			}
			selected = append(selected, all[idx])
		}
		return selected, nil
	}

	selected := make([]gjson.Result, 0, len(p.protocols))
	for _, want := range p.protocols {
		found := false
		for _, entry := range all {
			if strings.EqualFold(entry.Get("slug").String(), want) || strings.EqualFold(entry.Get("name").String(), want) {
				selected = append(selected, entry)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("protocol %q not found", want)
		}
	}
	return selected, nil
}

// normalizeProtocol maps a /protocols entry to a LiquiditySample. Zero and
// absent values fall through: apy -> change_1d -> "N/A".
func normalizeProtocol(entry gjson.Result) (domain.LiquiditySample, error) {
	name := strings.TrimSpace(entry.Get("name").String())
	if name == "" {
		return domain.LiquiditySample{}, errors.New("protocol entry missing name")
	}

	apy := domain.UnavailableAPY()
	if v := entry.Get("apy").Float(); v != 0 {
		apy = domain.NewAPY(v)
	} else if v := entry.Get("change_1d").Float(); v != 0 {
		apy = domain.NewAPY(v)
	}

	return domain.LiquiditySample{
		Name:       name,
		APY:        apy,
		Volatility: entry.Get("change_7d").Float(),
		TVL:        entry.Get("tvl").Float(),
	}, nil
}

func (p *DefiLlamaProvider) doRequest(ctx context.Context, url string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("defillama API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
