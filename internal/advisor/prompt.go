package advisor

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"liquidity-ticker/internal/domain"
)

// DefaultPromptTemplate is the liquidity optimization prompt. Alternative
// wordings are supplied as templates over the same fields.
const DefaultPromptTemplate = `Analyze the user's DeFi portfolio and provide a liquidity optimization strategy.

User Data:
- ETH price: ${{num .EthPrice}}
- ETH price change (24h): {{num .EthPriceChange}}%
- Gas Price: {{num .GasPrice}} Gwei
- Liquidity Data:
{{- range .Liquidity}}
  {{line .}}
{{- end}}

Provide a recommendation based on the following categories:
1. **Optimal APY** (the best protocol for liquidity based on current data)
2. **Potential Gain** (percent return based on current APY and TVL)
3. **Risk Level** (Low, Medium, High)
4. **Confidence** (percentage confidence in the recommendation)

Please suggest one of the following actions:
- **Rebalance** (suggest a specific protocol and how much to move)
- **No action** (Optimal portfolio, keep current allocations)
- **Adjust Range** (adjust the liquidity range for risk/return balance)`

var promptFuncs = template.FuncMap{
	"num":  func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
	"line": FormatLiquidityLine,
}

var defaultBuilder = MustPromptBuilder(DefaultPromptTemplate)

type promptData struct {
	EthPrice       float64
	EthPriceChange float64
	GasPrice       float64
	Liquidity      []domain.LiquiditySample
}

// PromptBuilder renders market data into the text sent to the generator.
type PromptBuilder struct {
	tmpl *template.Template
}

// NewPromptBuilder parses text as a prompt template. Empty text selects
// DefaultPromptTemplate.
func NewPromptBuilder(text string) (*PromptBuilder, error) {
	if strings.TrimSpace(text) == "" {
		text = DefaultPromptTemplate
	}
	tmpl, err := template.New("prompt").Funcs(promptFuncs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse prompt template: %w", err)
	}
	return &PromptBuilder{tmpl: tmpl}, nil
}

func MustPromptBuilder(text string) *PromptBuilder {
	b, err := NewPromptBuilder(text)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *PromptBuilder) Build(snapshot domain.MarketSnapshot, samples []domain.LiquiditySample) (string, error) {
	var sb strings.Builder
	err := b.tmpl.Execute(&sb, promptData{
		EthPrice:       snapshot.EthPrice,
		EthPriceChange: snapshot.EthPriceChange,
		GasPrice:       snapshot.GasPrice,
		Liquidity:      samples,
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return sb.String(), nil
}

// BuildPrompt renders the default prompt.
func BuildPrompt(snapshot domain.MarketSnapshot, samples []domain.LiquiditySample) string {
	prompt, err := defaultBuilder.Build(snapshot, samples)
	if err != nil {
		// The default template only references promptData fields.
		panic(err)
	}
	return prompt
}

// FormatLiquidityLine is the per-protocol line embedded in every prompt.
func FormatLiquidityLine(sample domain.LiquiditySample) string {
	return fmt.Sprintf("%s - Current APY: %s%%", sample.Name, sample.APY)
}
