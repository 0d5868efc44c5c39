// Package gemini provides a client for the Google Gemini API
package gemini

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/genai"

	"github.com/finsightlab/finsight/internal/common"
	"github.com/finsightlab/finsight/internal/interfaces"
	"github.com/finsightlab/finsight/internal/models"
)

const DefaultModel = "gemini-3-flash-preview"

// Client implements the NarrativeClient interface
type Client struct {
	client *genai.Client
	model  string
	logger *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client: genaiClient,
		model:  DefaultModel,
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// GenerateContent generates AI content from a prompt
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug().Str("model", c.model).Msg("Generating content")

	contents := genai.Text(prompt)
	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(result)
}

// AnalyzeScenario generates a what-if narrative for a completed portfolio
// analysis. The prompt carries only computed numbers, never the user's raw
// input text.
func (c *Client) AnalyzeScenario(ctx context.Context, analysis *models.PortfolioAnalysis, scenario string) (string, error) {
	prompt := buildScenarioPrompt(analysis, scenario)
	return c.GenerateContent(ctx, prompt)
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	return text, nil
}

// buildScenarioPrompt creates a prompt describing the portfolio and the
// scenario to evaluate. Maps are emitted in sorted key order so the same
// analysis always produces the same prompt.
func buildScenarioPrompt(analysis *models.PortfolioAnalysis, scenario string) string {
	var sb strings.Builder

	sb.WriteString("You are a portfolio analyst. Evaluate the scenario below against this portfolio and describe the likely impact on value, concentration and sector exposure.\n\n")

	sb.WriteString("Portfolio:\n")
	fmt.Fprintf(&sb, "- Total value: %.2f\n", analysis.TotalValue)
	fmt.Fprintf(&sb, "- Concentration index (HHI): %.4f\n", analysis.ConcentrationIndex)
	if analysis.WeightedPE != nil {
		fmt.Fprintf(&sb, "- Weighted P/E: %.2f\n", *analysis.WeightedPE)
	}
	if analysis.WeightedDividendYield != nil {
		fmt.Fprintf(&sb, "- Weighted dividend yield: %.4f\n", *analysis.WeightedDividendYield)
	}

	sb.WriteString("\nHoldings:\n")
	for _, h := range analysis.Holdings {
		if h.FetchStatus != models.FetchOK {
			continue
		}
		fmt.Fprintf(&sb, "- %s (%s): quantity %.2f, market value %.2f, weight %.4f\n",
			h.CanonicalSymbol, h.Sector, h.Quantity, h.MarketValue, h.Weight)
	}

	sb.WriteString("\nSector allocation:\n")
	sectors := make([]string, 0, len(analysis.SectorAllocation))
	for sector := range analysis.SectorAllocation {
		sectors = append(sectors, sector)
	}
	sort.Strings(sectors)
	for _, sector := range sectors {
		fmt.Fprintf(&sb, "- %s: %.4f\n", sector, analysis.SectorAllocation[sector])
	}

	sb.WriteString("\nScenario: ")
	sb.WriteString(scenario)
	sb.WriteString("\n\nProvide your analysis in a concise, actionable format.")

	return sb.String()
}

// Ensure Client implements NarrativeClient
var _ interfaces.NarrativeClient = (*Client)(nil)
