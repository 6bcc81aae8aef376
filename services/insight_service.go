package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// InsightUnavailable is stored in place of the AI narrative whenever
// generation fails or no API key is configured.
const InsightUnavailable = "Insights unavailable"

const (
	defaultInsightModel = "claude-haiku-4-5-20251001"
	insightMaxTokens    = 300
	insightCallTimeout  = 15 * time.Second
)

// InsightService wraps the Anthropic client behind the one narrative the
// scoring pipeline needs.
type InsightService struct {
	client sdk.Client
	model  string
}

// NewInsightService returns nil when ANTHROPIC_API_KEY is not set; the
// pipeline treats a nil service as "insights disabled".
func NewInsightService() *InsightService {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil
	}
	model := os.Getenv("ANTHROPIC_MODEL")
	if model == "" {
		model = defaultInsightModel
	}
	return &InsightService{
		client: sdk.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// GenerateClientInsight asks for a short account-manager narrative about
// one client's computed health.
func (s *InsightService) GenerateClientInsight(ctx context.Context, clientName string, overallScore float64, healthStatus string, riskFactors []string) (string, error) {
	prompt := fmt.Sprintf(
		"You are a customer success analyst. Client %q has a health score of %.1f/100 (%s).",
		clientName, overallScore, healthStatus,
	)
	if len(riskFactors) > 0 {
		prompt += " Risk factors: " + strings.Join(riskFactors, "; ") + "."
	}
	prompt += " In 2-3 sentences, summarize the situation and suggest the single most impactful next action."

	callCtx, cancel := context.WithTimeout(ctx, insightCallTimeout)
	defer cancel()

	msg, err := s.client.Messages.New(callCtx, sdk.MessageNewParams{
		Model:     sdk.Model(s.model),
		MaxTokens: insightMaxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	var out strings.Builder
	for _, block := range msg.Content {
		out.WriteString(block.Text)
	}
	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", fmt.Errorf("empty insight response")
	}
	return text, nil
}
