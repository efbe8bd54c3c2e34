package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/sashabaranov/go-openai"

	"finance-backend/internal/models"
)

// TransactionInput is the classifier's view of one uncategorized transaction.
type TransactionInput struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	TxnType     string  `json:"txn_type"`
	TxnDate     string  `json:"txn_date"`
}

// Suggestion is one classification result. Category must be one of the
// allowed names or empty when the model declines to classify.
type Suggestion struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
}

// Classifier assigns category names to transactions in bulk.
type Classifier interface {
	ClassifyBatch(ctx context.Context, txns []TransactionInput, allowedCategories []string) ([]Suggestion, error)
}

// OpenAIClassifier implements Classifier against the OpenAI chat completion API.
type OpenAIClassifier struct {
	client *openai.Client
	model  string
}

func NewOpenAIClassifier(apiKey string) *OpenAIClassifier {
	return &OpenAIClassifier{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4oMini,
	}
}

// ClassifyBatch sends the batch to the model in a single request. Any
// transport or parse failure is reported as models.ErrClassifierUnavailable
// so callers can surface a retryable error without partial writes.
func (c *OpenAIClassifier) ClassifyBatch(ctx context.Context, txns []TransactionInput, allowedCategories []string) ([]Suggestion, error) {
	if len(txns) == 0 {
		return nil, nil
	}

	txnJSON, err := json.MarshalIndent(txns, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal transactions: %w", err)
	}

	prompt := fmt.Sprintf(`Classify each bank transaction into exactly one of the allowed categories.

ALLOWED CATEGORIES:
%s

TRANSACTIONS:
%s

Rules:
1. Use only category names from the allowed list, spelled exactly as given.
2. If no category clearly fits, use an empty string.
3. Respond with a JSON array only, one object per transaction, in this format:
[{"id": 1, "category": "Fuel"}]`, strings.Join(allowedCategories, "\n"), string(txnJSON))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.1,
		MaxTokens:   2000,
	})
	if err != nil {
		log.Printf("[Classifier] request failed: %v", err)
		return nil, fmt.Errorf("%w: %v", models.ErrClassifierUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty response", models.ErrClassifierUnavailable)
	}

	cleaned := stripMarkdownFences(resp.Choices[0].Message.Content)

	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(cleaned), &suggestions); err != nil {
		log.Printf("[Classifier] unparseable response: %.200s", cleaned)
		return nil, fmt.Errorf("%w: bad response format: %v", models.ErrClassifierUnavailable, err)
	}
	return suggestions, nil
}

// stripMarkdownFences removes ```json code fences the model sometimes wraps
// its output in.
func stripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSuffix(s, "```")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
