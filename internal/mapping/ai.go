package mapping

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"sheetPush/internal/logger"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// MinConfidence is the lowest confidence a suggestion may carry.
const MinConfidence = 0.8

const (
	chunkThreshold = 100
	chunkSize      = 50
	noMatch        = "NO_MATCH"
)

// Suggestion is an AI-proposed source → target header pairing.
type Suggestion struct {
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	Confidence float64 `json:"confidence"`
}

// AIMapper proposes column mappings by header meaning using Gemini.
type AIMapper struct {
	client     *genai.Client
	generate   func(ctx context.Context, prompt string) (string, error)
	timeout    time.Duration
	chunkPause time.Duration
}

// NewAIMapper creates a Gemini-backed mapper.
func NewAIMapper(ctx context.Context, apiKey, modelName string) (*AIMapper, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		logger.Error("Failed to create Gemini client", "error", err)
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.1)
	logger.Info("AI mapper initialized", "model", modelName, "temperature", 0.1)

	return &AIMapper{
		client: client,
		generate: func(ctx context.Context, prompt string) (string, error) {
			resp, err := model.GenerateContent(ctx, genai.Text(prompt))
			if err != nil {
				return "", err
			}
			return responseText(resp)
		},
		timeout:    60 * time.Second,
		chunkPause: 2 * time.Second,
	}, nil
}

// Close releases the client.
func (ai *AIMapper) Close() error {
	if ai.client != nil {
		return ai.client.Close()
	}
	return nil
}

// Suggest maps source headers onto target headers. Only confident,
// known-target suggestions are returned, at most one per source header.
func (ai *AIMapper) Suggest(ctx context.Context, source, target []string) ([]Suggestion, error) {
	if len(source) == 0 || len(target) == 0 {
		return nil, fmt.Errorf("both source and target columns must be provided")
	}
	logger.Info("Generating AI column mappings", "source_count", len(source), "target_count", len(target))

	if len(source) <= chunkThreshold {
		return ai.suggestBatch(ctx, source, target)
	}

	var all []Suggestion
	totalChunks := (len(source) + chunkSize - 1) / chunkSize
	for i := 0; i < len(source); i += chunkSize {
		end := min(i+chunkSize, len(source))
		chunkNum := i/chunkSize + 1
		logger.Info("Processing chunk", "chunk", chunkNum, "total_chunks", totalChunks, "range", fmt.Sprintf("%d-%d", i+1, end))

		chunk, err := ai.suggestBatch(ctx, source[i:end], target)
		if err != nil {
			if ctx.Err() != nil {
				return all, ctx.Err()
			}
			logger.Error("Failed to process chunk", "chunk", chunkNum, "error", err)
			continue
		}
		all = append(all, chunk...)

		if chunkNum < totalChunks {
			select {
			case <-ctx.Done():
				return all, ctx.Err()
			case <-time.After(ai.chunkPause):
			}
		}
	}
	return all, nil
}

func (ai *AIMapper) suggestBatch(ctx context.Context, source, target []string) ([]Suggestion, error) {
	prompt := buildPrompt(source, target)
	logger.Debug("AI prompt", "length", len(prompt), "content", prompt)

	if ai.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ai.timeout)
		defer cancel()
	}

	started := time.Now()
	text, err := ai.generate(ctx, prompt)
	if err != nil {
		logger.Error("Gemini API request failed", "error", err, "duration", time.Since(started))
		return nil, fmt.Errorf("failed to generate AI response: %w", err)
	}
	logger.Info("Received response from Gemini API", "duration", time.Since(started), "length", len(text))
	logger.Debug("AI response", "content", text)

	return parseResponse(text, target), nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response generated from AI")
	}

	var b strings.Builder
	for i, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		} else {
			logger.Warn("Non-text part in response", "index", i, "type", fmt.Sprintf("%T", part))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no response generated from AI")
	}
	return b.String(), nil
}

func buildPrompt(source, target []string) string {
	var b strings.Builder
	b.WriteString(`You are an expert data analyst mapping the columns of an Excel sheet onto the columns of a Google Sheets worksheet.

TASK: Map each source column to the most appropriate target column, or mark it as "NO_MATCH" if uncertain.

SOURCE COLUMNS (Excel header row):
`)
	for _, col := range source {
		fmt.Fprintf(&b, "- %s\n", col)
	}
	b.WriteString("\nTARGET COLUMNS (Google Sheets header row):\n")
	for _, col := range target {
		fmt.Fprintf(&b, "- %s\n", col)
	}
	b.WriteString(`
INSTRUCTIONS:
1. Only suggest mappings you are confident about (>80% certainty)
2. Consider semantic meaning and language, not just text similarity
3. Map each source column to AT MOST ONE target column
4. Use target column names exactly as listed
5. If uncertain or no clear match exists, use "NO_MATCH"

OUTPUT FORMAT (one line per source column, no other text):
SourceColumn|TargetColumn|Confidence

EXAMPLES:
Customer Name|Name|0.95
Сумма|Amount|0.90
Random_Data|NO_MATCH|0.00

Now provide mappings for the source columns:`)
	return b.String()
}

// parseResponse keeps lines naming a listed target with enough confidence.
func parseResponse(response string, target []string) []Suggestion {
	known := make(map[string]string, len(target))
	for _, t := range target {
		known[strings.ToLower(strings.TrimSpace(t))] = t
	}

	var out []Suggestion
	seen := make(map[string]bool)
	skipped := 0
	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") || strings.HasPrefix(line, "SourceColumn|") {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) != 3 {
			skipped++
			continue
		}

		src := strings.TrimSpace(parts[0])
		dst := strings.TrimSpace(parts[1])
		var confidence float64
		if _, err := fmt.Sscanf(strings.TrimSpace(parts[2]), "%f", &confidence); err != nil {
			confidence = 0
		}

		canonical, ok := known[strings.ToLower(dst)]
		if dst == noMatch || !ok || confidence < MinConfidence || seen[src] {
			skipped++
			continue
		}
		seen[src] = true
		out = append(out, Suggestion{Source: src, Target: canonical, Confidence: confidence})
	}

	logger.Debug("AI response parsed", "suggestions", len(out), "skipped", skipped)
	return out
}

// APIKey returns GEMINI_API_KEY from the environment.
func APIKey() string {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		logger.Warn("GEMINI_API_KEY environment variable not set")
	}
	return apiKey
}
