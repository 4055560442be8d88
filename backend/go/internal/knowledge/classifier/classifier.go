package classifier

import (
	"Saber/backend/go/internal/llm"
	"Saber/backend/go/internal/models"
	"Saber/backend/go/pkg/circuitbreaker"
	"Saber/backend/go/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	// ErrServiceError is returned when the language model could not be reached or failed.
	ErrServiceError = errors.New("classification service error")
	// ErrMalformedResponse is returned when the model answered with something that is not a TaxonomyResult.
	ErrMalformedResponse = errors.New("malformed classification response")
)

// requiredFields must all be present at the top level of the model's JSON.
var requiredFields = []string{"keywords", "answerText", "classification", "taxonomicAnalysis"}

// Classifier turns a message into a taxonomic classification.
type Classifier interface {
	Classify(ctx context.Context, text string, sender Sender) (*models.TaxonomyResult, error)
}

// Config tunes an LLMClassifier.
type Config struct {
	LearnPrefix string
	// TrustLearningCommands forces certainty ALTA and store=true on learning commands.
	TrustLearningCommands bool
	// Breaker guards the model call. Nil disables it.
	Breaker circuitbreaker.CircuitBreaker
}

// LLMClassifier classifies messages through a language model.
type LLMClassifier struct {
	llm      llm.LLM
	cfg      Config
	fallback *FallbackExtractor
	log      *logger.Logger
}

// New creates a classifier backed by model.
func New(model llm.LLM, cfg Config, log *logger.Logger) *LLMClassifier {
	if log == nil {
		log = logger.Discard()
	}
	return &LLMClassifier{
		llm:      model,
		cfg:      cfg,
		fallback: NewFallbackExtractor(),
		log:      log,
	}
}

// IsLearningCommand reports whether text starts with the learning prefix.
func IsLearningCommand(text, prefix string) bool {
	return prefix != "" && strings.HasPrefix(strings.TrimLeftFunc(text, unicode.IsSpace), prefix)
}

// CommandBody returns the text after the learning prefix.
func CommandBody(text, prefix string) string {
	trimmed := strings.TrimLeftFunc(text, unicode.IsSpace)
	return strings.TrimSpace(strings.TrimPrefix(trimmed, prefix))
}

// Classify calls the model and parses its answer.
func (c *LLMClassifier) Classify(ctx context.Context, text string, sender Sender) (*models.TaxonomyResult, error) {
	learning := IsLearningCommand(text, c.cfg.LearnPrefix)

	req := &models.GenerateContentRequest{
		Content: []models.Content{
			{Role: models.SpeakerSystem, Parts: []*models.Part{{Text: systemPrompt}}},
			{Role: models.SpeakerUser, Parts: []*models.Part{{Text: buildPrompt(text, sender, learning)}}},
		},
		JSONOutput: true,
	}

	resp, err := c.generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceError, err)
	}

	result, err := Parse(resp.Text())
	if err != nil {
		return nil, err
	}

	if learning {
		c.applyLearningPolicy(result, CommandBody(text, c.cfg.LearnPrefix))
	}
	return result, nil
}

func (c *LLMClassifier) generate(ctx context.Context, req *models.GenerateContentRequest) (*models.GenerateContentResponse, error) {
	if c.cfg.Breaker == nil {
		return c.llm.GenerateContent(ctx, req)
	}
	out, err := c.cfg.Breaker.Execute(func() (interface{}, error) {
		return c.llm.GenerateContent(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return out.(*models.GenerateContentResponse), nil
}

// applyLearningPolicy fills empty learning commands with the deterministic
// extractor and, when trusted, marks every entry as certain.
func (c *LLMClassifier) applyLearningPolicy(result *models.TaxonomyResult, body string) {
	if len(result.Knowledge.Entries) == 0 {
		result.Knowledge.Entries = c.fallback.Extract(body)
		result.Knowledge.Store = true
		c.log.WithPayload(map[string]interface{}{
			"entries": len(result.Knowledge.Entries),
		}).Debug("classifier returned no entries, used fallback extractor")
	}
	if !c.cfg.TrustLearningCommands {
		return
	}
	result.Knowledge.Store = true
	for i := range result.Knowledge.Entries {
		result.Knowledge.Entries[i].Context.Certainty = models.CertaintyHigh
	}
}

// Parse decodes the model's answer into a TaxonomyResult.
func Parse(raw string) (*models.TaxonomyResult, error) {
	body := extractJSON(raw)
	if body == "" {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrMalformedResponse)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	for _, name := range requiredFields {
		if v, ok := fields[name]; !ok || string(v) == "null" {
			return nil, fmt.Errorf("%w: missing field %q", ErrMalformedResponse, name)
		}
	}

	var result models.TaxonomyResult
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &result, nil
}

// extractJSON strips code fences and surrounding prose.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
