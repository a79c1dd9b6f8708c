package assistant

import (
	"context"
	"strings"
	"unicode/utf8"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/fairpay/award-engine/catalog"
	"github.com/fairpay/award-engine/ingest"
)

const (
	DefaultModel = "gemini-2.5-flash"

	// MaxDocumentChars is the default bound on text documents sent for
	// extraction.
	MaxDocumentChars = 15000

	fallbackAnswer = "I couldn't generate a response."
)

// generator is the part of *genai.Models the assistant uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini implements Service on the Gemini API.
type Gemini struct {
	models   generator
	model    string
	maxChars int
	logger   *zap.Logger
}

type GeminiConfig struct {
	APIKey           string
	Model            string
	MaxDocumentChars int
}

// NewGemini connects to the Gemini API. An empty key returns ErrNotConfigured.
func NewGemini(ctx context.Context, cfg GeminiConfig, logger *zap.Logger) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &UpstreamError{Op: "connect", Err: err}
	}
	g := newGemini(client.Models, cfg.Model, logger)
	if cfg.MaxDocumentChars > 0 {
		g.maxChars = cfg.MaxDocumentChars
	}
	return g, nil
}

func newGemini(models generator, model string, logger *zap.Logger) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gemini{models: models, model: model, maxChars: MaxDocumentChars, logger: logger}
}

// =============================================================================
// OPERATIONS
// =============================================================================

func (g *Gemini) MatchAward(ctx context.Context, q JobQuery) (MatchResult, error) {
	resp, err := g.generate(ctx, "match award", userText(matchPrompt(q)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   matchSchema,
		Temperature:      genai.Ptr[float32](0.1),
	})
	if err != nil {
		return MatchResult{}, err
	}
	return parseMatches(resp.Text())
}

func parseMatches(text string) (MatchResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return MatchResult{}, &UpstreamError{Op: "match award", Err: ErrEmptyResponse}
	}
	var res MatchResult
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		return MatchResult{}, &UpstreamError{Op: "match award", Err: err}
	}
	return res.Normalize(), nil
}

// FindDocuments runs a grounded web search. Each web source becomes a
// search-sourced document.
func (g *Gemini) FindDocuments(ctx context.Context, query string) ([]catalog.Document, error) {
	resp, err := g.generate(ctx, "find documents", userText(searchPrompt(query)), &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	})
	if err != nil {
		return nil, err
	}
	return groundedDocuments(resp), nil
}

func groundedDocuments(resp *genai.GenerateContentResponse) []catalog.Document {
	var docs []catalog.Document
	for _, c := range resp.Candidates {
		if c == nil || c.GroundingMetadata == nil {
			continue
		}
		for _, chunk := range c.GroundingMetadata.GroundingChunks {
			if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
				continue
			}
			title := chunk.Web.Title
			if title == "" {
				title = "Official Document"
			}
			docs = append(docs, catalog.Document{
				Title:       title,
				URL:         chunk.Web.URI,
				Description: "Found via Google Search",
				Source:      catalog.SourceSearch,
			})
		}
	}
	return catalog.DedupeByURL(docs)
}

// Ask answers a free-text question. An empty reply becomes a fixed
// fallback sentence rather than an error.
func (g *Gemini) Ask(ctx context.Context, q Question) (string, error) {
	resp, err := g.generate(ctx, "ask", userText(askPrompt(q)), nil)
	if err != nil {
		return "", err
	}
	if text := strings.TrimSpace(resp.Text()); text != "" {
		return text, nil
	}
	return fallbackAnswer, nil
}

// ExtractAward returns award JSON for ingest.Parser. Text documents are
// truncated to the configured limit; anything else is sent inline as bytes.
func (g *Gemini) ExtractAward(ctx context.Context, doc ingest.Document) ([]byte, error) {
	parts := []*genai.Part{genai.NewPartFromText(extractInstruction)}
	if doc.IsText() {
		text := truncate(string(doc.Data), g.maxChars)
		parts = append(parts, genai.NewPartFromText("Document content:\n"+text))
	} else {
		parts = append(parts, genai.NewPartFromBytes(doc.Data, doc.MIMEType))
	}

	resp, err := g.generate(ctx, "extract award", []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   awardSchema,
	})
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, &UpstreamError{Op: "extract award", Err: ErrEmptyResponse}
	}
	return []byte(text), nil
}

func (g *Gemini) generate(ctx context.Context, op string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		g.logger.Warn("gemini call failed", zap.String("op", op), zap.Error(err))
		return nil, &UpstreamError{Op: op, Err: err}
	}
	if resp == nil {
		return nil, &UpstreamError{Op: op, Err: ErrEmptyResponse}
	}
	return resp, nil
}

// truncate cuts s to at most n characters.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func userText(text string) []*genai.Content {
	return []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}
}

// =============================================================================
// RESPONSE SCHEMAS
// =============================================================================

var matchSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"matches": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"awardCode":               {Type: genai.TypeString},
					"awardName":               {Type: genai.TypeString},
					"confidence":              {Type: genai.TypeNumber, Description: "Confidence score 0-100"},
					"reasoning":               {Type: genai.TypeString},
					"suggestedClassification": {Type: genai.TypeString},
				},
				Required: []string{"awardCode", "awardName", "confidence", "reasoning", "suggestedClassification"},
			},
		},
	},
}

var awardSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"code":     {Type: genai.TypeString, Description: "e.g. MA000004"},
		"name":     {Type: genai.TypeString},
		"industry": {Type: genai.TypeString},
		"penaltyRates": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"saturday":      {Type: genai.TypeNumber},
				"sunday":        {Type: genai.TypeNumber},
				"publicHoliday": {Type: genai.TypeNumber},
				"overtime":      {Type: genai.TypeNumber},
				"nightShift":    {Type: genai.TypeNumber},
			},
			Required: []string{"saturday", "sunday", "publicHoliday", "overtime", "nightShift"},
		},
		"classifications": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id":            {Type: genai.TypeString},
					"title":         {Type: genai.TypeString},
					"baseRate":      {Type: genai.TypeNumber},
					"casualLoading": {Type: genai.TypeNumber, Description: "Usually 0.25"},
					"description":   {Type: genai.TypeString},
				},
				Required: []string{"id", "title", "baseRate", "casualLoading"},
			},
		},
		"allowances": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":   {Type: genai.TypeString},
					"amount": {Type: genai.TypeNumber},
				},
				Required: []string{"name", "amount"},
			},
		},
	},
	Required: []string{"code", "name", "industry", "penaltyRates", "classifications", "allowances"},
}
