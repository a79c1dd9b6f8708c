/*
Package assistant is the contract with the AI collaborator.

PURPOSE:

	Matching a job to an award, searching for official pay guides,
	answering free-text questions and extracting award rules from a
	document are all delegated to a generative model. None of it is
	deterministic; this package only fixes the shapes that come back.

OPERATIONS:
  - MatchAward:    job details -> ranked award matches
  - FindDocuments: query -> pay guide links (deduplicated by URL)
  - Ask:           question + loaded awards -> answer text
  - ExtractAward:  pay guide (text or PDF) -> award JSON for ingest.Parser

FAILURES:

	Every call failure is an *UpstreamError naming the operation.
	ErrNotConfigured means no API key was given. Neither ever touches the
	registry; the caller decides what to report.

SEE ALSO:
  - gemini.go: google.golang.org/genai implementation
  - prompts.go: Prompt text and the knowledge base summary
*/
package assistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/fairpay/award-engine/award"
	"github.com/fairpay/award-engine/catalog"
	"github.com/fairpay/award-engine/ingest"
)

// Service is implemented by Gemini and by test fakes.
type Service interface {
	MatchAward(ctx context.Context, q JobQuery) (MatchResult, error)
	FindDocuments(ctx context.Context, query string) ([]catalog.Document, error)
	Ask(ctx context.Context, q Question) (string, error)
	ExtractAward(ctx context.Context, doc ingest.Document) ([]byte, error)
}

// Compile-time check that Service can feed the ingestion queue.
var _ ingest.Extractor = Service(nil)

// =============================================================================
// REQUEST / RESULT SHAPES
// =============================================================================

type JobQuery struct {
	Title       string `json:"jobTitle"`
	Description string `json:"jobDescription"`
	Industry    string `json:"industry"`
}

// Match is one candidate award. Confidence is 0-100.
type Match struct {
	AwardCode               string  `json:"awardCode"`
	AwardName               string  `json:"awardName"`
	Confidence              float64 `json:"confidence"`
	Reasoning               string  `json:"reasoning"`
	SuggestedClassification string  `json:"suggestedClassification"`
}

type MatchResult struct {
	Matches []Match `json:"matches"`
}

// MaxMatches is how many matches are requested and kept.
const MaxMatches = 3

// Normalize clamps confidences into [0,100] and keeps at most MaxMatches.
func (r MatchResult) Normalize() MatchResult {
	out := MatchResult{Matches: make([]Match, 0, len(r.Matches))}
	for _, m := range r.Matches {
		if len(out.Matches) == MaxMatches {
			break
		}
		switch {
		case m.Confidence < 0:
			m.Confidence = 0
		case m.Confidence > 100:
			m.Confidence = 100
		}
		out.Matches = append(out.Matches, m)
	}
	return out
}

// Question is a free-text question with the awards currently loaded.
type Question struct {
	Text          string
	KnowledgeBase []award.Award
	Context       string
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNotConfigured = errors.New("AI service not configured")
	ErrEmptyResponse = errors.New("empty response from AI service")
)

// UpstreamError wraps a failed collaborator call.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsUpstream reports whether err came from the collaborator.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
