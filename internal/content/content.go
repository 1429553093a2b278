// Package content drafts application emails and cover letters from a resume record and a posting.
// Drafting goes through the text generator; when it is unavailable or fails, a deterministic
// template built from the same data is returned instead.
package content

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/internship-assistant/internal/prompts"
	"github.com/jonathan/internship-assistant/internal/types"
)

// Token limits per draft kind.
const (
	EmailMaxTokens       = 800
	CoverLetterMaxTokens = 1200
)

// Description excerpts sent to the generator.
const (
	emailDescriptionChars  = 800
	letterDescriptionChars = 1000
)

var (
	// ErrInsufficientResume means fewer than two of education, experience, skills and projects are filled in.
	ErrInsufficientResume = errors.New("resume needs at least two of education, experience, skills or projects")
	// ErrNoGenerator means no text generator is configured.
	ErrNoGenerator = errors.New("no text generator configured")
	// ErrEmptyDraft means the generator returned only whitespace.
	ErrEmptyDraft = errors.New("generator returned empty text")
)

// Kind is the type of document drafted.
type Kind string

// Draft kinds.
const (
	KindEmail       Kind = "email"
	KindCoverLetter Kind = "cover_letter"
)

// ParseKind accepts "email", "cover_letter" or "cover-letter".
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "email":
		return KindEmail, true
	case "cover_letter", "cover-letter", "letter":
		return KindCoverLetter, true
	default:
		return "", false
	}
}

// TextGenerator produces text for a prompt. llm.Client satisfies it.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Draft is a generated document.
type Draft struct {
	Kind           Kind   `json:"kind"`
	Text           string `json:"text"`
	UsedFallback   bool   `json:"used_fallback"`
	FallbackReason string `json:"fallback_reason,omitempty"`
}

// Request carries the inputs of one draft.
type Request struct {
	Resume     types.ResumeRecord
	Posting    types.RawPosting
	Additional string
}

// Generator drafts application content.
type Generator struct {
	llm    TextGenerator
	logger *zap.Logger
	now    func() time.Time
}

// NewGenerator returns a Generator. llm may be nil, in which case every draft uses the fallback template.
func NewGenerator(llm TextGenerator, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{llm: llm, logger: logger, now: time.Now}
}

// HasSufficientResumeData reports whether at least two of education, experience, skills and
// projects are present.
func HasSufficientResumeData(r types.ResumeRecord) bool {
	count := 0
	for _, present := range []bool{
		len(r.Education) > 0,
		len(r.ProfessionalExperience) > 0,
		len(r.Skills) > 0,
		len(r.Projects) > 0,
	} {
		if present {
			count++
		}
	}
	return count >= 2
}

// Draft dispatches on kind.
func (g *Generator) Draft(ctx context.Context, kind Kind, req Request) Draft {
	if kind == KindCoverLetter {
		return g.CoverLetter(ctx, req)
	}
	return g.Email(ctx, req)
}

// Email drafts an application email.
func (g *Generator) Email(ctx context.Context, req Request) Draft {
	text, err := g.generate(ctx, req, "email", emailPromptData(req), EmailMaxTokens)
	if err != nil {
		g.logFallback(KindEmail, req, err)
		return Draft{Kind: KindEmail, Text: fallbackEmail(req), UsedFallback: true, FallbackReason: err.Error()}
	}
	return Draft{Kind: KindEmail, Text: withEmailSignature(text, req.Resume.PersonalInformation)}
}

// CoverLetter drafts a cover letter.
func (g *Generator) CoverLetter(ctx context.Context, req Request) Draft {
	text, err := g.generate(ctx, req, "cover-letter", letterPromptData(req), CoverLetterMaxTokens)
	if err != nil {
		g.logFallback(KindCoverLetter, req, err)
		return Draft{Kind: KindCoverLetter, Text: fallbackCoverLetter(req, g.now()), UsedFallback: true, FallbackReason: err.Error()}
	}
	return Draft{Kind: KindCoverLetter, Text: withLetterFrame(text, req.Resume.PersonalInformation, g.now())}
}

func (g *Generator) generate(ctx context.Context, req Request, key string, data map[string]string, maxTokens int) (string, error) {
	if !HasSufficientResumeData(req.Resume) {
		return "", ErrInsufficientResume
	}
	if g.llm == nil {
		return "", ErrNoGenerator
	}

	system, err := prompts.Get(prompts.Drafting, "system")
	if err != nil {
		return "", err
	}
	body, err := prompts.Render(prompts.Drafting, key, data)
	if err != nil {
		return "", err
	}

	text, err := g.llm.Generate(ctx, system+"\n\n"+body, maxTokens)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyDraft
	}
	return text, nil
}

func (g *Generator) logFallback(kind Kind, req Request, err error) {
	g.logger.Info("using fallback template",
		zap.String("kind", string(kind)),
		zap.String("job_title", req.Posting.Title),
		zap.String("company", req.Posting.Company),
		zap.Error(err),
	)
}
