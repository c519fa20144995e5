// Package engine composes scoring, keyword extraction, skill matching and
// suggestion generation behind a small facade. An Engine is immutable after
// New and safe for concurrent use.
package engine

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"resume-builder/resume/keywords"
	"resume-builder/resume/model"
	"resume-builder/resume/scoring"
	"resume-builder/resume/skills"
	"resume-builder/resume/suggestions"
)

var (
	// ErrInvalidInput is returned for a malformed resume or job description.
	ErrInvalidInput = model.ErrInvalidInput
	// ErrInvalidConfig is returned by New for unusable options.
	ErrInvalidConfig = errors.New("invalid engine config")
)

// Config holds engine options.
type Config struct {
	Taxonomy       keywords.Taxonomy
	MaxSuggestions int
	MatchMode      keywords.MatchMode
}

// Engine scores resumes and matches them against job descriptions.
type Engine struct {
	taxonomy       keywords.Taxonomy
	maxSuggestions int
	mode           keywords.MatchMode
}

// Optimization is the result of matching a resume against a job description.
type Optimization struct {
	SuggestedSkills []string `json:"suggestedSkills"`
	Suggestions     []string `json:"suggestions"`
	Keywords        []string `json:"keywords"`
	MatchedSkills   []string `json:"matchedSkills"`
	MatchRatio      float64  `json:"matchRatio"`
}

// New validates cfg and builds an Engine. MaxSuggestions defaults to 3 and
// MatchMode to substring matching.
func New(cfg Config) (*Engine, error) {
	if cfg.Taxonomy.Len() == 0 {
		return nil, fmt.Errorf("%w: taxonomy is required", ErrInvalidConfig)
	}
	if cfg.MaxSuggestions < 0 {
		return nil, fmt.Errorf("%w: maxSuggestions must not be negative", ErrInvalidConfig)
	}
	maxSuggestions := cfg.MaxSuggestions
	if maxSuggestions == 0 {
		maxSuggestions = suggestions.DefaultMax
	}
	mode := cfg.MatchMode
	switch mode {
	case "":
		mode = keywords.MatchSubstring
	case keywords.MatchSubstring, keywords.MatchWord:
	default:
		return nil, fmt.Errorf("%w: unknown match mode %q", ErrInvalidConfig, mode)
	}
	return &Engine{
		taxonomy:       keywords.FromTerms(cfg.Taxonomy.Terms()),
		maxSuggestions: maxSuggestions,
		mode:           mode,
	}, nil
}

// Taxonomy returns the configured taxonomy.
func (e *Engine) Taxonomy() keywords.Taxonomy {
	return keywords.FromTerms(e.taxonomy.Terms())
}

// MaxSuggestions returns the configured suggestion cap.
func (e *Engine) MaxSuggestions() int {
	return e.maxSuggestions
}

// Score returns the completeness score of r.
func (e *Engine) Score(r model.Resume) (int, error) {
	if err := model.Validate(r); err != nil {
		return 0, err
	}
	return scoring.Compute(r), nil
}

// Explain returns the per-category score breakdown of r.
func (e *Engine) Explain(r model.Resume) (scoring.Breakdown, error) {
	if err := model.Validate(r); err != nil {
		return scoring.Breakdown{}, err
	}
	return scoring.Explain(r), nil
}

// Suggest returns the ranked improvement suggestions for r.
func (e *Engine) Suggest(r model.Resume) ([]string, error) {
	if err := model.Validate(r); err != nil {
		return nil, err
	}
	return suggestions.Generate(r, e.maxSuggestions), nil
}

// Keywords extracts taxonomy terms from a job description.
func (e *Engine) Keywords(jobDescription string) ([]string, error) {
	if !utf8.ValidString(jobDescription) {
		return nil, fmt.Errorf("%w: job description is not valid UTF-8 text", ErrInvalidInput)
	}
	return keywords.Extract(jobDescription, e.taxonomy, e.mode), nil
}

// Optimize matches r against jobDescription. It never modifies r; merging
// SuggestedSkills into the resume and rescoring is up to the caller.
func (e *Engine) Optimize(r model.Resume, jobDescription string) (Optimization, error) {
	if err := model.Validate(r); err != nil {
		return Optimization{}, err
	}
	found, err := e.Keywords(jobDescription)
	if err != nil {
		return Optimization{}, err
	}
	delta := skills.Diff(r.Skills, found, e.taxonomy)
	return Optimization{
		SuggestedSkills: delta.ToAdd,
		Suggestions:     suggestions.Generate(r, e.maxSuggestions),
		Keywords:        found,
		MatchedSkills:   delta.Matched,
		MatchRatio:      delta.MatchRatio(),
	}, nil
}
