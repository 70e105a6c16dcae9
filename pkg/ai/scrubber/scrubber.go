// Package scrubber removes identifying information from free text before it
// leaves the local trust boundary. Scrub never fails: when the local model is
// unavailable, errors, or answers with nothing, the regex fallback runs.
package scrubber

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"ai-triage-be/internal/pkg/logger"
	"ai-triage-be/pkg/ai/prompt"
	"ai-triage-be/pkg/llm"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	PathLocalModel    = "LOCAL_MODEL"
	PathRegexFallback = "REGEX_FALLBACK"

	scrubMaxTokens = 1024
	logModule      = "SCRUBBER"
)

// Record describes one Scrub call. It never carries the text itself.
type Record struct {
	Path    string
	Changed bool
	Cached  bool
	Reason  string
}

type AuditSink interface {
	RecordScrub(ctx context.Context, rec Record)
}

type Scrubber struct {
	engine  llm.LLMProvider
	prompts *prompt.Set
	timeout time.Duration
	cache   *lru.Cache[string, string]
	audit   AuditSink
	logger  logger.ILogger
}

type Option func(*Scrubber)

// WithTimeout bounds each local model call.
func WithTimeout(d time.Duration) Option {
	return func(s *Scrubber) { s.timeout = d }
}

// WithCacheSize memoises local model results for up to n distinct inputs.
func WithCacheSize(n int) Option {
	return func(s *Scrubber) {
		if n <= 0 {
			return
		}
		c, err := lru.New[string, string](n)
		if err == nil {
			s.cache = c
		}
	}
}

func WithAuditSink(sink AuditSink) Option {
	return func(s *Scrubber) { s.audit = sink }
}

// New builds a Scrubber. engine may be nil, in which case every call takes the
// regex path.
func New(engine llm.LLMProvider, prompts *prompt.Set, log logger.ILogger, opts ...Option) *Scrubber {
	if prompts == nil {
		prompts = prompt.Default()
	}
	s := &Scrubber{
		engine:  engine,
		prompts: prompts,
		logger:  log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scrubber) Scrub(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	if s.engine == nil {
		return s.fallback(ctx, text, "local model not configured")
	}

	key := cacheKey(text)
	if s.cache != nil {
		if out, ok := s.cache.Get(key); ok {
			s.record(ctx, Record{Path: PathLocalModel, Changed: out != text, Cached: true})
			return out
		}
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	out, err := s.engine.Generate(callCtx, s.prompts.RenderScrub(text),
		llm.WithTemperature(0),
		llm.WithMaxTokens(scrubMaxTokens),
	)
	if err != nil {
		s.logger.Warn(logModule, "Local model failed, using regex fallback", map[string]interface{}{
			"error": err.Error(),
		})
		return s.fallback(ctx, text, "local model error")
	}

	out = strings.TrimSpace(out)
	if out == "" {
		s.logger.Warn(logModule, "Local model returned empty output, using regex fallback", nil)
		return s.fallback(ctx, text, "empty local model output")
	}

	if s.cache != nil {
		s.cache.Add(key, out)
	}
	s.record(ctx, Record{Path: PathLocalModel, Changed: out != text})
	return out
}

func (s *Scrubber) fallback(ctx context.Context, text, reason string) string {
	out := RegexScrub(text)
	s.record(ctx, Record{Path: PathRegexFallback, Changed: out != text, Reason: reason})
	return out
}

func (s *Scrubber) record(ctx context.Context, rec Record) {
	s.logger.Debug(logModule, "Scrub completed", map[string]interface{}{
		"path":    rec.Path,
		"changed": rec.Changed,
		"cached":  rec.Cached,
	})
	if s.audit != nil {
		s.audit.RecordScrub(ctx, rec)
	}
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
