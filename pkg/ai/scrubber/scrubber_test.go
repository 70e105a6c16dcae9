package scrubber

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ai-triage-be/internal/pkg/logger"
	"ai-triage-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	prompts []string
	opts    llm.Options
	block   bool
}

func (f *fakeEngine) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.Generate(ctx, history[len(history)-1].Content, options...)
}

func (f *fakeEngine) Generate(ctx context.Context, p string, options ...llm.Option) (string, error) {
	f.mu.Lock()
	f.calls++
	f.prompts = append(f.prompts, p)
	f.opts = llm.Apply(llm.Options{}, options...)
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

type recordingSink struct {
	records []Record
}

func (r *recordingSink) RecordScrub(_ context.Context, rec Record) {
	r.records = append(r.records, rec)
}

func TestRegexScrub(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"old nic", "my nic is 991234567V ok", "my nic is [NIC_REDACTED] ok"},
		{"new nic", "id 200012345678", "id [NIC_REDACTED]"},
		{"local phone", "Call me at 0771234567", "Call me at [PHONE_REDACTED]"},
		{"intl phone with spaces", "ring +94 77 123 4567 now", "ring [PHONE_REDACTED] now"},
		{"dashed phone", "071-234-5678", "[PHONE_REDACTED]"},
		{"email", "mail a.b+c@hospital.lk please", "mail [EMAIL_REDACTED] please"},
		{"clinical text untouched", "Pain 7/10 since 3 days, BP 120/80", "Pain 7/10 since 3 days, BP 120/80"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RegexScrub(tt.in))
		})
	}
}

func TestRegexScrubLeavesNoMatches(t *testing.T) {
	inputs := []string{
		"Kamal, 991234567v, 0712345678, kamal@mail.com, 200012345678",
		"+94771234567 and 0112 345 678 and x@y.io",
		"call 077 123 4567 or 077-123-4567",
	}
	for _, in := range inputs {
		out := RegexScrub(in)
		for _, p := range fallbackPatterns {
			assert.Falsef(t, p.re.MatchString(out), "pattern %s still matches %q", p.re, out)
		}
	}
}

func TestScrubFallbackPaths(t *testing.T) {
	tests := []struct {
		name   string
		engine llm.LLMProvider
		reason string
	}{
		{"no engine", nil, "local model not configured"},
		{"engine error", &fakeEngine{err: errors.New("connection refused")}, "local model error"},
		{"empty reply", &fakeEngine{reply: "  \n"}, "empty local model output"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &recordingSink{}
			s := New(tt.engine, nil, logger.NewNopLogger(), WithAuditSink(sink))

			out := s.Scrub(context.Background(), "Call me at 0771234567")

			assert.Equal(t, "Call me at [PHONE_REDACTED]", out)
			require.Len(t, sink.records, 1)
			assert.Equal(t, PathRegexFallback, sink.records[0].Path)
			assert.Equal(t, tt.reason, sink.records[0].Reason)
			assert.True(t, sink.records[0].Changed)
		})
	}
}

func TestScrubTimeoutFallsBack(t *testing.T) {
	engine := &fakeEngine{block: true}
	s := New(engine, nil, logger.NewNopLogger(), WithTimeout(10*time.Millisecond))

	out := s.Scrub(context.Background(), "email me at a@b.com")

	assert.Equal(t, "email me at [EMAIL_REDACTED]", out)
}

func TestScrubLocalModel(t *testing.T) {
	engine := &fakeEngine{reply: "  My name is [NAME_REDACTED] and my head hurts\n"}
	sink := &recordingSink{}
	s := New(engine, nil, logger.NewNopLogger(), WithAuditSink(sink), WithCacheSize(8))

	out := s.Scrub(context.Background(), "My name is Nimal and my head hurts")

	assert.Equal(t, "My name is [NAME_REDACTED] and my head hurts", out)
	require.Len(t, engine.prompts, 1)
	assert.Contains(t, engine.prompts[0], "INPUT TEXT:\nMy name is Nimal and my head hurts")
	require.NotNil(t, engine.opts.Temperature)
	assert.Equal(t, 0.0, *engine.opts.Temperature)
	assert.Equal(t, scrubMaxTokens, engine.opts.MaxTokens)
	require.Len(t, sink.records, 1)
	assert.Equal(t, PathLocalModel, sink.records[0].Path)

	t.Run("repeat input is served from cache", func(t *testing.T) {
		again := s.Scrub(context.Background(), "My name is Nimal and my head hurts")
		assert.Equal(t, out, again)
		assert.Equal(t, 1, engine.calls)
		assert.True(t, sink.records[len(sink.records)-1].Cached)
	})
}

func TestScrubBlankInputSkipsEngine(t *testing.T) {
	engine := &fakeEngine{reply: "x"}
	s := New(engine, nil, logger.NewNopLogger())

	assert.Equal(t, "  ", s.Scrub(context.Background(), "  "))
	assert.Equal(t, 0, engine.calls)
}
