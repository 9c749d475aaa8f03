package translation

import (
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel provider calls within one batch
const DefaultConcurrency = 8

// Safe wraps a Service so that translation never fails the caller: blank
// input is passed through without a call and any error yields the original
// text, logged at warn level.
type Safe struct {
	svc         Service
	logger      *zap.Logger
	concurrency int
}

// NewSafe wraps svc
func NewSafe(svc Service, logger *zap.Logger) *Safe {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Safe{svc: svc, logger: logger, concurrency: DefaultConcurrency}
}

// WithConcurrency sets the batch parallelism
func (s *Safe) WithConcurrency(n int) *Safe {
	if n > 0 {
		s.concurrency = n
	}
	return s
}

// Translate implements Service and never returns an error
func (s *Safe) Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	out, _ := s.Text(ctx, text, targetLang, sourceLang)
	return out, nil
}

// Text translates one text. The boolean is false when the provider failed
// and the original text was returned instead.
func (s *Safe) Text(ctx context.Context, text, targetLang, sourceLang string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return text, true
	}

	translated, err := s.svc.Translate(ctx, text, targetLang, sourceLang)
	if err != nil {
		s.logger.Warn("translation failed, using original text",
			zap.String("source_lang", sourceLang),
			zap.String("target_lang", targetLang),
			zap.Int("text_len", len(text)),
			zap.Error(err),
		)
		return text, false
	}
	return translated, true
}

// Batch translates texts concurrently and returns the results in the same
// slots. Blank entries are copied through untouched. The boolean is false
// if at least one slot fell back to its original text.
func (s *Safe) Batch(ctx context.Context, texts []string, targetLang, sourceLang string) ([]string, bool) {
	out, ok := s.Slots(ctx, texts, targetLang, sourceLang)
	return out, !slices.Contains(ok, false)
}

// Slots is Batch with a per-slot success flag
func (s *Safe) Slots(ctx context.Context, texts []string, targetLang, sourceLang string) ([]string, []bool) {
	out := slices.Clone(texts)
	ok := make([]bool, len(texts))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			ok[i] = true
			continue
		}
		g.Go(func() error {
			out[i], ok[i] = s.Text(ctx, text, targetLang, sourceLang)
			return nil
		})
	}
	_ = g.Wait()

	return out, ok
}
