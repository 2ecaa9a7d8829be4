// Package usage accumulates LLM token usage for the lifetime of the process
package usage

import (
	"context"
	"sort"
	"sync"
	"time"

	"boardroom/internal"
	"boardroom/ports"
)

// Totals is the accumulated usage of one provider/model pair
type Totals struct {
	Provider         string    `json:"provider"`
	Model            string    `json:"model"`
	Calls            int       `json:"calls"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens"`
	LastCall         time.Time `json:"last_call"`
}

// Service records usage reported by generators. It satisfies
// ports.UsageRecorder.
type Service struct {
	mu     sync.Mutex
	totals map[string]*Totals
	logger *internal.Logger
	now    func() time.Time
}

// NewService creates an empty usage service
func NewService(logger *internal.Logger) *Service {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &Service{
		totals: make(map[string]*Totals),
		logger: logger,
		now:    time.Now,
	}
}

var _ ports.UsageRecorder = (*Service)(nil)

// Record adds one call. Negative token counts are dropped without failing
// the caller.
func (s *Service) Record(_ context.Context, u ports.UsageData) {
	if u.PromptTokens < 0 || u.CompletionTokens < 0 || u.TotalTokens < 0 {
		s.logger.Warn("[Usage] Ignoring invalid token counts: %+v", u)
		return
	}
	key := u.Provider + "/" + u.Model

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.totals[key]
	if !ok {
		t = &Totals{Provider: u.Provider, Model: u.Model}
		s.totals[key] = t
	}
	t.Calls++
	t.PromptTokens += u.PromptTokens
	t.CompletionTokens += u.CompletionTokens
	t.TotalTokens += u.TotalTokens
	t.LastCall = s.now()
}

// Summary returns a copy of all totals ordered by provider then model
func (s *Service) Summary() []Totals {
	s.mu.Lock()
	out := make([]Totals, 0, len(s.totals))
	for _, t := range s.totals {
		out = append(out, *t)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Provider != out[j].Provider {
			return out[i].Provider < out[j].Provider
		}
		return out[i].Model < out[j].Model
	})
	return out
}

// TotalTokens sums tokens across every provider
func (s *Service) TotalTokens() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.totals {
		n += t.TotalTokens
	}
	return n
}
