package usage

import (
	"context"
	"sync"
	"testing"
	"time"

	"boardroom/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_Accumulates(t *testing.T) {
	s := NewService(nil)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	ctx := context.Background()

	s.Record(ctx, ports.UsageData{Provider: "openai", Model: "gpt-4", PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15})
	s.Record(ctx, ports.UsageData{Provider: "openai", Model: "gpt-4", PromptTokens: 1, CompletionTokens: 1, TotalTokens: 2})
	s.Record(ctx, ports.UsageData{Provider: "cohere", Model: "command-r", PromptTokens: 3, CompletionTokens: 4, TotalTokens: 7})

	summary := s.Summary()
	require.Len(t, summary, 2)
	assert.Equal(t, "cohere", summary[0].Provider)
	assert.Equal(t, Totals{
		Provider: "openai", Model: "gpt-4", Calls: 2,
		PromptTokens: 11, CompletionTokens: 6, TotalTokens: 17, LastCall: fixed,
	}, summary[1])
	assert.Equal(t, 24, s.TotalTokens())
}

func TestRecord_DropsNegativeCounts(t *testing.T) {
	s := NewService(nil)
	s.Record(context.Background(), ports.UsageData{Provider: "openai", TotalTokens: -1})
	assert.Empty(t, s.Summary())
}

func TestRecord_Concurrent(t *testing.T) {
	s := NewService(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Record(context.Background(), ports.UsageData{Provider: "gemini", Model: "flash", TotalTokens: 2})
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, s.TotalTokens())
	assert.Equal(t, 50, s.Summary()[0].Calls)
}
