package trace

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_SpanLifecycle(t *testing.T) {
	rec := NewRecorder()

	span := rec.Start("collect_performance")
	span.Success(map[string]int{"overallScore": 88})

	failed := rec.Start("collect_ssl")
	failed.Error(errors.New("assessment timed out"))

	rec.Skip("claude_analysis", "secondary provider not configured")

	entries := rec.Entries()
	require.Len(t, entries, 3)

	assert.Equal(t, "collect_performance", entries[0].Step)
	assert.Equal(t, StatusSuccess, entries[0].Status)
	assert.Empty(t, entries[0].ErrorMessage)

	assert.Equal(t, StatusError, entries[1].Status)
	assert.Equal(t, "assessment timed out", entries[1].ErrorMessage)

	assert.Equal(t, StatusSkipped, entries[2].Status)
	assert.Equal(t, "secondary provider not configured", entries[2].Data)
}

func TestRecorder_Summarize(t *testing.T) {
	rec := NewRecorder()

	rec.Start("a").Success(nil)
	rec.Start("b").Success(nil)
	rec.Start("c").Error(errors.New("boom"))
	rec.Skip("d", "not needed")

	summary := rec.Summarize()
	assert.Equal(t, Summary{TotalSteps: 4, Successful: 2, Failed: 1, Skipped: 1}, summary)
}

func TestRecorder_ConcurrentAppends(t *testing.T) {
	rec := NewRecorder()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			span := rec.Start("step")
			span.Success(nil)
		}()
	}
	wg.Wait()

	entries := rec.Entries()
	require.Len(t, entries, 50)
	for _, entry := range entries {
		assert.Equal(t, StatusSuccess, entry.Status)
	}
}

func TestRecorder_EntriesReturnsCopy(t *testing.T) {
	rec := NewRecorder()
	rec.Start("a").Success(nil)

	entries := rec.Entries()
	entries[0].Step = "mutated"

	assert.Equal(t, "a", rec.Entries()[0].Step)
}
