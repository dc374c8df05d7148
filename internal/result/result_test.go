package result

import (
	"errors"
	"testing"

	"github.com/harrison/grepline/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordCapture struct {
	records []Record
}

func (c *recordCapture) WriteRecord(r Record) {
	c.records = append(c.records, r)
}

func matchEvent(src string, line int, text string) engine.Event {
	return engine.Event{Kind: engine.EventMatch, Source: src, Line: line, Text: []byte(text)}
}

func TestAggregatorOutcomeStatus(t *testing.T) {
	t.Run("matches found", func(t *testing.T) {
		a := NewAggregator(Options{}, &recordCapture{})
		a.Consume(matchEvent("f", 1, "x"))
		out := a.Finalize()

		assert.Equal(t, StatusMatch, out.Status())
		assert.Equal(t, ExitMatch, out.ExitCode())
		assert.Equal(t, 1, out.Matches)
	})

	t.Run("no matches", func(t *testing.T) {
		a := NewAggregator(Options{}, &recordCapture{})
		out := a.Finalize()

		assert.Equal(t, StatusNoMatch, out.Status())
		assert.Equal(t, ExitNoMatch, out.ExitCode())
	})

	t.Run("error dominates matches", func(t *testing.T) {
		a := NewAggregator(Options{}, &recordCapture{})
		a.Consume(matchEvent("f", 1, "x"))
		a.Consume(engine.Event{Kind: engine.EventSourceError, Source: "g", Err: errors.New("permission denied")})
		out := a.Finalize()

		assert.Equal(t, StatusError, out.Status())
		assert.Equal(t, ExitError, out.ExitCode())
		assert.Equal(t, 1, out.Matches, "matches are still counted alongside errors")
		require.Len(t, out.Errors, 1)
		assert.Equal(t, "g", out.Errors[0].Source)
	})
}

func TestAggregatorLabeling(t *testing.T) {
	t.Run("single unlabeled source omits identifier", func(t *testing.T) {
		sink := &recordCapture{}
		a := NewAggregator(Options{}, sink)
		a.Consume(matchEvent("only.txt", 3, "hit"))

		require.Len(t, sink.records, 1)
		assert.Empty(t, sink.records[0].Source)
	})

	t.Run("label option tags every record", func(t *testing.T) {
		sink := &recordCapture{}
		a := NewAggregator(Options{Label: true}, sink)
		a.Consume(matchEvent("a.txt", 1, "hit"))
		a.Consume(engine.Event{Kind: engine.EventContext, Source: "a.txt", Line: 2, Text: []byte("ctx")})

		require.Len(t, sink.records, 2)
		assert.Equal(t, "a.txt", sink.records[0].Source)
		assert.Equal(t, "a.txt", sink.records[1].Source)
		assert.True(t, sink.records[1].Context)
	})
}

func TestAggregatorLineNumbers(t *testing.T) {
	sink := &recordCapture{}
	a := NewAggregator(Options{LineNumbers: true}, sink)
	a.Consume(matchEvent("f", 41, "hit"))

	require.Len(t, sink.records, 1)
	assert.Equal(t, 41, sink.records[0].Line)

	sink2 := &recordCapture{}
	NewAggregator(Options{}, sink2).Consume(matchEvent("f", 41, "hit"))
	assert.Zero(t, sink2.records[0].Line, "line numbers suppressed unless requested")
}

func TestAggregatorCounts(t *testing.T) {
	sink := &recordCapture{}
	a := NewAggregator(Options{Label: true}, sink)
	a.Consume(engine.Event{Kind: engine.EventSourceCount, Source: "a", Count: 3})
	a.Consume(engine.Event{Kind: engine.EventSourceCount, Source: "b", Count: 0})
	out := a.Finalize()

	require.Len(t, sink.records, 2)
	assert.True(t, sink.records[0].CountOnly)
	assert.Equal(t, 3, sink.records[0].Count)
	assert.Equal(t, 3, out.Matches)
	assert.Equal(t, 2, out.Sources)
}

func TestAggregatorBinarySummary(t *testing.T) {
	sink := &recordCapture{}
	a := NewAggregator(Options{}, sink)
	a.Consume(engine.Event{Kind: engine.EventBinaryMatch, Source: "blob.bin"})
	out := a.Finalize()

	require.Len(t, sink.records, 1)
	assert.True(t, sink.records[0].Binary)
	assert.Equal(t, "blob.bin", sink.records[0].Source, "binary summaries always name the source")
	assert.Equal(t, 1, out.Matches)
	assert.Equal(t, StatusMatch, out.Status())
}

func TestAggregatorRunID(t *testing.T) {
	a := NewAggregator(Options{}, &recordCapture{})
	b := NewAggregator(Options{}, &recordCapture{})

	assert.NotEmpty(t, a.Finalize().RunID)
	assert.NotEqual(t, a.Finalize().RunID, b.Finalize().RunID)
}
