package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_finder/internal/domain"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { f.closed = true; return nil }

func TestPublishSearch_EncodesEvent(t *testing.T) {
	w := &fakeWriter{}
	p := newProducerWithWriter(w)
	budget := decimal.NewFromInt(150)
	at := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

	err := p.PublishSearch(context.Background(), domain.SearchEvent{
		SearchID: "s-1", Destination: "BCN", Mode: domain.ModeBestFit,
		Budget: &budget, Outcome: "selected", Returned: 2, OccurredAt: at,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	m := w.msgs[0]
	assert.Equal(t, "BCN", string(m.Key))
	assert.Equal(t, at, m.Time)
	assert.Equal(t, "s-1", string(m.Headers[0].Value))

	var got map[string]any
	require.NoError(t, json.Unmarshal(m.Value, &got))
	assert.Equal(t, "selected", got["outcome"])
	assert.Equal(t, "150", got["budget"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishSearch_WrapsWriterError(t *testing.T) {
	boom := errors.New("broker down")
	p := newProducerWithWriter(&fakeWriter{err: boom})
	err := p.PublishSearch(context.Background(), domain.SearchEvent{SearchID: "x"})
	assert.ErrorIs(t, err, boom)
}
