package sink

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	records []Record
	err     error
	closed  bool
}

func (sink *memorySink) Write(_ context.Context, record Record) error {
	if sink.err != nil {
		return sink.err
	}
	sink.records = append(sink.records, record)
	return nil
}

func (sink *memorySink) Close() error {
	sink.closed = true
	return nil
}

func TestMultiFansOut(t *testing.T) {
	failure := errors.New("disk full")
	a, b, c := &memorySink{}, &memorySink{err: failure}, &memorySink{}
	multi := Multi{a, b, c}

	err := multi.Write(context.Background(), sampleRecord())

	assert.ErrorIs(t, err, failure)
	assert.Len(t, a.records, 1)
	assert.Len(t, c.records, 1)

	assert.NoError(t, multi.Close())
	assert.True(t, a.closed && b.closed && c.closed)
}

type flakySink struct {
	memorySink
	failures int
	writes   int
}

func (sink *flakySink) Write(ctx context.Context, record Record) error {
	sink.writes++
	if sink.failures > 0 {
		sink.failures--
		return errors.New("connection reset")
	}
	return sink.memorySink.Write(ctx, record)
}

func TestWriteRetryOnlyRetriesFailedMembers(t *testing.T) {
	//** Arrange
	healthy, flaky := &flakySink{}, &flakySink{failures: 1}
	retried := 0

	//** Act
	err := WriteRetry(context.Background(), Multi{healthy, flaky}, sampleRecord(), func(error) { retried++ })

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, 1, healthy.writes)
	assert.Len(t, healthy.records, 1)
	assert.Equal(t, 2, flaky.writes)
	assert.Len(t, flaky.records, 1)
	assert.Equal(t, 1, retried)
}

func TestWriteRetryGivesUpAfterSecondFailure(t *testing.T) {
	//** Arrange
	healthy, broken := &flakySink{}, &flakySink{failures: 2}

	//** Act
	err := WriteRetry(context.Background(), Multi{healthy, broken}, sampleRecord(), nil)

	//** Assert
	assert.EqualError(t, err, "connection reset")
	assert.Len(t, healthy.records, 1)
	assert.Equal(t, 2, broken.writes)
	assert.Empty(t, broken.records)
}
