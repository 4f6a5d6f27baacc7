package sink

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"
	"testing"

	apperrors "github.com/limaJavier/lzcup/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRows(t *testing.T, path string) [][]string {
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVSinkWritesHeaderOnce(t *testing.T) {
	//** Arrange
	path := filepath.Join(t.TempDir(), "results", "results.csv")
	record := sampleRecord()

	//** Act
	first, err := NewCSVSink(path)
	require.NoError(t, err)
	require.NoError(t, first.Write(context.Background(), record))
	require.NoError(t, first.Close())

	second, err := NewCSVSink(path)
	require.NoError(t, err)
	record.Model = 4
	require.NoError(t, second.Write(context.Background(), record))
	require.NoError(t, second.Close())

	//** Assert
	rows := readRows(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, "3", rows[1][9])
	assert.Equal(t, "4", rows[2][9])
}

func TestCSVSinkHeaderOnEmptyExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	sink, err := NewCSVSink(path)
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	assert.Equal(t, [][]string{Columns}, readRows(t, path))
}

func TestCSVSinkRowsAreFlushedImmediately(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	sink, err := NewCSVSink(path)
	require.NoError(t, err)
	defer sink.Close()

	require.NoError(t, sink.Write(context.Background(), sampleRecord()))

	assert.Len(t, readRows(t, path), 2)
}

func TestCSVSinkConcurrentWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	sink, err := NewCSVSink(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record := sampleRecord()
			record.Model = i
			assert.NoError(t, sink.Write(context.Background(), record))
		}()
	}
	wg.Wait()
	require.NoError(t, sink.Close())

	rows := readRows(t, path)
	assert.Len(t, rows, 51)
	for _, row := range rows[1:] {
		_, err := ParseRecord(row)
		assert.NoError(t, err)
	}
}

func TestCSVSinkWriteAfterCloseFails(t *testing.T) {
	sink, err := NewCSVSink(filepath.Join(t.TempDir(), "results.csv"))
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	err = sink.Write(context.Background(), sampleRecord())

	assert.True(t, apperrors.Is(err, apperrors.CodeIOFailure))
}
