package sink

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	apperrors "github.com/limaJavier/lzcup/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotSink(t *testing.T) {
	//** Arrange
	dir := t.TempDir()
	sink := NewSnapshotSink(dir)
	record := sampleRecord()
	record.Session = uuid.New()

	//** Act
	err := sink.Write(context.Background(), record)

	//** Assert
	require.NoError(t, err)
	path := filepath.Join(dir, "7", "20240101_120000", "model_3_opt_0_12_score_2012_time_1.25.txt")
	assert.Equal(t, path, sink.SnapshotPath(record))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "Model: 3\n")
	assert.Contains(t, text, "Session: "+record.Session.String())
	assert.Contains(t, text, "Unified Score: 2012\n")
	assert.Contains(t, text, " -1   0\n  2  -1\n")
	assert.Contains(t, text, "schedule(1, 2, 0)\nschedule(2, 1, 2)\n")
	assert.Contains(t, text, "(1, 0, 2, 1)\n")
	assert.NoError(t, sink.Close())
}

func TestSnapshotSinkRejectsMalformedSchedule(t *testing.T) {
	record := sampleRecord()
	record.Schedule = "1,2,3"

	err := NewSnapshotSink(t.TempDir()).Write(context.Background(), record)

	assert.True(t, apperrors.Is(err, apperrors.CodeMalformedRecord))
}
