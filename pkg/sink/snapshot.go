package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/limaJavier/lzcup/pkg/errors"
	"github.com/limaJavier/lzcup/pkg/schedule"
)

// SnapshotSink writes one self-contained text file per model under
// <dir>/<instance>/<timestamp>/.
type SnapshotSink struct {
	dir string
}

func NewSnapshotSink(dir string) *SnapshotSink {
	return &SnapshotSink{dir: dir}
}

// SnapshotPath is where record's snapshot is written.
func (sink *SnapshotSink) SnapshotPath(record Record) string {
	name := fmt.Sprintf("model_%d_opt_%d_%d_score_%d_time_%.2f.txt", record.Model, record.Opt1, record.Opt2, record.Score, record.Time)
	return filepath.Join(sink.dir, fmt.Sprint(record.Instance), record.Timestamp, name)
}

func (sink *SnapshotSink) Write(_ context.Context, record Record) error {
	path := sink.SnapshotPath(record)

	content, err := snapshot(record)
	if err != nil {
		return apperrors.Annotate(err, map[string]any{"target": path})
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.IOFailure(err, path)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return apperrors.IOFailure(err, path)
	}
	return nil
}

func (sink *SnapshotSink) Close() error {
	return nil
}

func snapshot(record Record) (string, error) {
	matrix, err := schedule.ParseMatrix(record.Schedule)
	if err != nil {
		return "", err
	}
	closeGames, err := schedule.ParseCloseGames(record.CloseGames)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "Model: %d\n", record.Model)
	fmt.Fprintf(&builder, "Session: %s\n", record.Session)
	fmt.Fprintf(&builder, "Run: %s | Instance: %d\n", record.RunName, record.Instance)
	fmt.Fprintf(&builder, "Rmax: %d | M: %d | Threads: %d | Config: %s | Heuristic: %t | Timeout: %ds\n",
		record.Rmax, record.M, record.Threads, record.Config, record.Heuristic, record.Timeout)
	fmt.Fprintf(&builder, "Optimizations: [%d %d]\n", record.Opt1, record.Opt2)
	fmt.Fprintf(&builder, "Unified Score: %d\n", record.Score)
	fmt.Fprintf(&builder, "Time: %.2fs\n", record.Time)
	fmt.Fprintf(&builder, "Optimal: %t\n", record.Optimal)

	builder.WriteString("\nSchedule Matrix:\n")
	for _, line := range schedule.RenderLines(matrix, schedule.IndexCloseGames(closeGames), false) {
		builder.WriteString(line)
		builder.WriteByte('\n')
	}

	builder.WriteString("\nSchedule Atoms:\n")
	for _, game := range matrix.Assignments() {
		builder.WriteString(game.String())
		builder.WriteByte('\n')
	}

	builder.WriteString("\nClose Games:\n")
	for _, cg := range closeGames {
		fmt.Fprintf(&builder, "(%d, %d, %d, %d)\n", cg.Team, cg.DayA, cg.DayB, cg.Gap)
	}
	return builder.String(), nil
}
