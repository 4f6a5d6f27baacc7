package sink

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"

	apperrors "github.com/limaJavier/lzcup/pkg/errors"
)

// CSVSink appends records to a results file shared by every run using the same path.
type CSVSink struct {
	path   string
	file   *os.File
	writer *csv.Writer
	mutex  sync.Mutex
}

// NewCSVSink opens path for appending, writing the header only if the file is new or empty.
func NewCSVSink(path string) (*CSVSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, apperrors.IOFailure(err, path)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, apperrors.IOFailure(err, path)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, apperrors.IOFailure(err, path)
	}

	sink := &CSVSink{path: path, file: file, writer: csv.NewWriter(file)}
	if info.Size() == 0 {
		if err := sink.writeRow(Columns); err != nil {
			file.Close()
			return nil, err
		}
	}
	return sink, nil
}

func (sink *CSVSink) Path() string {
	return sink.path
}

func (sink *CSVSink) Write(_ context.Context, record Record) error {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()
	return sink.writeRow(record.Row())
}

// writeRow flushes immediately so a crash never loses an acknowledged row.
func (sink *CSVSink) writeRow(row []string) error {
	if err := sink.writer.Write(row); err != nil {
		return apperrors.IOFailure(err, sink.path)
	}
	sink.writer.Flush()
	if err := sink.writer.Error(); err != nil {
		return apperrors.IOFailure(err, sink.path)
	}
	return nil
}

func (sink *CSVSink) Close() error {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()
	if err := sink.file.Close(); err != nil {
		return apperrors.IOFailure(err, sink.path)
	}
	return nil
}
