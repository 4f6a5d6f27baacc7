// Package sink persists one record per streamed model.
package sink

import (
	"context"
	"errors"
)

// Sink receives the records of a session in model order.
type Sink interface {
	Write(ctx context.Context, record Record) error
	Close() error
}

// Multi fans every record out to all of its sinks.
type Multi []Sink

func (multi Multi) Write(ctx context.Context, record Record) error {
	errs := make([]error, 0)
	for _, sink := range multi {
		if err := sink.Write(ctx, record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (multi Multi) Close() error {
	errs := make([]error, 0)
	for _, sink := range multi {
		if err := sink.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WriteRetry writes record to output and tries a failed sink once more. Members of a
// Multi are retried on their own, so a sink that accepted the record never receives it twice.
// onRetry, when set, sees the first error of every retried sink.
func WriteRetry(ctx context.Context, output Sink, record Record, onRetry func(error)) error {
	if multi, ok := output.(Multi); ok {
		errs := make([]error, 0)
		for _, member := range multi {
			if err := WriteRetry(ctx, member, record, onRetry); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	err := output.Write(ctx, record)
	if err == nil {
		return nil
	}
	if onRetry != nil {
		onRetry(err)
	}
	return output.Write(ctx, record)
}
