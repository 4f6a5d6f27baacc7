package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatsSortedFields(t *testing.T) {
	err := MalformedInstance("Input3.txt", 4, "expected 6 values, found 5")

	assert.Equal(t, "[MALFORMED_INSTANCE] malformed instance: expected 6 values, found 5 (file=Input3.txt, line=4)", err.Error())
}

func TestIsAndGetCodeFollowWrapping(t *testing.T) {
	cause := errors.New("broken pipe")
	err := fmt.Errorf("writing model 3: %w", IOFailure(cause, "results.csv"))

	assert.True(t, Is(err, CodeIOFailure))
	assert.False(t, Is(err, CodeNoModelFound))
	assert.Equal(t, CodeIOFailure, GetCode(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeUnknown, GetCode(cause))
	assert.False(t, Is(nil, CodeIOFailure))
}

func TestAnnotate(t *testing.T) {
	//** Arrange
	coded := InvalidConfig("threads", 0, "must be at least 1")
	foreign := errors.New("unexpected EOF")

	//** Act
	annotatedCoded := Annotate(coded, map[string]any{"instance": 4, "parameter": "ignored"})
	annotatedForeign := Annotate(foreign, map[string]any{"run": "nightly"})

	//** Assert
	assert.Same(t, coded, annotatedCoded)
	assert.Equal(t, 4, coded.Fields["instance"])
	assert.Equal(t, "threads", coded.Fields["parameter"])

	assert.Equal(t, CodeUnknown, GetCode(annotatedForeign))
	assert.ErrorIs(t, annotatedForeign, foreign)
	assert.Contains(t, annotatedForeign.Error(), "run=nightly")

	assert.Nil(t, Annotate(nil, map[string]any{"run": "nightly"}))
}
