package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	err := Newf(ErrMissingColumn, "Concepts.csv: %s", "lemma")

	assert.Equal(t, "missing required column: Concepts.csv: lemma", err.Error())
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Equal(t, ExitBadInput, err.ExitCode)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"config", New(ErrInvalidConfig, "x"), ExitUsage},
		{"input", New(ErrInvalidInput, "x"), ExitBadInput},
		{"malformed", New(ErrMalformedResource, "x"), ExitBadInput},
		{"wrapped malformed", fmt.Errorf("loading: %w", New(ErrMalformedResource, "x")), ExitBadInput},
		{"sink", New(ErrSinkUnavailable, "x"), ExitSinkFailure},
		{"bare timeout", fmt.Errorf("publish: %w", ErrTimeout), ExitSinkFailure},
		{"internal", New(ErrInternal, "x"), ExitFailure},
		{"foreign", errors.New("boom"), ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
