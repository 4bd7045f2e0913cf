package serviceerrors_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	databaseerrors "smartswiggy/internal/database"
	serviceerrors "smartswiggy/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	other := errors.New("connection reset")

	tests := []struct {
		name     string
		err      error
		want     error
		expected bool
	}{
		{name: "Canceled", err: fmt.Errorf("op: %w", context.Canceled), want: serviceerrors.ErrContextCanceled, expected: true},
		{name: "Deadline", err: fmt.Errorf("op: %w", context.DeadlineExceeded), want: serviceerrors.ErrDeadlineExceeded, expected: true},
		{name: "Not found", err: fmt.Errorf("op: %w", databaseerrors.ErrNotFound), want: serviceerrors.ErrNotFound, expected: true},
		{name: "Other", err: other, want: other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, serviceerrors.Translate(tt.err), tt.want)
			assert.Equal(t, tt.expected, serviceerrors.Expected(tt.err))
		})
	}
}
