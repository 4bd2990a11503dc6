package operations

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *OperationError
		want string
	}{
		{
			name: "with step",
			err:  NewValidationError("load", "file does not exist", nil),
			want: "[validation] load: file does not exist",
		},
		{
			name: "without step",
			err:  ErrNoSteps,
			want: "[invalid_state] no steps to run",
		},
		{
			name: "execution",
			err:  NewExecutionError("coerce_numeric", errors.New("boom")),
			want: "[execution] coerce_numeric: step execution failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestOperationError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewExecutionError("export", cause)

	assert.True(t, errors.Is(err, cause))

	wrapped := fmt.Errorf("run failed: %w", err)
	var opErr *OperationError
	require.True(t, errors.As(wrapped, &opErr))
	assert.Equal(t, "export", opErr.Step)
}

func TestWrapError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, WrapError(nil, "load"))
	})

	t.Run("plain error becomes execution error", func(t *testing.T) {
		cause := errors.New("parse failure")
		err := WrapError(cause, "classify")

		assert.Equal(t, ErrorTypeExecution, err.Type)
		assert.Equal(t, "classify", err.Step)
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("operation error keeps its type", func(t *testing.T) {
		inner := NewValidationError("", "bad input", nil)
		err := WrapError(inner, "load")

		assert.Equal(t, ErrorTypeValidation, err.Type)
		assert.Equal(t, "load", err.Step)
	})

	t.Run("existing step name is preserved", func(t *testing.T) {
		inner := NewCancellationError("clean", nil)
		err := WrapError(inner, "export")

		assert.Equal(t, "clean", err.Step)
	})
}

func TestGetErrorType(t *testing.T) {
	assert.Equal(t, ErrorType(""), GetErrorType(nil))
	assert.Equal(t, ErrorTypeExecution, GetErrorType(errors.New("plain")))
	assert.Equal(t, ErrorTypeCancellation, GetErrorType(NewCancellationError("load", nil)))
}
