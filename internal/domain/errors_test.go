package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"plain", errors.New("boom"), KindUnknown},
		{"validation", NewValidationError([]Violation{{Path: "body.title", Message: "Title too long"}}), KindValidation},
		{"not found", NewNotFoundError("Todo"), KindNotFound},
		{"conflict", NewConflictError(errors.New("23505")), KindConflict},
		{"app", NewAppError(http.StatusTeapot, "teapot"), KindApp},
		{"wrapped not found", fmt.Errorf("get todo: %w", NewNotFoundError("Todo")), KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestStatusCodes(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, NewValidationError(nil).StatusCode())
	assert.Equal(t, http.StatusNotFound, NewNotFoundError("Todo").StatusCode())
	assert.Equal(t, http.StatusConflict, NewConflictError(nil).StatusCode())
	assert.Equal(t, http.StatusBadRequest, NewAppError(http.StatusBadRequest, "bad").StatusCode())
}

func TestNotFoundError_Message(t *testing.T) {
	assert.Equal(t, "Todo not found", NewNotFoundError("Todo").Error())
}

func TestValidationError_KeepsViolationOrder(t *testing.T) {
	err := NewValidationError([]Violation{
		{Path: "body.title", Message: "Title is required"},
		{Path: "body.title", Message: "Title too long"},
		{Path: "body.description", Message: "Description is required"},
	})

	require.Len(t, err.Violations, 3)
	assert.Equal(t, "body.title", err.Violations[0].Path)
	assert.Equal(t, "body.description", err.Violations[2].Path)
	assert.Equal(t,
		"Validation error: body.title: Title is required; body.title: Title too long; body.description: Description is required",
		err.Error())
}

func TestConflictError_Unwrap(t *testing.T) {
	cause := errors.New("duplicate key value violates unique constraint")
	err := NewConflictError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Duplicate field value entered", err.Message)
}

func TestStack_PointsAtCaller(t *testing.T) {
	err := NewAppError(http.StatusBadRequest, "bad")

	assert.Contains(t, err.Stack(), "TestStack_PointsAtCaller")
	assert.NotContains(t, err.Stack(), "domain.capture")
}

func TestWithStack(t *testing.T) {
	cause := errors.New("connection refused")
	err := WithStack(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "connection refused", err.Error())
	assert.Equal(t, KindUnknown, KindOf(err))
	assert.Contains(t, err.Stack(), "TestWithStack")

	assert.Equal(t, KindNotFound, KindOf(WithStack(NewNotFoundError("Todo"))))
}

func TestTodoPatch(t *testing.T) {
	assert.True(t, TodoPatch{}.IsEmpty())

	done := true
	title := "Buy bread"
	base := Todo{ID: "1", Title: "Buy milk", Description: "2%"}
	got := TodoPatch{Title: &title, Completed: &done}.Apply(base)

	assert.Equal(t, "Buy bread", got.Title)
	assert.Equal(t, "2%", got.Description)
	assert.True(t, got.Completed)
	assert.Nil(t, got.DueDate)
	assert.Equal(t, "Buy milk", base.Title)
}
