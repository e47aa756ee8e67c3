package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{ErrUnsupportedModel, http.StatusBadRequest},
		{ErrMissingAPIKey, http.StatusBadRequest},
		{ErrUnsupportedContentType, http.StatusBadRequest},
		{ErrInvalidParam, http.StatusBadRequest},
		{ErrInvalidAPIKey, http.StatusUnauthorized},
		{ErrGenerationFailed, http.StatusInternalServerError},
		{ErrInternalError, http.StatusInternalServerError},
		{ErrModelNotServed, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			if tt.err.HTTPStatus != tt.want {
				t.Errorf("status: got %d, want %d", tt.err.HTTPStatus, tt.want)
			}
		})
	}
}

func TestWithDetailDoesNotMutateSentinel(t *testing.T) {
	e := ErrGenerationFailed.WithDetail("backend exploded")
	if ErrGenerationFailed.Detail != "" {
		t.Fatalf("sentinel mutated: %q", ErrGenerationFailed.Detail)
	}
	if e.PublicMessage() != "backend exploded" {
		t.Errorf("public message: got %q", e.PublicMessage())
	}
	if ErrGenerationFailed.PublicMessage() != "generation failed" {
		t.Errorf("sentinel public message: got %q", ErrGenerationFailed.PublicMessage())
	}
}

func TestAsAppErrorWrapsPlainError(t *testing.T) {
	plain := fmt.Errorf("boom")
	appErr := AsAppError(plain)

	if appErr.Code != CodeInternalError {
		t.Errorf("code: got %s, want %s", appErr.Code, CodeInternalError)
	}
	if appErr.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("status: got %d", appErr.HTTPStatus)
	}
	if appErr.PublicMessage() != "boom" {
		t.Errorf("detail: got %q, want %q", appErr.PublicMessage(), "boom")
	}
	if !stderrors.Is(appErr, plain) {
		t.Error("expected wrapped error to be reachable via errors.Is")
	}
}

func TestAsAppErrorFindsWrappedAppError(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", ErrInvalidAPIKey)

	if got := AsAppError(wrapped); got != ErrInvalidAPIKey {
		t.Errorf("got %v, want ErrInvalidAPIKey", got)
	}
	if !HasCode(wrapped, CodeInvalidAPIKey) {
		t.Error("HasCode: want true")
	}
	if HasCode(wrapped, CodeMissingAPIKey) {
		t.Error("HasCode: want false for other code")
	}
	if !IsAppError(wrapped) {
		t.Error("IsAppError: want true")
	}
}
