package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/peerline/internal/model"
)

func TestWriteErrorResponse_UnifiedFormat(t *testing.T) {
	w := httptest.NewRecorder()

	apiErr := model.NewBadRequestError("token、request_id、reasonは必須です。")
	WriteErrorResponse(w, http.StatusBadRequest, apiErr)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/json")
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.Code != model.ErrCodeBadRequest {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeBadRequest)
	}
	if body.Message == "" {
		t.Error("expected non-empty message")
	}
	if body.Category == "" {
		t.Error("expected non-empty category")
	}
	if body.Action == "" {
		t.Error("expected non-empty action")
	}
}

func TestWriteInternalServerError_DoesNotLeakDetails(t *testing.T) {
	w := httptest.NewRecorder()

	WriteInternalServerError(w)

	resp := w.Result()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusInternalServerError)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.Code != "INTERNAL_ERROR" {
		t.Errorf("code = %q, want %q", body.Code, "INTERNAL_ERROR")
	}
}

func TestStatusCodeFor(t *testing.T) {
	tests := []struct {
		name   string
		apiErr *model.APIError
		want   int
	}{
		{"bad request", model.NewBadRequestError("invalid"), http.StatusBadRequest},
		{"unauthorized", model.NewUnauthorizedError(), http.StatusUnauthorized},
		{"user not found maps to 401", model.NewUserNotFoundError(), http.StatusUnauthorized},
		{"request not found", model.NewRequestNotFoundError("req-1"), http.StatusNotFound},
		{"unknown code falls back to 500", &model.APIError{Code: "SOMETHING_ELSE"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusCodeFor(tt.apiErr); got != tt.want {
				t.Errorf("StatusCodeFor() = %d, want %d", got, tt.want)
			}
		})
	}
}
