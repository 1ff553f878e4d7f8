package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"opsconsole/internal/domain"
)

func TestHandleError(t *testing.T) {
	partial := domain.NewBatchResult()
	partial.Succeed("a")
	partial.Fail("b", domain.NewNotFound("folder", "b"))

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", domain.NewValidation("bad"), http.StatusBadRequest},
		{"not found", domain.NewNotFound("folder", "x"), http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", domain.NewNotFound("folder", "x")), http.StatusNotFound},
		{"unauthorized", &domain.UnauthorizedError{Message: "no"}, http.StatusUnauthorized},
		{"forbidden", domain.NewForbidden("no edit grant"), http.StatusForbidden},
		{"cycle", &domain.CycleError{FolderID: "a", TargetID: "a"}, http.StatusConflict},
		{"conflict", &domain.ConflictError{Message: "busy"}, http.StatusConflict},
		{"tx conflict", &domain.TxConflictError{Err: errors.New("serialization failure")}, http.StatusConflict},
		{"corrupt", &domain.CorruptTreeError{FolderID: "a", Hops: 64}, http.StatusInternalServerError},
		{"storage", &domain.StorageError{Op: "put", Err: errors.New("down")}, http.StatusBadGateway},
		{"partial", partial.Err(), http.StatusMultiStatus},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleError(rec, discard(), tt.err)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandleErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	handleError(rec, discard(), errors.New("pq: connection refused to 10.0.0.3"))
	assert.NotContains(t, rec.Body.String(), "10.0.0.3")

	rec = httptest.NewRecorder()
	handleError(rec, discard(), &domain.CorruptTreeError{FolderID: "a", Hops: 64})
	assert.Contains(t, rec.Body.String(), "corrupt_tree")
}
