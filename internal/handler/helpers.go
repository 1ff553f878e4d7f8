package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"opsconsole/internal/domain"
	"opsconsole/internal/domain/models/docstore"
	"opsconsole/internal/httputil"
)

// handleError converts domain errors to problem responses. Integrity and
// unexpected failures are logged; client errors are not.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var partial *domain.PartialBatchFailure

	switch {
	case errors.As(err, &partial):
		httputil.RespondJSON(w, http.StatusMultiStatus, partial.Result)
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrCycle), errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrTxConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrCorruptTree):
		logger.Error("folder tree integrity failure", "error", err)
		httputil.RespondErrorWithExtras(w, http.StatusInternalServerError,
			"folder tree is corrupt and needs repair", map[string]interface{}{"code": "corrupt_tree"})
	case errors.Is(err, domain.ErrStorage):
		logger.Error("object storage failure", "error", err)
		httputil.RespondError(w, http.StatusBadGateway, "object storage unavailable")
	default:
		logger.Error("unhandled error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// principal returns the authenticated caller or writes a 401.
func principal(w http.ResponseWriter, r *http.Request) (*docstore.Principal, bool) {
	p := httputil.GetPrincipal(r)
	if p == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	return p, true
}

// pathID reads a required path parameter
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := r.PathValue(name)
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, name+" is required")
		return "", false
	}
	return id, true
}

// respondBatch writes 200 on full success and 207 with per-item detail otherwise
func respondBatch(w http.ResponseWriter, logger *slog.Logger, result *domain.BatchResult, err error) {
	if err != nil {
		handleError(w, logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, result)
}
