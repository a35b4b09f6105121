package httpx

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/example/go-store-orders/internal/servererrors"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string             `json:"error"`
	Kind  servererrors.Kind  `json:"kind,omitempty"`
}

// writeError maps the error taxonomy onto HTTP statuses. Unclassified errors
// are logged and hidden behind a 500.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	switch kind := servererrors.KindOf(err); kind {
	case servererrors.KindNotFound:
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error(), Kind: kind})
	case servererrors.KindConflict:
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error(), Kind: kind})
	case servererrors.KindInvalidState, servererrors.KindInsufficientStock:
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error(), Kind: kind})
	case servererrors.KindInvalid:
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Kind: kind})
	default:
		log.Error("unhandled error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "something went wrong"})
	}
}
