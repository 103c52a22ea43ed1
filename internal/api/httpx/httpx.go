package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Aakash768/imf-gadget-api/internal/apperr"
)

type APIError struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, APIError{Error: msg})
}

// WriteDomainError maps a domain error onto its status code. Anything outside
// the taxonomy is a storage or config failure: logged server-side, collapsed
// to a terse 500.
func WriteDomainError(w http.ResponseWriter, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		slog.Error("internal error", "err", err)
		WriteError(w, status, "Internal Server Error")
		return
	}
	WriteError(w, status, err.Error())
}
