package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tranvictor/onchaincheck/common"
	"github.com/tranvictor/onchaincheck/inspector"
	"github.com/tranvictor/onchaincheck/logging"
	"github.com/tranvictor/onchaincheck/onchain"
	"github.com/tranvictor/onchaincheck/util/marketplace"
)

const maxBodyBytes = 1 << 20

// Inspector classifies the token behind a request.
type Inspector interface {
	Inspect(ctx context.Context, req inspector.Request) (onchain.Result, error)
}

// Handler serves the classification endpoint.
type Handler struct {
	inspector Inspector
}

func NewHandler(in Inspector) *Handler {
	return &Handler{inspector: in}
}

// GetInfo handles POST requests with a classification and answers CORS
// preflight OPTIONS requests.
func (h *Handler) GetInfo(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		writePreflight(w)
		return
	case http.MethodPost:
	default:
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Allow", "POST, OPTIONS")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	log := logging.FromContext(r.Context())

	req := inspector.Request{}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		log.Info("invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	log.Info("classification requested",
		"collection_slug", req.CollectionSlug,
		"contract_address", req.ContractAddress,
	)

	res, err := h.inspector.Inspect(r.Context(), req)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			log.Error("classification failed", "error", err)
		} else {
			log.Info("classification rejected", "error", err)
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, inspector.ErrNoInput), errors.Is(err, common.ErrInvalidAddress):
		return http.StatusBadRequest
	case errors.Is(err, marketplace.ErrResolution):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writePreflight(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
	h.Set("Access-Control-Max-Age", "3600")
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
