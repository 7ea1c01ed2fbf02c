package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mchmarny/purk/pkg/form"
	"github.com/mchmarny/purk/pkg/risk"
)

const maxRequestBytes = 1 << 16

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *server) evaluateAPIHandler(w http.ResponseWriter, r *http.Request) {
	var req form.Request

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		slog.Debug("failed to decode evaluation request", "error", err)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	s.evaluate(w, &req)
}

func (s *server) evaluateQueryAPIHandler(w http.ResponseWriter, r *http.Request) {
	req, err := form.FromValues(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.evaluate(w, req)
}

func (s *server) evaluate(w http.ResponseWriter, req *form.Request) {
	in, err := req.Input(s.defaults())
	if err != nil {
		if errors.Is(err, form.ErrInvalid) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to build evaluation input", "error", err)
		writeError(w, http.StatusInternalServerError, "error evaluating request")
		return
	}

	writeJSON(w, http.StatusOK, risk.Evaluate(in))
}

func matrixAPIHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, risk.Matrix())
}

func healthAPIHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
