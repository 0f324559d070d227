package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	kberrors "github.com/matzehuels/kbgraph/pkg/errors"
	"github.com/matzehuels/kbgraph/pkg/pipeline"
	"github.com/matzehuels/kbgraph/pkg/session"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:   "image/svg+xml",
	pipeline.FormatNeato: "image/svg+xml",
	pipeline.FormatPNG:   "image/png",
	pipeline.FormatPDF:   "application/pdf",
	pipeline.FormatJSON:  "application/json",
	pipeline.FormatDOT:   "text/vnd.graphviz; charset=utf-8",
}

type errorBody struct {
	Error struct {
		Code    kberrors.Code `json:"code"`
		Message string        `json:"message"`
	} `json:"error"`
}

func respondJSON(w http.ResponseWriter, logger *log.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

func respondArtifact(w http.ResponseWriter, format string, data []byte, demo bool) {
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Cache-Control", "no-store")
	if demo {
		w.Header().Set("X-Kbgraph-Demo", "true")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// respondError writes err as {"error": {"code", "message"}} with a status
// derived from its code. Uncoded errors are internal.
func respondError(w http.ResponseWriter, logger *log.Logger, err error) {
	code := kberrors.GetCode(err)
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrExpired):
		code = kberrors.ErrCodeSessionNotFound
	case code == "":
		code = kberrors.ErrCodeInternal
	}

	status := statusFor(code)
	if status >= 500 {
		logger.Error("request failed", "code", code, "err", err)
	}

	var body errorBody
	body.Error.Code = code
	body.Error.Message = kberrors.UserMessage(err)
	if status == http.StatusInternalServerError {
		body.Error.Message = "internal error"
	}
	respondJSON(w, logger, status, body)
}

func statusFor(code kberrors.Code) int {
	switch code {
	case kberrors.ErrCodeInvalidInput, kberrors.ErrCodeInvalidGraph, kberrors.ErrCodeInvalidNodeID,
		kberrors.ErrCodeInvalidFormat, kberrors.ErrCodeInvalidStyle, kberrors.ErrCodeInvalidSize,
		kberrors.ErrCodeInvalidEvent, kberrors.ErrCodeInvalidSource:
		return http.StatusBadRequest
	case kberrors.ErrCodeNotFound, kberrors.ErrCodeFileNotFound, kberrors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case kberrors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case kberrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case kberrors.ErrCodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
