package httpapi

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"reviewsense/internal/domain"
	"reviewsense/internal/usecase"
)

//go:embed static
var staticFiles embed.FS

const (
	msgMissingText = "JSON must include 'text' field"
	msgEmptyText   = "Empty text provided"
)

// Analyzer scores one review.
type Analyzer interface {
	Analyze(text string) (domain.AnalysisResult, error)
}

// Handler serves the landing page and the prediction API.
type Handler struct {
	analyzer     Analyzer
	fingerprint  string
	maxBodyBytes int64
	mux          *http.ServeMux
}

// NewHandler wires the routes. maxBodyBytes <= 0 means 1 MiB.
func NewHandler(analyzer Analyzer, fingerprint string, maxBodyBytes int64) *Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = 1 << 20
	}

	h := &Handler{
		analyzer:     analyzer,
		fingerprint:  fingerprint,
		maxBodyBytes: maxBodyBytes,
		mux:          http.NewServeMux(),
	}

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}

	h.mux.HandleFunc("POST /predict", h.predict)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.Handle("GET /", http.FileServerFS(static))

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	defer func() {
		if p := recover(); p != nil {
			err := panicError(p)
			slog.Error("[HTTP] Panic while serving request",
				slog.String("path", r.URL.Path),
				slog.String("error", err.Error()),
				slog.String("stack", string(debug.Stack())))
			writeException(rec, err)
		}
		slog.Debug("[HTTP] Request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("took", time.Since(start)))
	}()

	h.mux.ServeHTTP(rec, r)
}

func (h *Handler) predict(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, msgMissingText)
		return
	}

	text, ok := textField(body)
	if !ok {
		writeMessage(w, http.StatusBadRequest, msgMissingText)
		return
	}
	if text == "" {
		writeMessage(w, http.StatusBadRequest, msgEmptyText)
		return
	}

	result, err := h.analyzer.Analyze(text)
	if err != nil {
		slog.Error("[HTTP] Prediction failed",
			slog.String("error", err.Error()),
			slog.String("stack", string(debug.Stack())))
		writeException(w, err)
		return
	}

	writeJSON(w, http.StatusOK, usecase.NewPrediction(result))
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"model":  h.fingerprint,
	})
}

type errorMessage struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type exceptionMessage struct {
	Error         bool   `json:"error"`
	ExceptionType string `json:"exception_type"`
	ExceptionStr  string `json:"exception_str"`
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorMessage{Error: true, Message: msg})
}

func writeException(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, exceptionMessage{
		Error:         true,
		ExceptionType: exceptionType(err),
		ExceptionStr:  err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("[HTTP] Failed to write response", slog.String("error", err.Error()))
	}
}

// exceptionType names the dynamic type of the innermost wrapped error.
func exceptionType(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", err), "*")
}

type panicValue struct {
	value any
}

func (p *panicValue) Error() string {
	return fmt.Sprint(p.value)
}

func panicError(p any) error {
	if err, ok := p.(error); ok {
		return err
	}
	return &panicValue{value: p}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
