// cmd/router-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"insight-router/internal/classifier"
	"insight-router/internal/common/config"
	commonerrors "insight-router/internal/common/errors"
	"insight-router/internal/common/logger"
	"insight-router/internal/common/observability"
	"insight-router/internal/models"
	"insight-router/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	zapLog.Info("Starting router manager...",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("router-manager")
	defer obs.Shutdown()

	// Classifier configuration is fatal at startup: a process with a broken
	// catalog must not accept traffic.
	snap, err := classifier.LoadSnapshot(
		cfg.Classifier.SectorLexicon,
		cfg.Classifier.MetricLexicon,
		cfg.Classifier.Catalog,
	)
	if err != nil {
		zapLog.Fatal("classifier configuration invalid", zap.Error(err))
	}

	provider := classifier.NewProvider(snap)
	cls := classifier.New(provider, cfg.Classifier.MinConfidence, log)
	rtr := router.New(cls, provider, cfg.Router.Registry, log)

	zapLog.Info("classifier snapshot loaded",
		zap.Int("intents", len(snap.Catalog.Intents)),
		zap.Int("sectors", len(snap.Lexicons.Sectors)),
		zap.Int("metrics", len(snap.Lexicons.Metrics)),
		zap.Int("registeredAgents", len(cfg.Router.Registry)),
	)

	srv := &server{
		classifier: cls,
		router:     rtr,
		obs:        obs,
		logger:     log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/classify", srv.handleClassify)
	mux.HandleFunc("/api/route", srv.handleRoute)
	mux.HandleFunc("/healthz", srv.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Server.Port),
		Handler: mux,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// SIGHUP reloads lexicons and catalog; a failed reload keeps the running
	// snapshot so a bad edit never takes the service down.
	reloadCh := make(chan os.Signal, 1)
	signal.Notify(reloadCh, syscall.SIGHUP)
	go func() {
		for range reloadCh {
			fresh, err := classifier.LoadSnapshot(
				cfg.Classifier.SectorLexicon,
				cfg.Classifier.MetricLexicon,
				cfg.Classifier.Catalog,
			)
			if err != nil {
				zapLog.Error("snapshot reload failed, keeping current snapshot", zap.Error(err))
				continue
			}
			provider.Swap(fresh)
			zapLog.Info("snapshot reloaded",
				zap.Int("intents", len(fresh.Catalog.Intents)),
				zap.Int("sectors", len(fresh.Lexicons.Sectors)),
				zap.Int("metrics", len(fresh.Lexicons.Metrics)),
			)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Router manager stopped gracefully")
}

type server struct {
	classifier *classifier.Classifier
	router     *router.Router
	obs        *observability.Observability
	logger     logger.Logger
}

type classifyRequest struct {
	RequestID string `json:"requestId,omitempty"`
	Text      string `json:"text"`
}

type errorResponse struct {
	RequestID string                            `json:"requestId"`
	Error     *commonerrors.ClassificationError `json:"error"`
}

func (s *server) handleClassify(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() { s.obs.RecordDuration(r.Context(), "classify", time.Since(start)) }()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.obs.RecordRequest(r.Context(), "classify", "bad_request")
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	result, err := s.classifier.Classify(req.Text)
	if err != nil {
		s.writeError(w, r, "classify", requestID, err)
		return
	}

	s.obs.RecordRequest(r.Context(), "classify", "ok")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"requestId":      requestID,
		"classification": result,
	})
}

func (s *server) handleRoute(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() { s.obs.RecordDuration(r.Context(), "route", time.Since(start)) }()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var desc models.TaskDescriptor
	if err := json.NewDecoder(r.Body).Decode(&desc); err != nil {
		s.obs.RecordRequest(r.Context(), "route", "bad_request")
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if desc.RequestID == "" {
		desc.RequestID = uuid.NewString()
	}

	decision, err := s.router.Route(desc)
	if err != nil {
		s.writeError(w, r, "route", desc.RequestID, err)
		return
	}

	s.obs.RecordRequest(r.Context(), "route", "ok")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"requestId": desc.RequestID,
		"decision":  decision,
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// writeError maps the error taxonomy onto HTTP: recoverable classification
// and routing errors are 422 (the caller can fix the request), everything
// else is 500.
func (s *server) writeError(w http.ResponseWriter, r *http.Request, endpoint, requestID string, err error) {
	code := commonerrors.CodeOf(err)
	s.obs.RecordRequest(r.Context(), endpoint, string(code))

	status := http.StatusInternalServerError
	if commonerrors.IsRecoverable(err) {
		status = http.StatusUnprocessableEntity
	}

	s.logger.Warn("request failed", map[string]interface{}{
		"requestId": requestID,
		"endpoint":  endpoint,
		"errorCode": string(code),
	})

	if ce, ok := err.(*commonerrors.ClassificationError); ok {
		writeJSON(w, status, errorResponse{RequestID: requestID, Error: ce})
		return
	}
	http.Error(w, "internal error", status)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
