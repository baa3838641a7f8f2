package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	mcpgen "github.com/Fato07/mcp-server-generator"
	"github.com/Fato07/mcp-server-generator/enhance"
	"github.com/Fato07/mcp-server-generator/internal/cache"
	"github.com/Fato07/mcp-server-generator/internal/logging"
	"github.com/Fato07/mcp-server-generator/openapi"
	"github.com/Fato07/mcp-server-generator/providers"
)

const shutdownGrace = 10 * time.Second

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the enhancement pipeline over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, p, store, err := loadRuntime(configPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			registry := providers.NewRegistry()
			registry.Register(p)

			e := mcpgen.NewEnhancer(p, store, *cfg)
			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           newRouter(e, store, registry),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logging.Logger.Info("listening", "addr", srv.Addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logging.Logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "mcpgen.yaml", "path to config file")
	return cmd
}

func newRouter(e *enhance.Enhancer, store cache.Store, registry *providers.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(logging.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/v1/providers", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, registry.Capabilities())
	})

	r.Get("/v1/stats", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"cache":    store.Stats(),
			"enhancer": e.Metrics(),
		})
	})

	r.Post("/v1/estimate", func(w http.ResponseWriter, r *http.Request) {
		compressed, features, ok := decodeEnhanceRequest(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, e.Estimate(compressed, features))
	})

	r.Post("/v1/enhance", func(w http.ResponseWriter, r *http.Request) {
		compressed, features, ok := decodeEnhanceRequest(w, r)
		if !ok {
			return
		}
		result, err := e.Run(r.Context(), compressed, features)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, enhance.ErrBudgetExceeded) {
				status = http.StatusPaymentRequired
			}
			writeError(w, status, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	})

	return r
}

// enhanceRequest is the body of /v1/enhance and /v1/estimate: a raw OpenAPI
// document plus run options.
type enhanceRequest struct {
	Spec      json.RawMessage `json:"spec"`
	Features  []string        `json:"features,omitempty"`
	MaxTokens int             `json:"maxTokens,omitempty"`
}

func decodeEnhanceRequest(w http.ResponseWriter, r *http.Request) (*openapi.Compressed, []enhance.Feature, bool) {
	var req enhanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return nil, nil, false
	}
	if len(req.Spec) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("missing spec"))
		return nil, nil, false
	}

	doc, err := openapi.Parse(req.Spec)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parsing spec: %w", err))
		return nil, nil, false
	}
	compressed := openapi.Minify(doc)
	if req.MaxTokens > 0 {
		compressed = openapi.OptimizeForTokenLimit(compressed, req.MaxTokens)
	}

	var features []enhance.Feature
	for _, name := range req.Features {
		f, err := enhance.ParseFeature(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return nil, nil, false
		}
		features = append(features, f)
	}
	return compressed, features, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
