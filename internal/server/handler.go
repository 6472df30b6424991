package server

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/muurk/treebrowse/internal/listing"
	"github.com/muurk/treebrowse/internal/logging"
	"github.com/muurk/treebrowse/internal/version"
)

// errorBody is the JSON body of a failed request
type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get(s.cfg.ListingPath, s.handleListing)
	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// requestLogger logs each request and records its metrics
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		metricHTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		metricHTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
		logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.RequestURI(), status, elapsed)
	})
}

func (s *Server) handleListing(w http.ResponseWriter, r *http.Request) {
	uid := r.URL.Query().Get("uid")

	rec, err := s.index.List(uid)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, ErrUnknownUID), errors.Is(err, fs.ErrNotExist):
			status = http.StatusNotFound
		case errors.Is(err, ErrNotFolder):
			status = http.StatusBadRequest
		}
		if status == http.StatusInternalServerError {
			logging.Error("Listing failed", zap.String("uid", uid), zap.Error(err))
		}
		writeJSON(w, status, errorBody{Error: err.Error()})
		return
	}

	metricListingEntries.Observe(float64(len(rec.Listing)))
	metricIndexSize.Set(float64(s.index.Len()))

	writeJSON(w, http.StatusOK, listing.Response{Results: []listing.Record{*rec}})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Debug("Failed to write response", zap.Error(err))
	}
}
