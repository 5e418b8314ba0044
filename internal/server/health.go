package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// handleHealth probes auth, blob storage, and the record store
// concurrently. Any failing dependency degrades the overall status and
// the response code.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var mu sync.Mutex
	checks := map[string]string{}
	record := func(name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			checks[name] = "unhealthy: " + err.Error()
			return
		}
		checks[name] = "ok"
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		record("auth", s.verifier.Ping())
		return nil
	})
	g.Go(func() error {
		record("blob", s.blobs.Ping(gctx))
		return nil
	})
	g.Go(func() error {
		record("store", s.records.Ping(gctx))
		return nil
	})
	_ = g.Wait()

	status := "ok"
	code := http.StatusOK
	for _, v := range checks {
		if v != "ok" {
			status = "degraded"
			code = http.StatusServiceUnavailable
			break
		}
	}
	writeJSON(w, code, healthResponse{Status: status, Checks: checks})
}
