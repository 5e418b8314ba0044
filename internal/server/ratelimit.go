package server

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/magellan-group/report-triage/internal/apperr"
	"github.com/magellan-group/report-triage/internal/auth"
)

// userLimiter throttles extraction calls per user. Extraction is the
// expensive path; reads are unthrottled.
type userLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	perMin   int
}

func newUserLimiter(perMin int) *userLimiter {
	return &userLimiter{
		limiters: make(map[string]*rate.Limiter),
		perMin:   perMin,
	}
}

func (ul *userLimiter) allow(userID string) bool {
	ul.mu.Lock()
	lim, ok := ul.limiters[userID]
	if !ok {
		lim = rate.NewLimiter(rate.Every(time.Minute/time.Duration(ul.perMin)), ul.perMin)
		ul.limiters[userID] = lim
	}
	ul.mu.Unlock()
	return lim.Allow()
}

// rateLimit rejects a user's request once their extraction budget for
// the window is spent.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(auth.UserID(r.Context())) {
			writeError(w, r, apperr.New(apperr.KindRateLimited,
				"too many extraction requests, slow down"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
