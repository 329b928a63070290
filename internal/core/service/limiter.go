package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type Limiter interface {
	Allow(clientAddr string) bool
}

// RequestLimiter bounds how many restoration requests a single client
// address may issue per window. Counters reset wholesale when the window
// rolls over.
type RequestLimiter struct {
	clients map[string]int
	limit   int
	window  time.Duration
	mutex   sync.Mutex
}

func NewRequestLimiter(ctx context.Context, limit int, window time.Duration) *RequestLimiter {
	rl := &RequestLimiter{
		clients: make(map[string]int),
		limit:   limit,
		window:  window,
	}

	go rl.sweep(ctx)

	return rl
}

// Allow records one request for the client and reports whether it stays
// within the window limit.
func (l *RequestLimiter) Allow(clientAddr string) bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if l.clients[clientAddr] >= l.limit {
		return false
	}

	l.clients[clientAddr]++

	return true
}

func (l *RequestLimiter) sweep(ctx context.Context) {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			log.Debug().Msg("resetting request window")
			l.mutex.Lock()
			l.clients = make(map[string]int)
			l.mutex.Unlock()
		case <-ctx.Done():
			log.Debug().Msg("stopping request limiter")
			return
		}
	}
}
