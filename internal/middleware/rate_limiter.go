package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Alexagz79190/promo/internal/apierror"
)

// rateEntry tracks request counts per IP within a sliding window.
type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

// RateLimiter returns a sliding-window per-IP rate limiter. Each mounted
// instance keeps its own per-IP map, so routes with different limits never
// share a budget. A calculation upload is heavy (three workbooks parsed per
// call), so the compute route is mounted with a much lower limit than the
// downloads.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	var (
		entries   = make(map[string]*rateEntry)
		entriesMu sync.Mutex
	)
	go purgeExpiredEntries(entries, &entriesMu)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		entriesMu.Lock()
		entry, exists := entries[ip]
		if !exists {
			entry = &rateEntry{}
			entries[ip] = entry
		}
		entriesMu.Unlock()

		entry.mu.Lock()
		defer entry.mu.Unlock()

		now := time.Now()
		if now.After(entry.windowEnd) {
			entry.count = 0
			entry.windowEnd = now.Add(window)
		}

		entry.count++
		if entry.count > limit {
			c.Header("Retry-After", entry.windowEnd.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Trop de requêtes. Réessayez dans un instant."))
			return
		}
		c.Next()
	}
}

// ── Purge goroutine ───────────────────────────────────────────────────────────
// Periodically removes expired entries to prevent a limiter's map from
// accumulating IPs that never return.

const purgeInterval = 5 * time.Minute

func purgeExpiredEntries(entries map[string]*rateEntry, mu *sync.Mutex) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()

		mu.Lock()
		purged := 0
		for ip, entry := range entries {
			entry.mu.Lock()
			if now.After(entry.windowEnd) {
				delete(entries, ip)
				purged++
			}
			entry.mu.Unlock()
		}
		remaining := len(entries)
		mu.Unlock()

		if purged > 0 {
			log.Debug().
				Int("entries_purged", purged).
				Int("entries_remaining", remaining).
				Msg("rate limiter map purged")
		}
	}
}
