package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/empirehq/trustcore/internal/secrets/cache"
)

// cacheStatsResponse represents cache statistics in API responses.
// Entries carry hashed key digests only, never plaintext keys or values.
type cacheStatsResponse struct {
	Size      int               `json:"size"`
	Encrypted bool              `json:"encrypted"`
	Entries   []cacheEntryStats `json:"entries"`
}

type cacheEntryStats struct {
	HashedKey string `json:"hashed_key"`
	Source    string `json:"source"`
	AgeMs     int64  `json:"age_ms"`
}

func mapCacheStats(stats cache.Stats) cacheStatsResponse {
	entries := make([]cacheEntryStats, 0, len(stats.Entries))
	for _, entry := range stats.Entries {
		entries = append(entries, cacheEntryStats{
			HashedKey: entry.HashedKey,
			Source:    string(entry.Source),
			AgeMs:     entry.AgeMs,
		})
	}

	return cacheStatsResponse{
		Size:      stats.Size,
		Encrypted: stats.Encrypted,
		Entries:   entries,
	}
}

// cacheStatsHandler returns resolver cache statistics.
// GET /v1/cache/stats - Requires OPERATOR role.
func (s *Server) cacheStatsHandler(c *gin.Context) {
	if s.resolver == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "resolver not configured"})
		return
	}

	c.JSON(http.StatusOK, mapCacheStats(s.resolver.CacheStats()))
}

// cacheClearHandler drops every cached secret.
// POST /v1/cache/clear - Requires ADMIN role and the cache:clear permission.
func (s *Server) cacheClearHandler(c *gin.Context) {
	if s.resolver == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "resolver not configured"})
		return
	}

	s.resolver.ClearCache()
	s.logger.Info("resolver cache cleared")

	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
