package v1

import (
	"maps"
	"net/http"
	"slices"

	"github.com/vmunix/marquee/internal/events"
)

func (s *Server) loadingSnapshot() loadingResponse {
	ops := s.deps.Tracker.List()
	resp := loadingResponse{
		Active:     len(ops) > 0,
		Count:      len(ops),
		Operations: ops,
	}
	if len(ops) > 0 {
		current := ops[len(ops)-1]
		resp.Current = &current
	}
	return resp
}

func (s *Server) getLoading(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.loadingSnapshot())
}

func (s *Server) getCache(w http.ResponseWriter, r *http.Request) {
	resp := cacheResponse{Caches: make(map[string]cacheInfo, len(s.deps.Caches))}
	for name, c := range s.deps.Caches {
		resp.Caches[name] = cacheInfo{Stats: c.Stats(), TTLSeconds: c.TTL().Seconds()}
	}
	writeJSON(w, http.StatusOK, resp)
}

// clearCache empties every named cache, or only ?name= when given.
func (s *Server) clearCache(w http.ResponseWriter, r *http.Request) {
	names := slices.Sorted(maps.Keys(s.deps.Caches))
	if name := queryString(r, "name"); name != "" {
		if _, ok := s.deps.Caches[name]; !ok {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Unknown cache: "+name)
			return
		}
		names = []string{name}
	}

	resp := clearCacheResponse{Cleared: make(map[string]int, len(names))}
	for _, name := range names {
		c := s.deps.Caches[name]
		n := c.Len()
		c.Clear()
		resp.Cleared[name] = n
		s.logger.Info("cache cleared", "cache", name, "entries", n)
		s.publish(r.Context(), &events.CacheCleared{
			BaseEvent: events.NewBaseEvent(events.EventCacheCleared, events.EntityCache, name),
			Cache:     name,
			Entries:   n,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// getStatus reports configuration health. ?check=true also makes a live
// TMDB call.
func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Status:          "ok",
		Version:         s.deps.Version,
		TMDB:            s.deps.Catalog.ConfigStatus(),
		Recommendations: s.deps.Recommender != nil,
		ActiveLoads:     s.deps.Tracker.Count(),
	}
	if !resp.TMDB.Valid {
		resp.Status = "degraded"
	}
	if queryString(r, "check") == "true" {
		check, err := s.deps.Catalog.TestConfiguration(r.Context())
		if err != nil {
			resp.Status = "degraded"
			resp.TMDBError = err.Error()
		} else {
			resp.TMDBCheck = check
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
