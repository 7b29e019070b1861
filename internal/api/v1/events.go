package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/vmunix/marquee/internal/events"
)

const (
	streamBuffer    = 32
	streamHeartbeat = 15 * time.Second
)

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)

	if limit < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_PAGINATION", "limit must be non-negative")
		return
	}
	const maxLimit = 1000
	if limit > maxLimit {
		limit = maxLimit
	}

	if s.deps.EventLog == nil {
		writeError(w, http.StatusServiceUnavailable, "NO_EVENT_LOG", "Event log not configured")
		return
	}

	var (
		raw []events.RawEvent
		err error
	)
	if entityType := queryString(r, "entity_type"); entityType != "" {
		raw, err = s.deps.EventLog.ForEntity(entityType, queryString(r, "entity_id"))
		if len(raw) > limit {
			raw = raw[len(raw)-limit:]
		}
	} else {
		raw, err = s.deps.EventLog.Recent(limit)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}

	registry := events.DefaultRegistry()
	resp := listEventsResponse{
		Items: make([]EventResponse, len(raw)),
		Total: len(raw),
		Limit: limit,
	}
	for i, e := range raw {
		resp.Items[i] = EventResponse{
			ID:         e.ID,
			EventType:  e.EventType,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			OccurredAt: e.OccurredAt.Format(time.RFC3339),
		}
		if typed, err := registry.Unmarshal(e); err == nil {
			resp.Items[i].Payload = typed
		} else {
			resp.Items[i].Payload = json.RawMessage(e.Payload)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// streamLoading sends the tracker state as server-sent events: a snapshot
// first, then every operation start and stop until the client goes away.
func (s *Server) streamLoading(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "STREAMING_UNSUPPORTED", "Streaming not supported")
		return
	}

	ch := s.deps.Bus.SubscribeAll(streamBuffer)
	defer s.deps.Bus.Unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeSSE(w, "snapshot", s.loadingSnapshot()); err != nil {
		return
	}
	flusher.Flush()

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case e, ok := <-ch:
			if !ok {
				return
			}
			if e.EntityType() != events.EntityOperation {
				continue
			}
			if err := writeSSE(w, e.EventType(), e); err != nil {
				s.logger.Debug("loading stream closed", "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, name string, data any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, b)
	return err
}
