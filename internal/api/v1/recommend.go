package v1

import (
	"net/http"
	"strconv"

	"github.com/vmunix/marquee/internal/events"
)

func (s *Server) recommendations(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	liked, err := s.deps.Likes.List(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	resp, err := s.deps.Recommender.Recommend(r.Context(), liked)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "RECOMMEND_ERROR", err.Error())
		return
	}

	if len(resp.Recommendations) > 0 {
		s.publish(r.Context(), &events.RecommendationsGenerated{
			BaseEvent:   events.NewBaseEvent(events.EventRecommendationsGenerated, events.EntityUser, strconv.FormatInt(user.ID, 10)),
			UserID:      user.ID,
			Count:       len(resp.Recommendations),
			AIGenerated: resp.Success,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
