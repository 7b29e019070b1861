package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/vmunix/marquee/internal/events"
	"github.com/vmunix/marquee/internal/likes"
)

func (s *Server) listLikes(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	items, err := s.deps.Likes.List(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	canRecommend, err := s.deps.Likes.CanRecommend(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, listLikesResponse{
		Items:        items,
		Total:        len(items),
		CanRecommend: canRecommend,
	})
}

// likeTarget builds the movie snapshot from the optional request body.
func likeTarget(r *http.Request, id int64) (likes.Movie, error) {
	var req likeRequest
	if r.ContentLength != 0 {
		if err := decodeBody(r, &req); err != nil {
			return likes.Movie{}, err
		}
	}
	return likes.Movie{
		TMDBID:      id,
		Title:       req.Title,
		Overview:    req.Overview,
		ReleaseDate: req.ReleaseDate,
		PosterPath:  req.PosterPath,
		VoteAverage: req.VoteAverage,
	}, nil
}

// fillFromCatalog completes a snapshot that arrived without a title.
func (s *Server) fillFromCatalog(r *http.Request, movie *likes.Movie) error {
	if movie.Title != "" {
		return nil
	}
	details, err := s.deps.Catalog.MovieDetails(r.Context(), movie.TMDBID)
	if err != nil {
		return err
	}
	movie.Title = details.Title
	movie.Overview = details.Overview
	movie.ReleaseDate = details.ReleaseDate
	movie.PosterPath = details.PosterPath
	movie.VoteAverage = details.VoteAverage
	return nil
}

func (s *Server) publishLiked(r *http.Request, userID int64, movie likes.Movie) {
	s.publish(r.Context(), &events.MovieLiked{
		BaseEvent: events.NewBaseEvent(events.EventMovieLiked, events.EntityMovie, strconv.FormatInt(movie.TMDBID, 10)),
		UserID:    userID,
		TMDBID:    movie.TMDBID,
		Title:     movie.Title,
	})
}

func (s *Server) publishUnliked(r *http.Request, userID, tmdbID int64) {
	s.publish(r.Context(), &events.MovieUnliked{
		BaseEvent: events.NewBaseEvent(events.EventMovieUnliked, events.EntityMovie, strconv.FormatInt(tmdbID, 10)),
		UserID:    userID,
		TMDBID:    tmdbID,
	})
}

func (s *Server) likeMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	movie, err := likeTarget(r, id)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := s.fillFromCatalog(r, &movie); err != nil {
		writeCatalogError(w, err)
		return
	}

	user := userFrom(r.Context())
	liked, err := s.deps.Likes.Like(r.Context(), user.ID, movie)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	s.publishLiked(r, user.ID, liked)
	writeJSON(w, http.StatusOK, liked)
}

// toggleLike flips the liked state. Metadata is only looked up when the
// toggle is going to add the movie.
func (s *Server) toggleLike(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	movie, err := likeTarget(r, id)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	user := userFrom(r.Context())
	already, err := s.deps.Likes.IsLiked(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	if !already {
		if err := s.fillFromCatalog(r, &movie); err != nil {
			writeCatalogError(w, err)
			return
		}
	}

	liked, err := s.deps.Likes.Toggle(r.Context(), user.ID, movie)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	if liked {
		s.publishLiked(r, user.ID, movie)
	} else {
		s.publishUnliked(r, user.ID, id)
	}
	writeJSON(w, http.StatusOK, toggleLikeResponse{TMDBID: id, Liked: liked})
}

func (s *Server) unlikeMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	user := userFrom(r.Context())
	if err := s.deps.Likes.Unlike(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, likes.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Movie is not liked")
			return
		}
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	s.publishUnliked(r, user.ID, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clearLikes(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	n, err := s.deps.Likes.Clear(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	s.publish(r.Context(), &events.LikesCleared{
		BaseEvent: events.NewBaseEvent(events.EventLikesCleared, events.EntityUser, strconv.FormatInt(user.ID, 10)),
		UserID:    user.ID,
		Removed:   n,
	})
	writeJSON(w, http.StatusOK, clearLikesResponse{Removed: n})
}

func (s *Server) getPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.deps.Likes.Preferences(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (s *Server) updatePreferences(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	// Start from the stored values so a partial body only changes what it names.
	prefs, err := s.deps.Likes.Preferences(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	if err := decodeBody(r, &prefs); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	prefs, err = s.deps.Likes.UpdatePreferences(r.Context(), user.ID, prefs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}
