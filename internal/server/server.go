package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/newsloom/newsloom/internal/models"
	"github.com/sirupsen/logrus"
)

// FeedService is the feed assembly contract the HTTP layer consumes.
type FeedService interface {
	GetFeedPage(ctx context.Context, page, limit int, query string) (*models.FeedPage, error)
}

// TrendService exposes the trending sidebar data and run metrics.
type TrendService interface {
	TrendingKeywords(ctx context.Context) models.TrendSet
	GetMetrics() string
}

// InteractionStore is the write+read contract for the interactions endpoint.
type InteractionStore interface {
	Add(ctx context.Context, interaction models.Interaction) error
	FindByURL(ctx context.Context, articleURL string) ([]models.Interaction, error)
}

// Server is the HTTP surface over the feed pipeline.
type Server struct {
	feed         FeedService
	trends       TrendService
	store        InteractionStore
	defaultLimit int
	router       *mux.Router
}

// New creates the server and registers its routes.
func New(feedService FeedService, trends TrendService, store InteractionStore, defaultLimit int) *Server {
	s := &Server{
		feed:         feedService,
		trends:       trends,
		store:        store,
		defaultLimit: defaultLimit,
		router:       mux.NewRouter(),
	}

	s.router.HandleFunc("/api/feed", s.handleFeed).Methods("GET")
	s.router.HandleFunc("/api/trending", s.handleTrending).Methods("GET")
	s.router.HandleFunc("/api/interactions", s.handleInteractions).Methods("POST")
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/metrics", s.handleMetrics).Methods("GET")

	return s
}

// Handler returns the router for mounting into an http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", s.defaultLimit)
	query := r.URL.Query().Get("q")

	if page < 1 || limit < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "page and limit must be positive"})
		return
	}

	result, err := s.feed.GetFeedPage(r.Context(), page, limit, query)
	if err != nil {
		// Only catastrophic failures reach this branch; partial
		// degradation already produced a smaller page upstream.
		logrus.Errorf("Feed request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.trends.TrendingKeywords(r.Context()))
}

type interactionRequest struct {
	Action  string `json:"action"`
	URL     string `json:"url"`
	Comment string `json:"comment"`
	UserID  string `json:"userId"`
}

func (s *Server) handleInteractions(w http.ResponseWriter, r *http.Request) {
	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid Request"})
		return
	}

	interaction := models.Interaction{
		UserID:     req.UserID,
		ArticleURL: req.URL,
	}

	switch {
	case req.Action == models.InteractionLike && req.URL != "":
		interaction.Type = models.InteractionLike
	case req.Action == models.InteractionComment && req.URL != "" && req.Comment != "":
		interaction.Type = models.InteractionComment
		interaction.Content = req.Comment
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid Request"})
		return
	}

	if err := s.store.Add(r.Context(), interaction); err != nil {
		logrus.Errorf("Failed to store interaction: %v", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid Request"})
		return
	}

	// Echo the updated aggregates so the client can render without a
	// second round trip.
	likes := 0
	comments := []models.Comment{}
	all, err := s.store.FindByURL(r.Context(), req.URL)
	if err != nil {
		logrus.Errorf("Failed to read back interactions: %v", err)
	} else {
		for _, in := range all {
			switch in.Type {
			case models.InteractionLike:
				likes++
			case models.InteractionComment:
				comments = append(comments, models.Comment{Text: in.Content, Timestamp: in.CreatedAt})
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"likes":    likes,
		"comments": comments,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(s.trends.GetMetrics()))
}

func queryInt(r *http.Request, key string, fallback int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("Failed to encode response: %v", err)
	}
}
