package server

import (
	"net/http"

	"github.com/IshwariGadewar/SmartBasket/internal/utils"
	"github.com/IshwariGadewar/SmartBasket/pkg/ai"
	"github.com/IshwariGadewar/SmartBasket/pkg/search"
	"github.com/IshwariGadewar/SmartBasket/pkg/storage"
)

type Server struct {
	DB       *storage.DB
	Search   *search.Service
	AI       *ai.Client // optional; nil disables suggestions beyond the echo fallback
	Username string
	Password string
}

func New(db *storage.DB, svc *search.Service, client *ai.Client, user, pass string) *Server {
	return &Server{
		DB:       db,
		Search:   svc,
		AI:       client,
		Username: user,
		Password: pass,
	}
}

func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()

	// API Group
	mux.HandleFunc("POST /api/search", s.basicAuth(s.handleSearch))
	mux.HandleFunc("GET /api/availability", s.basicAuth(s.handleAvailability))
	mux.HandleFunc("GET /api/suggestions", s.basicAuth(s.handleSuggestions))
	mux.HandleFunc("POST /api/alerts", s.basicAuth(s.handleCreateAlert))
	mux.HandleFunc("GET /api/alerts", s.basicAuth(s.handleListAlerts))
	mux.HandleFunc("DELETE /api/alerts/{id}", s.basicAuth(s.handleDeleteAlert))
	mux.HandleFunc("POST /api/alerts/{id}/active", s.basicAuth(s.handleSetAlertActive))
	mux.HandleFunc("GET /api/products/{id}", s.basicAuth(s.handleGetProduct))
	mux.HandleFunc("GET /api/products/{id}/history", s.basicAuth(s.handlePriceHistory))

	utils.Log.Infof("Starting server on %s", addr)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Username == "" && s.Password == "" {
			next(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Username || pass != s.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
