package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/IshwariGadewar/SmartBasket/internal/utils"
	"github.com/IshwariGadewar/SmartBasket/pkg/availability"
	"github.com/IshwariGadewar/SmartBasket/pkg/search"
	"github.com/IshwariGadewar/SmartBasket/pkg/storage"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req search.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := s.Search.Search(r.Context(), req)
	if err != nil {
		if errors.Is(err, search.ErrInvalidRequest) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	areaCode := r.URL.Query().Get("area")
	if !utils.IsAreaCode(areaCode) {
		http.Error(w, "area must be a 6-digit pincode", http.StatusBadRequest)
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"availability": availability.Snapshot(areaCode),
	})
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		http.Error(w, "query parameter required", http.StatusBadRequest)
		return
	}

	suggestions := []string{query}
	if s.AI != nil {
		if got, err := s.AI.Suggestions(r.Context(), query); err != nil {
			utils.Log.Warnf("suggestions failed for %q: %v", query, err)
		} else if len(got) > 0 {
			suggestions = got
		}
	}
	json.NewEncoder(w).Encode(map[string][]string{"suggestions": suggestions})
}

type createAlertRequest struct {
	UserRef       string  `json:"user_ref"`
	ProductID     int64   `json:"product_id"`
	TargetPrice   float64 `json:"target_price"`
	AlertType     string  `json:"alert_type,omitempty"`
	CustomMessage string  `json:"custom_message,omitempty"`
	Frequency     string  `json:"frequency,omitempty"`
}

func (s *Server) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	var req createAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := s.DB.CreateAlert(r.Context(), storage.Alert{
		UserRef:       req.UserRef,
		ProductID:     req.ProductID,
		TargetPrice:   req.TargetPrice,
		AlertType:     req.AlertType,
		CustomMessage: req.CustomMessage,
		Frequency:     req.Frequency,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]int64{"alert_id": id})
}

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	userRef := r.URL.Query().Get("user")
	if userRef == "" {
		http.Error(w, "user parameter required", http.StatusBadRequest)
		return
	}

	alerts, err := s.DB.ListAlertsByUser(r.Context(), userRef)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if alerts == nil {
		alerts = []storage.Alert{}
	}
	json.NewEncoder(w).Encode(map[string][]storage.Alert{"alerts": alerts})
}

func (s *Server) handleDeleteAlert(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid alert id", http.StatusBadRequest)
		return
	}
	userRef := r.URL.Query().Get("user")
	if userRef == "" {
		http.Error(w, "user parameter required", http.StatusBadRequest)
		return
	}

	if err := s.DB.DeleteAlert(r.Context(), id, userRef); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "alert not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

func (s *Server) handleSetAlertActive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid alert id", http.StatusBadRequest)
		return
	}

	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.DB.SetAlertActive(r.Context(), id, req.Active); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "alert not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	product, err := s.DB.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(product)
}

func (s *Server) handlePriceHistory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	history, err := s.DB.GetPriceHistory(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if history == nil {
		history = []storage.PricePoint{}
	}
	json.NewEncoder(w).Encode(map[string][]storage.PricePoint{"price_history": history})
}
