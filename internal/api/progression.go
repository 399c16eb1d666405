package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/habitquest/habitquest/internal/domain"
)

// ─── Progression endpoints (/api/users/{userID}/...) ─────────────────────────

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	account, err := s.progress.Account(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, account)
}

type spendCoinsRequest struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason,omitempty"`
}

func (s *Server) handleSpendCoins(w http.ResponseWriter, r *http.Request) {
	var req spendCoinsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	if req.Reason == "" {
		req.Reason = domain.SourceSpend
	}

	account, ok, err := s.progress.SpendCoins(r.Context(), chi.URLParam(r, "userID"), req.Amount, req.Reason)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusConflict, domain.ErrInsufficientFunds.Error())
		return
	}

	writeJSON(w, http.StatusOK, account)
}

type purchaseRewardRequest struct {
	Cost int `json:"cost"`
}

func (s *Server) handlePurchaseReward(w http.ResponseWriter, r *http.Request) {
	var req purchaseRewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Cost < 0 {
		writeError(w, http.StatusBadRequest, "cost must not be negative")
		return
	}

	account, err := s.progress.PurchaseReward(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "rewardID"), req.Cost)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientFunds), errors.Is(err, domain.ErrAlreadyPurchased):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleListPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := s.progress.Purchases(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"purchases": purchases,
	})
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	unlocked, err := s.progress.Achievements(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"achievements": unlocked,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := s.progress.History(r.Context(), chi.URLParam(r, "userID"), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"history": entries,
	})
}
