package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/habitquest/habitquest/internal/domain"
)

// ─── Habit endpoints (/api/users/{userID}/habits) ────────────────────────────

type createHabitRequest struct {
	Name               string `json:"name"`
	Description        string `json:"description,omitempty"`
	Category           string `json:"category,omitempty"`
	Frequency          string `json:"frequency"`
	TimesPerCompletion int    `json:"times_per_completion,omitempty"`
	XPReward           int    `json:"xp_reward"`
	CoinReward         int    `json:"coin_reward"`
	PenaltyXP          int    `json:"penalty_xp,omitempty"`
	ScheduleDays       []int  `json:"schedule_days,omitempty"`
}

func (s *Server) handleCreateHabit(w http.ResponseWriter, r *http.Request) {
	var req createHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Frequency arrives as a spec string ("daily", "3 days") and is
	// normalized here, at the boundary.
	freq, err := domain.ParseFrequency(req.Frequency)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h, err := s.habits.Create(r.Context(), domain.Habit{
		UserID:             chi.URLParam(r, "userID"),
		Name:               req.Name,
		Description:        req.Description,
		Category:           req.Category,
		Frequency:          freq,
		TimesPerCompletion: req.TimesPerCompletion,
		XPReward:           req.XPReward,
		CoinReward:         req.CoinReward,
		PenaltyXP:          req.PenaltyXP,
		ScheduleDays:       req.ScheduleDays,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidHabit) || errors.Is(err, domain.ErrInvalidFrequency) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, h)
}

func (s *Server) handleListHabits(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.habits.List(r.Context(), chi.URLParam(r, "userID"), time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"habits": statuses,
	})
}

func (s *Server) handleGetHabit(w http.ResponseWriter, r *http.Request) {
	h, err := s.habits.Get(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "habitID"))
	if err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h)
}

func (s *Server) handleCompleteHabit(w http.ResponseWriter, r *http.Request) {
	result, err := s.habits.Complete(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "habitID"), time.Now())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrHabitNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrNotEligible):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleDeleteHabit deactivates the habit so its history survives.
// With ?purge=1 the row is removed outright.
func (s *Server) handleDeleteHabit(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	habitID := chi.URLParam(r, "habitID")

	var err error
	if r.URL.Query().Get("purge") == "1" {
		err = s.habits.Delete(r.Context(), userID, habitID)
	} else {
		err = s.habits.Deactivate(r.Context(), userID, habitID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	result, err := s.habits.Sweep(r.Context(), chi.URLParam(r, "userID"), time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}
