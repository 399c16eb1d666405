package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/habitquest/habitquest/internal/app/habit"
	"github.com/habitquest/habitquest/internal/app/progression"
	"github.com/habitquest/habitquest/internal/domain"
	"github.com/habitquest/habitquest/internal/infra/sqlite"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	progress := progression.NewService(db)
	return NewServer(habit.NewService(db, progress), progress)
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func createTestHabit(t *testing.T, srv *Server) domain.Habit {
	t.Helper()
	w := doJSON(t, srv, "POST", "/api/users/u1/habits",
		`{"name":"Read","frequency":"daily","xp_reward":50,"coin_reward":10,"penalty_xp":20}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body)
	}
	var h domain.Habit
	if err := json.NewDecoder(w.Body).Decode(&h); err != nil {
		t.Fatalf("decode habit: %v", err)
	}
	return h
}

// ─── Health / Meta ──────────────────────────────────────────────────────────

func TestAPI_Health(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, "GET", "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["status"] != "ok" {
		t.Errorf("status = %q, unexpected", body["status"])
	}
}

func TestAPI_Version(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, "GET", "/api/version", "")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["version"] != Version {
		t.Errorf("version = %q, want %q", body["version"], Version)
	}
}

// ─── Habits ─────────────────────────────────────────────────────────────────

func TestAPI_CreateAndListHabits(t *testing.T) {
	srv := newTestServer(t)
	h := createTestHabit(t, srv)

	if h.ID == "" || h.Frequency != domain.Daily || !h.IsActive {
		t.Errorf("created habit = %+v, unexpected", h)
	}

	w := doJSON(t, srv, "GET", "/api/users/u1/habits", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var body struct {
		Habits []struct {
			domain.Habit
			CanComplete bool `json:"can_complete"`
		} `json:"habits"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(body.Habits) != 1 || !body.Habits[0].CanComplete {
		t.Errorf("list = %+v, want one completable habit", body.Habits)
	}

	// Other users see nothing
	w = doJSON(t, srv, "GET", "/api/users/u2/habits", "")
	json.NewDecoder(w.Body).Decode(&body)
	if len(body.Habits) != 0 {
		t.Errorf("u2 sees %d habits, want 0", len(body.Habits))
	}
}

func TestAPI_CreateHabit_BadFrequency(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, "POST", "/api/users/u1/habits",
		`{"name":"Read","frequency":"fortnightly","xp_reward":50}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestAPI_CompleteHabit(t *testing.T) {
	srv := newTestServer(t)
	h := createTestHabit(t, srv)

	w := doJSON(t, srv, "POST", "/api/users/u1/habits/"+h.ID+"/complete", "")
	if w.Code != http.StatusOK {
		t.Fatalf("complete status = %d, body %s", w.Code, w.Body)
	}

	var result struct {
		Habit   domain.Habit   `json:"habit"`
		Account domain.Account `json:"account"`
	}
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Habit.Completions != 1 {
		t.Errorf("completions = %d, want 1", result.Habit.Completions)
	}
	if result.Account.XP <= 0 {
		t.Errorf("account xp = %d, want credited", result.Account.XP)
	}

	// Immediate repeat is on cooldown
	w = doJSON(t, srv, "POST", "/api/users/u1/habits/"+h.ID+"/complete", "")
	if w.Code != http.StatusConflict {
		t.Errorf("repeat status = %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestAPI_CompleteHabit_NotFound(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, "POST", "/api/users/u1/habits/missing/complete", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestAPI_DeleteHabit(t *testing.T) {
	srv := newTestServer(t)

	// Default delete deactivates
	h := createTestHabit(t, srv)
	w := doJSON(t, srv, "DELETE", "/api/users/u1/habits/"+h.ID, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = doJSON(t, srv, "GET", "/api/users/u1/habits/"+h.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d, deactivated habit should survive", w.Code)
	}
	var got domain.Habit
	json.NewDecoder(w.Body).Decode(&got)
	if got.IsActive {
		t.Error("habit still active after delete")
	}

	// Purge removes the row
	w = doJSON(t, srv, "DELETE", "/api/users/u1/habits/"+h.ID+"?purge=1", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("purge status = %d", w.Code)
	}
	w = doJSON(t, srv, "GET", "/api/users/u1/habits/"+h.ID, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("get after purge = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestAPI_Sweep(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, "POST", "/api/users/u1/sweep", "")
	if w.Code != http.StatusOK {
		t.Fatalf("sweep status = %d", w.Code)
	}

	var result struct {
		PenalizedIDs []string `json:"penalized_ids"`
		PenaltyXP    int      `json:"penalty_xp"`
	}
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("decode sweep: %v", err)
	}
	if len(result.PenalizedIDs) != 0 || result.PenaltyXP != 0 {
		t.Errorf("empty sweep charged: %+v", result)
	}
}

// ─── Progression ────────────────────────────────────────────────────────────

func TestAPI_Account(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, "GET", "/api/users/u1/account", "")
	if w.Code != http.StatusOK {
		t.Fatalf("account status = %d", w.Code)
	}

	var account domain.Account
	json.NewDecoder(w.Body).Decode(&account)
	if account.Level != 1 || account.XPToNext != 500 || account.Coins != sqlite.DefaultStartingCoins {
		t.Errorf("new account = %+v, unexpected", account)
	}
}

func TestAPI_SpendCoins(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, "POST", "/api/users/u1/coins/spend", `{"amount":100}`)
	if w.Code != http.StatusOK {
		t.Fatalf("spend status = %d, body %s", w.Code, w.Body)
	}
	var account domain.Account
	json.NewDecoder(w.Body).Decode(&account)
	if account.Coins != sqlite.DefaultStartingCoins-100 {
		t.Errorf("coins = %d, want %d", account.Coins, sqlite.DefaultStartingCoins-100)
	}

	// Overdraft is rejected
	w = doJSON(t, srv, "POST", "/api/users/u1/coins/spend", `{"amount":100000}`)
	if w.Code != http.StatusConflict {
		t.Errorf("overdraft status = %d, want %d", w.Code, http.StatusConflict)
	}

	w = doJSON(t, srv, "POST", "/api/users/u1/coins/spend", `{"amount":-5}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("negative amount status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestAPI_PurchaseReward(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, "POST", "/api/users/u1/rewards/movie_night/purchase", `{"cost":200}`)
	if w.Code != http.StatusOK {
		t.Fatalf("purchase status = %d, body %s", w.Code, w.Body)
	}

	// Duplicate rejected
	w = doJSON(t, srv, "POST", "/api/users/u1/rewards/movie_night/purchase", `{"cost":200}`)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want %d", w.Code, http.StatusConflict)
	}

	w = doJSON(t, srv, "GET", "/api/users/u1/rewards", "")
	var body struct {
		Purchases []domain.Purchase `json:"purchases"`
	}
	json.NewDecoder(w.Body).Decode(&body)
	if len(body.Purchases) != 1 || body.Purchases[0].RewardID != "movie_night" {
		t.Errorf("purchases = %+v, want one movie_night", body.Purchases)
	}
}

func TestAPI_AchievementsAndHistory(t *testing.T) {
	srv := newTestServer(t)
	h := createTestHabit(t, srv)

	w := doJSON(t, srv, "POST", "/api/users/u1/habits/"+h.ID+"/complete", "")
	if w.Code != http.StatusOK {
		t.Fatalf("complete status = %d", w.Code)
	}

	w = doJSON(t, srv, "GET", "/api/users/u1/achievements", "")
	var achBody struct {
		Achievements []domain.UnlockedAchievement `json:"achievements"`
	}
	json.NewDecoder(w.Body).Decode(&achBody)
	if len(achBody.Achievements) == 0 {
		t.Error("no achievements after first completion")
	}

	w = doJSON(t, srv, "GET", "/api/users/u1/history?limit=5", "")
	var histBody struct {
		History []domain.LedgerEntry `json:"history"`
	}
	json.NewDecoder(w.Body).Decode(&histBody)
	if len(histBody.History) == 0 {
		t.Error("no ledger history after completion")
	}

	w = doJSON(t, srv, "GET", "/api/users/u1/history?limit=abc", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
