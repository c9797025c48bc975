package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"rewardtrack-backend/models"
)

func TestGetSettingsInitializesDefault(t *testing.T) {
	db := freshDB()
	r := setupLedgerRouter(db, nil)
	owner, token := seedOwnerWithToken(db, "settings-get@test.com")

	w := httptest.NewRecorder()
	req := authRequest("GET", "/api/settings", nil, token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["points_to_reward"] != float64(models.DefaultPointsToReward) {
		t.Errorf("expected default %d, got %v", models.DefaultPointsToReward, resp["points_to_reward"])
	}

	var count int64
	db.Model(&models.Settings{}).Where("owner_id = ?", owner.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected settings row created on first read, got %d", count)
	}
}

func TestUpdateSettingsEndpoint(t *testing.T) {
	db := freshDB()
	r := setupLedgerRouter(db, nil)
	_, token := seedOwnerWithToken(db, "settings-put@test.com")

	w := httptest.NewRecorder()
	req := authRequest("PUT", "/api/settings", map[string]int{"points_to_reward": 200}, token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["points_to_reward"] != float64(200) {
		t.Errorf("expected 200 points, got %v", resp["points_to_reward"])
	}
}

func TestUpdateSettingsEndpointRejectsNonPositive(t *testing.T) {
	db := freshDB()
	r := setupLedgerRouter(db, nil)
	_, token := seedOwnerWithToken(db, "settings-invalid@test.com")

	for _, value := range []int{0, -50} {
		w := httptest.NewRecorder()
		req := authRequest("PUT", "/api/settings", map[string]int{"points_to_reward": value}, token)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("value=%d: expected 400, got %d: %s", value, w.Code, w.Body.String())
		}
	}
}

func TestSettingsScopedPerOwner(t *testing.T) {
	db := freshDB()
	r := setupLedgerRouter(db, nil)
	_, tokenA := seedOwnerWithToken(db, "settings-owner-a@test.com")
	_, tokenB := seedOwnerWithToken(db, "settings-owner-b@test.com")

	w := httptest.NewRecorder()
	req := authRequest("PUT", "/api/settings", map[string]int{"points_to_reward": 500}, tokenA)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	req = authRequest("GET", "/api/settings", nil, tokenB)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["points_to_reward"] != float64(models.DefaultPointsToReward) {
		t.Errorf("owner B must keep the default, got %v", resp["points_to_reward"])
	}
}
