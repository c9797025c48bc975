package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListPointTransactionsEndpoint(t *testing.T) {
	db := freshDB()
	r := setupLedgerRouter(db, nil)
	owner, token := seedOwnerWithToken(db, "history-points@test.com")
	member := seedMemberFor(db, owner.ID, "Alex", 0)

	for _, day := range []string{"2026-08-01", "2026-08-03", "2026-08-02"} {
		w := httptest.NewRecorder()
		req := authRequest("POST", "/api/members/"+member.ID.String()+"/points", map[string]interface{}{
			"points":         10,
			"effective_date": day,
		}, token)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("seed earn failed: %d: %s", w.Code, w.Body.String())
		}
	}

	w := httptest.NewRecorder()
	req := authRequest("GET", "/api/members/"+member.ID.String()+"/points", nil, token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	entries, ok := resp["transactions"].([]interface{})
	if !ok || len(entries) != 3 {
		t.Fatalf("expected 3 transactions, got %v", resp["transactions"])
	}

	// Newest effective date first.
	first := entries[0].(map[string]interface{})
	if date, _ := first["effective_date"].(string); len(date) < 10 || date[:10] != "2026-08-03" {
		t.Errorf("expected newest entry first, got %v", first["effective_date"])
	}
}

func TestListRewardRedemptionsEndpoint(t *testing.T) {
	db := freshDB()
	r := setupLedgerRouter(db, nil)
	owner, token := seedOwnerWithToken(db, "history-rewards@test.com")
	member := seedMemberFor(db, owner.ID, "Alex", 300)

	w := httptest.NewRecorder()
	req := authRequest("POST", "/api/members/"+member.ID.String()+"/redemptions", map[string]string{
		"description": "ice cream",
	}, token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("seed redemption failed: %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	req = authRequest("GET", "/api/members/"+member.ID.String()+"/redemptions", nil, token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	entries, ok := resp["redemptions"].([]interface{})
	if !ok || len(entries) != 1 {
		t.Fatalf("expected 1 redemption, got %v", resp["redemptions"])
	}
	entry := entries[0].(map[string]interface{})
	if entry["description"] != "ice cream" {
		t.Errorf("expected description 'ice cream', got %v", entry["description"])
	}
}

func TestHistoryEndpointsEmpty(t *testing.T) {
	db := freshDB()
	r := setupLedgerRouter(db, nil)
	owner, token := seedOwnerWithToken(db, "history-empty@test.com")
	member := seedMemberFor(db, owner.ID, "Alex", 0)

	for _, path := range []string{"/points", "/redemptions"} {
		w := httptest.NewRecorder()
		req := authRequest("GET", "/api/members/"+member.ID.String()+path, nil, token)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d: %s", path, w.Code, w.Body.String())
		}
	}
}
