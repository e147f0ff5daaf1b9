package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
)

func newTestStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte("test-session-secret"))
	store.Options = &sessions.Options{Path: "/", MaxAge: 3600}
	return store
}

// carryCookies copies the Set-Cookie headers from a response onto a fresh
// request, the way a browser would.
func carryCookies(rec *httptest.ResponseRecorder, req *http.Request) {
	for _, cookie := range rec.Result().Cookies() {
		req.AddCookie(cookie)
	}
}

func TestRememberReferenceRoundTrip(t *testing.T) {
	store := newTestStore()

	req := httptest.NewRequest(http.MethodPost, "/api/payments", nil)
	rec := httptest.NewRecorder()
	rememberReference(store, rec, req, "INV-AAAA1111")

	next := httptest.NewRequest(http.MethodGet, "/api/track/recent", nil)
	carryCookies(rec, next)

	refs := recentReferences(store, next)
	if len(refs) != 1 || refs[0] != "INV-AAAA1111" {
		t.Errorf("recent references = %v, want [INV-AAAA1111]", refs)
	}
}

func TestRememberReferenceNewestFirstAndCapped(t *testing.T) {
	store := newTestStore()

	var rec *httptest.ResponseRecorder
	for i := 0; i < maxRecentReferences+3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/payments", nil)
		if rec != nil {
			carryCookies(rec, req)
		}
		next := httptest.NewRecorder()
		rememberReference(store, next, req, fmt.Sprintf("INV-%08d", i))
		rec = next
	}

	final := httptest.NewRequest(http.MethodGet, "/api/track/recent", nil)
	carryCookies(rec, final)

	refs := recentReferences(store, final)
	if len(refs) != maxRecentReferences {
		t.Fatalf("kept %d references, want %d", len(refs), maxRecentReferences)
	}
	if refs[0] != fmt.Sprintf("INV-%08d", maxRecentReferences+2) {
		t.Errorf("newest reference = %q", refs[0])
	}
}

func TestRememberReferenceSurvivesTamperedCookie(t *testing.T) {
	store := newTestStore()

	req := httptest.NewRequest(http.MethodPost, "/api/payments", nil)
	req.AddCookie(&http.Cookie{Name: sessionName, Value: "not-a-valid-session"})
	rec := httptest.NewRecorder()
	rememberReference(store, rec, req, "INV-BBBB2222")

	if len(rec.Result().Cookies()) == 0 {
		t.Fatal("expected a fresh session cookie to replace the tampered one")
	}

	next := httptest.NewRequest(http.MethodGet, "/api/track/recent", nil)
	carryCookies(rec, next)

	refs := recentReferences(store, next)
	if len(refs) != 1 || refs[0] != "INV-BBBB2222" {
		t.Errorf("recent references = %v, want [INV-BBBB2222]", refs)
	}
}

func TestRecentReferencesTamperedCookieIsEmpty(t *testing.T) {
	store := newTestStore()

	req := httptest.NewRequest(http.MethodGet, "/api/track/recent", nil)
	req.AddCookie(&http.Cookie{Name: sessionName, Value: "not-a-valid-session"})

	if refs := recentReferences(store, req); len(refs) != 0 {
		t.Errorf("expected no references from a tampered cookie, got %v", refs)
	}
}

func TestRecentReferencesEmptySession(t *testing.T) {
	store := newTestStore()

	req := httptest.NewRequest(http.MethodGet, "/api/track/recent", nil)
	if refs := recentReferences(store, req); len(refs) != 0 {
		t.Errorf("expected no references, got %v", refs)
	}
}
