package handlers

import (
	"context"
	"encoding/gob"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"borderpay-payment-api/config"
	"borderpay-payment-api/queue"
	"borderpay-payment-api/utils"
)

const (
	sessionName         = "borderpay-session"
	recentReferencesKey = "recent_references"
	maxRecentReferences = 10
)

func init() {
	gob.Register([]string{})
}

// JobQueue is what handlers need from the redis queue. Satisfied by
// *queue.Queue; stubbed in tests.
type JobQueue interface {
	Enqueue(ctx context.Context, jobType queue.JobType, data map[string]interface{}) error
	EnqueueDelayed(ctx context.Context, jobType queue.JobType, data map[string]interface{}, delay time.Duration) error
}

// NewSessionStore builds the cookie store holding each caller's recent
// invoice references. This is the only session-scoped state in the
// service; losing it loses nothing the providers don't still have.
func NewSessionStore(cfg *config.Config) *sessions.CookieStore {
	secret := cfg.Session.Secret
	if secret == "" {
		secret = utils.GenerateRandomString(32)
	}

	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   cfg.Session.Domain,
		MaxAge:   cfg.Session.MaxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func rememberReference(store *sessions.CookieStore, w http.ResponseWriter, r *http.Request, reference string) {
	session, err := store.Get(r, sessionName)
	if err != nil {
		// A stale or tampered cookie still yields a usable fresh session.
		log.Printf("Error decoding session, starting a new one: %v", err)
	}
	if session == nil {
		return
	}

	refs, _ := session.Values[recentReferencesKey].([]string)
	refs = append([]string{reference}, refs...)
	if len(refs) > maxRecentReferences {
		refs = refs[:maxRecentReferences]
	}
	session.Values[recentReferencesKey] = refs

	if err := session.Save(r, w); err != nil {
		log.Printf("Error saving session: %v", err)
	}
}

func recentReferences(store *sessions.CookieStore, r *http.Request) []string {
	session, err := store.Get(r, sessionName)
	if err != nil {
		log.Printf("Error decoding session, treating as empty: %v", err)
	}
	if session == nil {
		return nil
	}

	refs, _ := session.Values[recentReferencesKey].([]string)
	return refs
}
