package tracker

import (
	"context"
	"errors"
	"sync"
	"time"

	"cloudscale_back_end/internal/database"
	"cloudscale_back_end/internal/models"
)

// ActivityWindow : une session sans activité depuis plus longtemps n'est plus comptée
const ActivityWindow = 30 * time.Minute

// Visit décrit la requête entrante vue par le tracker
type Visit struct {
	SessionID string
	UserID    *int64
	IPAddress string
	UserAgent string
}

// Tracker suit les sessions vues par le processus et tient à jour
// les lignes Session des visiteurs authentifiés.
type Tracker struct {
	store database.SessionStore

	mu   sync.Mutex
	seen map[string]struct{}
	now  func() time.Time
}

func New(store database.SessionStore) *Tracker {
	return &Tracker{
		store: store,
		seen:  make(map[string]struct{}),
		now:   time.Now,
	}
}

// SetClock remplace l'horloge (tests)
func (t *Tracker) SetClock(now func() time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = now
}

func (t *Tracker) clock() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.now()
}

func (t *Tracker) markSeen(sessionID string) {
	t.mu.Lock()
	t.seen[sessionID] = struct{}{}
	t.mu.Unlock()
}

// Touch est appelé à chaque requête
func (t *Tracker) Touch(ctx context.Context, v Visit) error {
	if v.SessionID == "" {
		return nil
	}
	t.markSeen(v.SessionID)

	if v.UserID == nil {
		return nil
	}

	err := t.store.TouchSession(ctx, v.SessionID, t.clock())
	if errors.Is(err, database.ErrNotFound) {
		return t.create(ctx, v)
	}
	return err
}

// Bind enregistre la session d'un utilisateur qui vient de se connecter ou de s'inscrire
func (t *Tracker) Bind(ctx context.Context, v Visit) error {
	if v.SessionID == "" || v.UserID == nil {
		return nil
	}
	t.markSeen(v.SessionID)
	return t.create(ctx, v)
}

func (t *Tracker) create(ctx context.Context, v Visit) error {
	now := t.clock()
	err := t.store.CreateSession(ctx, &models.Session{
		UserID:       v.UserID,
		SessionID:    v.SessionID,
		IPAddress:    v.IPAddress,
		UserAgent:    v.UserAgent,
		IsActive:     true,
		CreatedAt:    now,
		LastActivity: now,
	})
	if errors.Is(err, database.ErrDuplicate) {
		// une requête concurrente a créé la ligne
		return t.store.TouchSession(ctx, v.SessionID, now)
	}
	return err
}

// Forget est appelé à la déconnexion
func (t *Tracker) Forget(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	t.mu.Lock()
	delete(t.seen, sessionID)
	t.mu.Unlock()

	err := t.store.DeactivateSession(ctx, sessionID)
	if errors.Is(err, database.ErrNotFound) {
		return nil
	}
	return err
}

// ActiveCount compte les sessions actives dans la fenêtre d'activité
func (t *Tracker) ActiveCount(ctx context.Context) (int, error) {
	return t.store.CountActiveSessions(ctx, t.clock().Add(-ActivityWindow))
}

// Seen renvoie le nombre d'identifiants de session vus par ce processus
func (t *Tracker) Seen() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.seen)
}
