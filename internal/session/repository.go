package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"dermoscan-be/internal/constant"
)

// Repository is the in-memory session store. Nothing here survives a process
// restart; that is a stated property of the system, not a limitation.
type Repository struct {
	cache *cache.Cache
}

// NewRepository creates a store whose sessions expire after idleTTL without
// a Save, purged every ten minutes.
func NewRepository(idleTTL time.Duration) *Repository {
	return &Repository{
		cache: cache.New(idleTTL, 10*time.Minute),
	}
}

// Create opens a fresh signed-out session at the login view.
func (r *Repository) Create() *Session {
	s := &Session{
		ID:            uuid.NewString(),
		View:          constant.ViewLogin,
		SelectedImage: -1,
	}
	r.cache.Set(s.ID, s, cache.DefaultExpiration)
	return s
}

// Save re-stores the session, refreshing its idle expiration.
func (r *Repository) Save(s *Session) {
	r.cache.Set(s.ID, s, cache.DefaultExpiration)
}

// Get returns the session for id, or false when it expired or never existed.
func (r *Repository) Get(id string) (*Session, bool) {
	if x, found := r.cache.Get(id); found {
		return x.(*Session), true
	}
	return nil, false
}

// Delete removes the session outright.
func (r *Repository) Delete(id string) {
	r.cache.Delete(id)
}
