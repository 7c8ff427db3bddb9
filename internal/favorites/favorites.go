// Package favorites keeps a per-session list of favourite book ids.
//
// The list is stored as raw strings under a single session key. Duplicates
// are kept, and ids whose book no longer exists are skipped when the list is
// resolved into books.
package favorites

import (
	"context"
	"encoding/gob"
	"strconv"
	"strings"

	"github.com/mrlokans/catalog/internal/entities"
)

// SessionKey is the session entry holding the list.
const SessionKey = "favorite_books"

func init() {
	gob.Register([]string{})
}

// SessionStore is the slice of a session manager the list needs.
// *scs.SessionManager satisfies it.
type SessionStore interface {
	Exists(ctx context.Context, key string) bool
	Get(ctx context.Context, key string) interface{}
	Put(ctx context.Context, key string, val interface{})
}

// BookResolver loads books for a set of ids, skipping ids it cannot find.
type BookResolver interface {
	GetBooksByIDs(ids []uint) ([]entities.Book, error)
}

type Service struct {
	sessions SessionStore
	books    BookResolver
}

func NewService(sessions SessionStore, books BookResolver) *Service {
	return &Service{sessions: sessions, books: books}
}

// EnsureInitialized stores an empty list if the session has none yet.
func (s *Service) EnsureInitialized(ctx context.Context) {
	if !s.sessions.Exists(ctx, SessionKey) {
		s.sessions.Put(ctx, SessionKey, []string{})
	}
}

// Add appends bookID to the list, creating the list if needed.
func (s *Service) Add(ctx context.Context, bookID string) {
	current := s.IDs(ctx)
	updated := make([]string, 0, len(current)+1)
	updated = append(updated, current...)
	updated = append(updated, bookID)
	s.sessions.Put(ctx, SessionKey, updated)
}

// Remove deletes the first occurrence of bookID. Missing ids and a missing
// list are ignored.
func (s *Service) Remove(ctx context.Context, bookID string) {
	if !s.sessions.Exists(ctx, SessionKey) {
		return
	}

	current := s.IDs(ctx)
	for i, id := range current {
		if id != bookID {
			continue
		}
		updated := make([]string, 0, len(current)-1)
		updated = append(updated, current[:i]...)
		updated = append(updated, current[i+1:]...)
		s.sessions.Put(ctx, SessionKey, updated)
		return
	}
}

// IDs returns the raw list. It is never nil.
func (s *Service) IDs(ctx context.Context) []string {
	ids, ok := s.sessions.Get(ctx, SessionKey).([]string)
	if !ok {
		return []string{}
	}
	return ids
}

// List resolves the stored ids into books. Surrounding whitespace is ignored,
// as an integer lookup would. Ids that are not numeric or whose book is gone
// are dropped. The result follows storage order.
func (s *Service) List(ctx context.Context) ([]entities.Book, error) {
	raw := s.IDs(ctx)
	if len(raw) == 0 {
		return []entities.Book{}, nil
	}

	ids := make([]uint, 0, len(raw))
	for _, r := range raw {
		id, err := strconv.ParseUint(strings.TrimSpace(r), 10, 64)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, uint(id))
	}
	if len(ids) == 0 {
		return []entities.Book{}, nil
	}

	return s.books.GetBooksByIDs(ids)
}
