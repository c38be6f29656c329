package stub

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/serroba/shortlink-client/internal/links"
)

var (
	ErrNotFound  = errors.New("link not found")
	ErrCodeTaken = errors.New("code already exists")
)

// Record is a stored link together with its owner.
type Record struct {
	ID        links.ID
	LongURL   string
	Code      links.Code
	UserID    links.UserID
	CreatedAt time.Time
	ExpiresAt *time.Time
}

// Repository stores link records for the stub backend.
type Repository interface {
	// Create assigns an id to rec and stores it. It returns ErrCodeTaken when the code is in use.
	Create(ctx context.Context, rec *Record) error
	// ListByUser returns the user's records, newest first.
	ListByUser(ctx context.Context, userID links.UserID) ([]Record, error)
	// Delete removes the record owned by userID. It returns ErrNotFound when nothing matched.
	Delete(ctx context.Context, id links.ID, userID links.UserID) error
	GetByCode(ctx context.Context, code links.Code) (*Record, error)
}

// MemoryRepository is an in-memory Repository.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID links.ID
	byID   map[links.ID]*Record
	byCode map[links.Code]links.ID
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:   make(map[links.ID]*Record),
		byCode: make(map[links.Code]links.ID),
	}
}

func (m *MemoryRepository) Create(_ context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byCode[rec.Code]; ok {
		return ErrCodeTaken
	}

	m.nextID++
	rec.ID = m.nextID

	stored := *rec
	m.byID[stored.ID] = &stored
	m.byCode[stored.Code] = stored.ID

	return nil
}

func (m *MemoryRepository) ListByUser(_ context.Context, userID links.UserID) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Record, 0)

	for _, rec := range m.byID {
		if rec.UserID == userID {
			out = append(out, *rec)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}

		return out[i].ID > out[j].ID
	})

	return out, nil
}

func (m *MemoryRepository) Delete(_ context.Context, id links.ID, userID links.UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.byID[id]
	if !ok || rec.UserID != userID {
		return ErrNotFound
	}

	delete(m.byID, id)
	delete(m.byCode, rec.Code)

	return nil
}

func (m *MemoryRepository) GetByCode(_ context.Context, code links.Code) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byCode[code]
	if !ok {
		return nil, ErrNotFound
	}

	rec := *m.byID[id]

	return &rec, nil
}

var _ Repository = (*MemoryRepository)(nil)
