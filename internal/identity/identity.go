package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jaevor/go-nanoid"
	"github.com/serroba/shortlink-client/internal/links"
	"go.uber.org/zap"
)

// StorageKey is the fixed key the user identity is persisted under.
const StorageKey = "userId"

const (
	tokenPrefix   = "user_"
	tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	tokenLength   = 9
)

var ErrNotFound = errors.New("key not found")

// Storage is a durable key/value capability. Get returns ErrNotFound for absent keys.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// TokenGenerator produces the random part of a new identity.
type TokenGenerator func() string

// NewTokenGenerator returns the default generator: 9 lowercase base36 characters.
func NewTokenGenerator() (TokenGenerator, error) {
	gen, err := nanoid.CustomASCII(tokenAlphabet, tokenLength)
	if err != nil {
		return nil, err
	}

	return TokenGenerator(gen), nil
}

// Provider hands out the device's user identity, creating and persisting it on first use.
type Provider struct {
	mu       sync.Mutex
	storage  Storage
	generate TokenGenerator
	logger   *zap.Logger
	cached   links.UserID
}

// NewProvider creates a provider over storage.
func NewProvider(storage Storage, generate TokenGenerator, logger *zap.Logger) *Provider {
	return &Provider{
		storage:  storage,
		generate: generate,
		logger:   logger,
	}
}

// GetOrCreateUserID returns the persisted identity, generating and storing one the first time.
func (p *Provider) GetOrCreateUserID(ctx context.Context) (links.UserID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != "" {
		return p.cached, nil
	}

	stored, err := p.storage.Get(ctx, StorageKey)
	if err == nil && stored != "" {
		p.cached = links.UserID(stored)

		return p.cached, nil
	}

	if err != nil && !errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("read identity: %w", err)
	}

	id := links.UserID(tokenPrefix + p.generate())

	if err = p.storage.Set(ctx, StorageKey, string(id)); err != nil {
		return "", fmt.Errorf("persist identity: %w", err)
	}

	p.logger.Info("created user identity", zap.String("user_id", string(id)))
	p.cached = id

	return id, nil
}
