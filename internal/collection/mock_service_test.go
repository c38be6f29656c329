package collection_test

import (
	"context"
	"errors"
	"sync"

	"github.com/serroba/shortlink-client/internal/links"
)

var errMock = errors.New("mock error")

// mockService is a test double for linkservice.Service.
type mockService struct {
	mu        sync.Mutex
	list      map[links.UserID][]links.ShortLink
	listErr   error
	deleteErr map[links.ID]error
	listCalls int
	deleted   []links.ID
	// listBlock, when set, holds ListUserURLs until it is closed.
	listBlock chan struct{}
	// listEntered is signalled when ListUserURLs starts.
	listEntered chan struct{}
}

func (m *mockService) CreateShortURL(context.Context, *links.CreateLinkRequest) (*links.ShortLink, error) {
	return nil, errMock
}

func (m *mockService) ListUserURLs(ctx context.Context, userID links.UserID) ([]links.ShortLink, error) {
	m.mu.Lock()
	m.listCalls++
	m.mu.Unlock()

	if m.listEntered != nil {
		m.listEntered <- struct{}{}
	}

	if m.listBlock != nil {
		select {
		case <-m.listBlock:
		case <-ctx.Done():
			return nil, &links.TransportError{Op: "list", Err: ctx.Err()}
		}
	}

	if m.listErr != nil {
		return nil, m.listErr
	}

	return m.list[userID], nil
}

func (m *mockService) DeleteShortURL(_ context.Context, id links.ID, _ links.UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.deleteErr[id]; err != nil {
		return err
	}

	m.deleted = append(m.deleted, id)

	return nil
}

func (m *mockService) QRCodeAssetRef(code links.Code) string {
	return "http://host/api/qrcode/" + string(code)
}

func (m *mockService) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.listCalls
}
