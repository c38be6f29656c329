package creation_test

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
	createErr error
	created   *links.ShortLink
	requests  []*links.CreateLinkRequest
	// block, when set, holds CreateShortURL until it is closed.
	block chan struct{}
	// entered is signalled once CreateShortURL has been called.
	entered chan struct{}
}

func (m *mockService) CreateShortURL(_ context.Context, req *links.CreateLinkRequest) (*links.ShortLink, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.entered != nil {
		m.entered <- struct{}{}
	}

	if m.block != nil {
		<-m.block
	}

	if m.createErr != nil {
		return nil, m.createErr
	}

	return m.created, nil
}

func (m *mockService) ListUserURLs(context.Context, links.UserID) ([]links.ShortLink, error) {
	return nil, nil
}

func (m *mockService) DeleteShortURL(context.Context, links.ID, links.UserID) error {
	return nil
}

func (m *mockService) QRCodeAssetRef(code links.Code) string {
	return "http://host/api/qrcode/" + string(code)
}

func (m *mockService) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.requests)
}
