package linkservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/serroba/shortlink-client/internal/links"
	"go.uber.org/zap"
)

// RequestIDHeader carries a per-call correlation id.
const RequestIDHeader = "X-Request-ID"

var errMissingData = errors.New("response envelope has no data")

// Service is the boundary controllers use to reach the backend.
type Service interface {
	CreateShortURL(ctx context.Context, req *links.CreateLinkRequest) (*links.ShortLink, error)
	ListUserURLs(ctx context.Context, userID links.UserID) ([]links.ShortLink, error)
	DeleteShortURL(ctx context.Context, id links.ID, userID links.UserID) error
	QRCodeAssetRef(code links.Code) string
}

// Client talks to the backend over HTTP+JSON. It holds no state besides its configuration.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the backend rooted at baseURL (for example http://localhost:8080/api).
func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// BaseURL returns the configured backend base path.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) CreateShortURL(ctx context.Context, req *links.CreateLinkRequest) (*links.ShortLink, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &links.TransportError{Op: "create", Err: err}
	}

	var link links.ShortLink
	if err = c.do(ctx, "create", http.MethodPost, "/shorten", body, &link); err != nil {
		return nil, err
	}

	return &link, nil
}

func (c *Client) ListUserURLs(ctx context.Context, userID links.UserID) ([]links.ShortLink, error) {
	var list []links.ShortLink
	if err := c.do(ctx, "list", http.MethodGet, "/urls/"+url.PathEscape(string(userID)), nil, &list); err != nil {
		return nil, err
	}

	if list == nil {
		list = []links.ShortLink{}
	}

	return list, nil
}

func (c *Client) DeleteShortURL(ctx context.Context, id links.ID, userID links.UserID) error {
	path := "/urls/" + strconv.FormatInt(int64(id), 10) + "/" + url.PathEscape(string(userID))

	return c.do(ctx, "delete", http.MethodDelete, path, nil, nil)
}

// QRCodeAssetRef returns the backend location of the QR asset for code. Nothing is fetched.
func (c *Client) QRCodeAssetRef(code links.Code) string {
	return c.baseURL + "/qrcode/" + url.PathEscape(string(code))
}

// do performs one round trip and decodes the envelope into out. A nil out means the
// operation carries no data.
func (c *Client) do(ctx context.Context, op, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &links.TransportError{Op: op, Err: err}
	}

	requestID := uuid.NewString()
	httpReq.Header.Set(RequestIDHeader, requestID)
	httpReq.Header.Set("Accept", "application/json")

	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("backend request failed",
			zap.String("op", op),
			zap.String("request_id", requestID),
			zap.Error(err),
		)

		return &links.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("backend response",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
	)

	var envelope rawEnvelope
	if err = json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return &links.TransportError{Op: op, Err: fmt.Errorf("decode envelope (status %d): %w", resp.StatusCode, err)}
	}

	if !envelope.Success {
		c.logger.Warn("backend reported failure",
			zap.String("op", op),
			zap.String("request_id", requestID),
			zap.String("message", envelope.Message),
		)

		return &links.ServiceError{Message: envelope.Message}
	}

	if out == nil {
		return nil
	}

	if len(envelope.Data) == 0 || bytes.Equal(envelope.Data, []byte("null")) {
		return &links.TransportError{Op: op, Err: errMissingData}
	}

	if err = json.Unmarshal(envelope.Data, out); err != nil {
		return &links.TransportError{Op: op, Err: fmt.Errorf("decode data: %w", err)}
	}

	return nil
}

var _ Service = (*Client)(nil)
