package stub

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink-client/internal/links"
	"go.uber.org/zap"
)

// Failure messages match the production backend.
const (
	MsgInvalidURL     = "Invalid URL format"
	MsgCodeTaken      = "Custom code already exists"
	MsgNotOwned       = "URL not found or not owned by user"
	MsgMissingUser    = "user_id is required"
	MsgCreated        = "Short URL created successfully"
	MsgListed         = "URLs retrieved successfully"
	MsgDeleted        = "URL deleted successfully"
	MsgRunning        = "Short URL Service is running!"
	MsgNotFoundOrGone = "Short URL not found or expired"

	maxCodeAttempts = 10
)

// CodeGenerator generates candidate short codes.
type CodeGenerator func() string

// Handler implements the backend contract on top of a Repository.
type Handler struct {
	repo      Repository
	publicURL string
	generate  CodeGenerator
	now       func() time.Time
	logger    *zap.Logger
}

// NewHandler creates a stub handler. publicURL prefixes short codes in short_url.
func NewHandler(repo Repository, publicURL string, generate CodeGenerator, logger *zap.Logger) *Handler {
	return &Handler{
		repo:      repo,
		publicURL: strings.TrimRight(publicURL, "/"),
		generate:  generate,
		now:       time.Now,
		logger:    logger,
	}
}

// WithClock replaces the wall clock, for tests.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now

	return h
}

func (h *Handler) CreateShortURL(ctx context.Context, req *CreateRequest) (*LinkResponse, error) {
	longURL := links.NormalizeURL(req.Body.LongURL)
	if !isValidURL(longURL) {
		return linkFailure(http.StatusBadRequest, MsgInvalidURL), nil
	}

	if strings.TrimSpace(req.Body.UserID) == "" {
		return linkFailure(http.StatusBadRequest, MsgMissingUser), nil
	}

	now := h.now().UTC()
	rec := &Record{
		LongURL:   longURL,
		UserID:    links.UserID(req.Body.UserID),
		CreatedAt: now,
	}

	if req.Body.Timeout != nil && *req.Body.Timeout > 0 {
		expires := now.Add(time.Duration(*req.Body.Timeout) * time.Second)
		rec.ExpiresAt = &expires
	}

	if err := h.save(ctx, rec, links.Code(req.Body.CustomCode)); err != nil {
		if errors.Is(err, ErrCodeTaken) {
			return linkFailure(http.StatusBadRequest, MsgCodeTaken), nil
		}

		h.logger.Error("failed to save link", zap.Error(err))

		return linkFailure(http.StatusInternalServerError, "Database error: "+err.Error()), nil
	}

	h.logger.Info("link created",
		zap.Int64("id", int64(rec.ID)),
		zap.String("code", string(rec.Code)),
		zap.String("user_id", string(rec.UserID)),
	)

	resp := &LinkResponse{Status: http.StatusOK}
	resp.Body.Success = true
	resp.Body.Message = MsgCreated
	link := h.toLink(rec)
	resp.Body.Data = &link

	return resp, nil
}

// save stores rec under custom, or under a freshly generated code when custom is empty.
func (h *Handler) save(ctx context.Context, rec *Record, custom links.Code) error {
	if custom != "" {
		rec.Code = custom

		return h.repo.Create(ctx, rec)
	}

	for range maxCodeAttempts {
		rec.Code = links.Code(h.generate())

		err := h.repo.Create(ctx, rec)
		if !errors.Is(err, ErrCodeTaken) {
			return err
		}
	}

	return fmt.Errorf("no free code after %d attempts", maxCodeAttempts)
}

func (h *Handler) ListUserURLs(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	records, err := h.repo.ListByUser(ctx, links.UserID(req.UserID))
	if err != nil {
		resp := &ListResponse{Status: http.StatusInternalServerError}
		resp.Body.Message = "Database error: " + err.Error()

		return resp, nil
	}

	out := make([]links.ShortLink, 0, len(records))
	for i := range records {
		out = append(out, h.toLink(&records[i]))
	}

	resp := &ListResponse{Status: http.StatusOK}
	resp.Body.Success = true
	resp.Body.Message = MsgListed
	resp.Body.Data = &out

	return resp, nil
}

func (h *Handler) DeleteShortURL(ctx context.Context, req *DeleteRequest) (*EmptyResponse, error) {
	resp := &EmptyResponse{}

	err := h.repo.Delete(ctx, links.ID(req.ID), links.UserID(req.UserID))
	switch {
	case errors.Is(err, ErrNotFound):
		resp.Status = http.StatusNotFound
		resp.Body.Message = MsgNotOwned
	case err != nil:
		resp.Status = http.StatusInternalServerError
		resp.Body.Message = "Database error: " + err.Error()
	default:
		resp.Status = http.StatusOK
		resp.Body.Success = true
		resp.Body.Message = MsgDeleted
		resp.Body.Data = &struct{}{}
	}

	return resp, nil
}

// QRCode redirects to the long URL behind code, matching the production asset endpoint.
func (h *Handler) QRCode(ctx context.Context, req *CodeRequest) (*RedirectResponse, error) {
	rec, err := h.repo.GetByCode(ctx, links.Code(req.Code))
	if err != nil {
		return nil, huma.Error404NotFound(MsgNotFoundOrGone)
	}

	resp := &RedirectResponse{Status: http.StatusFound}
	resp.Headers.Location = rec.LongURL

	return resp, nil
}

// Redirect resolves a short code, refusing expired links.
func (h *Handler) Redirect(ctx context.Context, req *CodeRequest) (*RedirectResponse, error) {
	rec, err := h.repo.GetByCode(ctx, links.Code(req.Code))
	if err != nil || (rec.ExpiresAt != nil && !h.now().Before(*rec.ExpiresAt)) {
		return nil, huma.Error404NotFound(MsgNotFoundOrGone)
	}

	resp := &RedirectResponse{Status: http.StatusFound}
	resp.Headers.Location = rec.LongURL

	return resp, nil
}

func (h *Handler) Root(_ context.Context, _ *struct{}) (*EmptyResponse, error) {
	resp := &EmptyResponse{Status: http.StatusOK}
	resp.Body.Success = true
	resp.Body.Message = MsgRunning

	return resp, nil
}

func (h *Handler) toLink(rec *Record) links.ShortLink {
	return links.ShortLink{
		ID:        rec.ID,
		LongURL:   rec.LongURL,
		ShortCode: rec.Code,
		ShortURL:  h.publicURL + "/" + string(rec.Code),
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
	}
}

func linkFailure(status int, message string) *LinkResponse {
	resp := &LinkResponse{Status: status}
	resp.Body.Message = message

	return resp
}

func isValidURL(raw string) bool {
	if !strings.Contains(raw, "://") {
		return false
	}

	u, err := url.Parse(raw)

	return err == nil && u.Scheme != "" && u.Hostname() != ""
}
