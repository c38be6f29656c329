package stub_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/serroba/shortlink-client/internal/links"
	"github.com/serroba/shortlink-client/internal/stub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func sequenceGenerator(codes ...string) stub.CodeGenerator {
	i := 0

	return func() string {
		code := codes[i%len(codes)]
		i++

		return code
	}
}

func newTestHandler(gen stub.CodeGenerator) *stub.Handler {
	return stub.NewHandler(stub.NewMemoryRepository(), "http://host", gen, zap.NewNop()).
		WithClock(func() time.Time { return fixedNow })
}

func createReq(longURL, code, user string, timeout *int64) *stub.CreateRequest {
	req := &stub.CreateRequest{}
	req.Body.LongURL = longURL
	req.Body.CustomCode = code
	req.Body.UserID = user
	req.Body.Timeout = timeout

	return req
}

func TestHandler_CreateShortURL(t *testing.T) {
	t.Run("creates link with generated code", func(t *testing.T) {
		h := newTestHandler(sequenceGenerator("abc123"))

		resp, err := h.CreateShortURL(context.Background(), createReq("https://example.com", "", "u1", nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.Status)
		require.True(t, resp.Body.Success)
		require.NotNil(t, resp.Body.Data)
		assert.Equal(t, links.ID(1), resp.Body.Data.ID)
		assert.Equal(t, links.Code("abc123"), resp.Body.Data.ShortCode)
		assert.Equal(t, "http://host/abc123", resp.Body.Data.ShortURL)
		assert.Equal(t, fixedNow, resp.Body.Data.CreatedAt)
		assert.Nil(t, resp.Body.Data.ExpiresAt)
	})

	t.Run("sets expiry from timeout", func(t *testing.T) {
		h := newTestHandler(sequenceGenerator("abc123"))
		timeout := int64(3600)

		resp, err := h.CreateShortURL(context.Background(), createReq("https://example.com", "", "u1", &timeout))

		require.NoError(t, err)
		require.NotNil(t, resp.Body.Data.ExpiresAt)
		assert.Equal(t, fixedNow.Add(time.Hour), *resp.Body.Data.ExpiresAt)
	})

	t.Run("normalizes scheme-less urls", func(t *testing.T) {
		h := newTestHandler(sequenceGenerator("abc123"))

		resp, _ := h.CreateShortURL(context.Background(), createReq("example.com", "", "u1", nil))

		require.True(t, resp.Body.Success)
		assert.Equal(t, "http://example.com", resp.Body.Data.LongURL)
	})

	t.Run("rejects invalid urls", func(t *testing.T) {
		h := newTestHandler(sequenceGenerator("abc123"))

		resp, err := h.CreateShortURL(context.Background(), createReq("http://", "", "u1", nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.Status)
		assert.False(t, resp.Body.Success)
		assert.Equal(t, stub.MsgInvalidURL, resp.Body.Message)
	})

	t.Run("rejects taken custom codes", func(t *testing.T) {
		h := newTestHandler(sequenceGenerator("abc123"))
		_, _ = h.CreateShortURL(context.Background(), createReq("https://a.com", "mine", "u1", nil))

		resp, err := h.CreateShortURL(context.Background(), createReq("https://b.com", "mine", "u2", nil))

		require.NoError(t, err)
		assert.False(t, resp.Body.Success)
		assert.Equal(t, stub.MsgCodeTaken, resp.Body.Message)
	})

	t.Run("retries generated codes on collision", func(t *testing.T) {
		h := newTestHandler(sequenceGenerator("same", "same", "other"))

		first, _ := h.CreateShortURL(context.Background(), createReq("https://a.com", "", "u1", nil))
		second, _ := h.CreateShortURL(context.Background(), createReq("https://b.com", "", "u1", nil))

		assert.Equal(t, links.Code("same"), first.Body.Data.ShortCode)
		assert.Equal(t, links.Code("other"), second.Body.Data.ShortCode)
	})
}

func TestHandler_ListAndDelete(t *testing.T) {
	t.Run("lists only the user's links", func(t *testing.T) {
		h := newTestHandler(sequenceGenerator("c1", "c2", "c3"))
		_, _ = h.CreateShortURL(context.Background(), createReq("https://a.com", "", "u1", nil))
		_, _ = h.CreateShortURL(context.Background(), createReq("https://b.com", "", "u2", nil))
		_, _ = h.CreateShortURL(context.Background(), createReq("https://c.com", "", "u1", nil))

		resp, err := h.ListUserURLs(context.Background(), &stub.ListRequest{UserID: "u1"})

		require.NoError(t, err)
		require.NotNil(t, resp.Body.Data)
		list := *resp.Body.Data
		require.Len(t, list, 2)
		assert.Equal(t, links.ID(3), list[0].ID)
		assert.Equal(t, links.ID(1), list[1].ID)
	})

	t.Run("returns empty list for unknown user", func(t *testing.T) {
		h := newTestHandler(sequenceGenerator("c1"))

		resp, _ := h.ListUserURLs(context.Background(), &stub.ListRequest{UserID: "nobody"})

		require.NotNil(t, resp.Body.Data)
		assert.Empty(t, *resp.Body.Data)
	})

	t.Run("deletes only owned links", func(t *testing.T) {
		h := newTestHandler(sequenceGenerator("c1"))
		_, _ = h.CreateShortURL(context.Background(), createReq("https://a.com", "", "u1", nil))

		denied, _ := h.DeleteShortURL(context.Background(), &stub.DeleteRequest{ID: 1, UserID: "u2"})
		allowed, _ := h.DeleteShortURL(context.Background(), &stub.DeleteRequest{ID: 1, UserID: "u1"})
		again, _ := h.DeleteShortURL(context.Background(), &stub.DeleteRequest{ID: 1, UserID: "u1"})

		assert.Equal(t, http.StatusNotFound, denied.Status)
		assert.Equal(t, stub.MsgNotOwned, denied.Body.Message)
		assert.True(t, allowed.Body.Success)
		assert.False(t, again.Body.Success)
	})
}

func TestHandler_Redirect(t *testing.T) {
	t.Run("redirects active links", func(t *testing.T) {
		h := newTestHandler(sequenceGenerator("c1"))
		_, _ = h.CreateShortURL(context.Background(), createReq("https://a.com", "", "u1", nil))

		resp, err := h.Redirect(context.Background(), &stub.CodeRequest{Code: "c1"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.Status)
		assert.Equal(t, "https://a.com", resp.Headers.Location)
	})

	t.Run("refuses expired links", func(t *testing.T) {
		now := fixedNow
		h := stub.NewHandler(stub.NewMemoryRepository(), "http://host", sequenceGenerator("c1"), zap.NewNop()).
			WithClock(func() time.Time { return now })
		timeout := int64(60)
		_, _ = h.CreateShortURL(context.Background(), createReq("https://a.com", "", "u1", &timeout))

		now = fixedNow.Add(time.Minute)
		resp, err := h.Redirect(context.Background(), &stub.CodeRequest{Code: "c1"})

		assert.Nil(t, resp)
		assert.Error(t, err)
	})

	t.Run("qr endpoint resolves to the long url", func(t *testing.T) {
		h := newTestHandler(sequenceGenerator("c1"))
		_, _ = h.CreateShortURL(context.Background(), createReq("https://a.com", "", "u1", nil))

		resp, err := h.QRCode(context.Background(), &stub.CodeRequest{Code: "c1"})

		require.NoError(t, err)
		assert.Equal(t, "https://a.com", resp.Headers.Location)
	})

	t.Run("qr endpoint 404s for unknown codes", func(t *testing.T) {
		h := newTestHandler(sequenceGenerator("c1"))

		_, err := h.QRCode(context.Background(), &stub.CodeRequest{Code: "missing"})

		assert.Error(t, err)
	})
}

func TestNewCodeGenerator(t *testing.T) {
	gen, err := stub.NewCodeGenerator(6)
	require.NoError(t, err)

	assert.Regexp(t, `^[A-Za-z0-9]{6}$`, gen())
}

func TestNewRouter(t *testing.T) {
	h := newTestHandler(sequenceGenerator("c1"))
	srv := httptest.NewServer(stub.NewRouter(h, zap.NewNop()))
	defer srv.Close()

	client := srv.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

	t.Run("serves liveness at root", func(t *testing.T) {
		resp, err := client.Get(srv.URL + "/")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("serves health", func(t *testing.T) {
		resp, err := client.Get(srv.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("creates then redirects", func(t *testing.T) {
		body := strings.NewReader(`{"long_url":"https://example.com","user_id":"u1"}`)
		resp, err := client.Post(srv.URL+"/api/shorten", "application/json", body)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, err = client.Get(srv.URL + "/c1")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "https://example.com", resp.Header.Get("Location"))
	})

	t.Run("envelope failure uses 400", func(t *testing.T) {
		body := strings.NewReader(`{"long_url":"nope://","user_id":"u1"}`)
		resp, err := client.Post(srv.URL+"/api/shorten", "application/json", body)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
