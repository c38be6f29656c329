package stub

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/serroba/shortlink-client/internal/health"
	"github.com/serroba/shortlink-client/internal/middleware"
	"go.uber.org/zap"
)

// APIPrefix is the path the link operations are mounted under.
const APIPrefix = "/api"

// RegisterRoutes registers the backend contract operations.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Register(api, huma.Operation{
		OperationID: "create-short-url",
		Method:      http.MethodPost,
		Path:        APIPrefix + "/shorten",
		Summary:     "Create short URL",
		Tags:        []string{"URLs"},
	}, h.CreateShortURL)

	huma.Register(api, huma.Operation{
		OperationID: "list-user-urls",
		Method:      http.MethodGet,
		Path:        APIPrefix + "/urls/{user_id}",
		Summary:     "List a user's short URLs",
		Tags:        []string{"URLs"},
	}, h.ListUserURLs)

	huma.Register(api, huma.Operation{
		OperationID: "delete-short-url",
		Method:      http.MethodDelete,
		Path:        APIPrefix + "/urls/{id}/{user_id}",
		Summary:     "Delete a short URL",
		Tags:        []string{"URLs"},
	}, h.DeleteShortURL)

	huma.Register(api, huma.Operation{
		OperationID: "qrcode",
		Method:      http.MethodGet,
		Path:        APIPrefix + "/qrcode/{short_code}",
		Summary:     "Resolve the QR code target",
		Tags:        []string{"QR"},
	}, h.QRCode)

	huma.Register(api, huma.Operation{
		OperationID: "root",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Liveness",
		Tags:        []string{"Health"},
	}, h.Root)

	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/{short_code}",
		Summary:     "Redirect to original URL",
		Tags:        []string{"URLs"},
	}, h.Redirect)
}

// NewRouter builds a chi router serving h, with request logging and a /health endpoint.
func NewRouter(h *Handler, logger *zap.Logger) *chi.Mux {
	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Short URL Stub", "1.0.0"))
	api.UseMiddleware(middleware.RequestLog(logger))

	health.RegisterRoutes(api, health.NewHandler(nil))
	RegisterRoutes(api, h)

	return router
}
