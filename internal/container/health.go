package container

import (
	"net/http"

	"github.com/samber/do"
	"github.com/serroba/shortlink-client/internal/health"
)

// HealthPackage provides a *health.Handler covering the backend and, when configured, Redis.
func HealthPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*health.Handler, error) {
		opts := do.MustInvoke[*Options](i)

		backend, err := health.NewBackendChecker(opts.BaseURL, do.MustInvoke[*http.Client](i))
		if err != nil {
			return nil, err
		}

		checkers := map[string]health.Checker{"backend": backend}

		if opts.Storage == StorageRedis || opts.Events == EventsRedis {
			checkers["redis"] = health.NewRedisChecker(do.MustInvoke[*Redis](i).Client)
		}

		return health.NewHandler(checkers), nil
	})
}
