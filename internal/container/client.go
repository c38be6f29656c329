package container

import (
	"fmt"
	"net/http"

	"github.com/samber/do"
	"github.com/serroba/shortlink-client/internal/identity"
	"github.com/serroba/shortlink-client/internal/linkservice"
	"github.com/serroba/shortlink-client/internal/store"
	"go.uber.org/zap"
)

// StoragePackage provides identity.Storage for the configured backend.
func StoragePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (identity.Storage, error) {
		opts := do.MustInvoke[*Options](i)

		switch opts.Storage {
		case StorageFile:
			path, err := opts.ResolvedStoragePath()
			if err != nil {
				return nil, fmt.Errorf("storage path: %w", err)
			}

			return store.NewFileStorage(path), nil
		case StorageRedis:
			return store.NewRedisStorage(do.MustInvoke[*Redis](i).Client), nil
		case StorageMemory:
			return store.NewMemoryStorage(), nil
		default:
			return nil, fmt.Errorf("unknown storage %q", opts.Storage)
		}
	})
}

// IdentityPackage provides *identity.Provider.
func IdentityPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*identity.Provider, error) {
		generate, err := identity.NewTokenGenerator()
		if err != nil {
			return nil, err
		}

		return identity.NewProvider(
			do.MustInvoke[identity.Storage](i),
			generate,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// ClientPackage provides the backend client, both as *linkservice.Client and linkservice.Service.
func ClientPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*http.Client, error) {
		return &http.Client{Timeout: do.MustInvoke[*Options](i).Timeout()}, nil
	})

	do.Provide(injector, func(i *do.Injector) (*linkservice.Client, error) {
		return linkservice.NewClient(
			do.MustInvoke[*Options](i).BaseURL,
			do.MustInvoke[*http.Client](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (linkservice.Service, error) {
		return do.MustInvoke[*linkservice.Client](i), nil
	})
}
