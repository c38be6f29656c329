package container

import (
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/shortlink-client/internal/stub"
	"go.uber.org/zap"
)

// StubPackage provides the stub backend router.
func StubPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (stub.Repository, error) {
		return stub.NewMemoryRepository(), nil
	})

	do.Provide(injector, func(i *do.Injector) (*stub.Handler, error) {
		opts := do.MustInvoke[*Options](i)

		generate, err := stub.NewCodeGenerator(opts.CodeLength)
		if err != nil {
			return nil, err
		}

		return stub.NewHandler(
			do.MustInvoke[stub.Repository](i),
			opts.PublicURL,
			generate,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (*chi.Mux, error) {
		return stub.NewRouter(do.MustInvoke[*stub.Handler](i), do.MustInvoke[*zap.Logger](i)), nil
	})
}
