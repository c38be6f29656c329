package container

import (
	"context"

	"github.com/samber/do"
	"github.com/serroba/shortlink-client/internal/activity"
	"github.com/serroba/shortlink-client/internal/collection"
	"github.com/serroba/shortlink-client/internal/creation"
	"github.com/serroba/shortlink-client/internal/identity"
	"github.com/serroba/shortlink-client/internal/linkservice"
	"go.uber.org/zap"
)

// ControllersPackage provides the collection manager. Creation controllers are per user;
// build them with NewCreationController.
func ControllersPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*collection.Manager, error) {
		return collection.NewManager(
			do.MustInvoke[linkservice.Service](i),
			do.MustInvoke[activity.Publishers](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// NewCreationController resolves the current user and returns a create-form controller for them.
func NewCreationController(ctx context.Context, i *do.Injector) (*creation.Controller, error) {
	userID, err := do.MustInvoke[*identity.Provider](i).GetOrCreateUserID(ctx)
	if err != nil {
		return nil, err
	}

	return creation.NewController(
		do.MustInvoke[linkservice.Service](i),
		userID,
		do.MustInvoke[activity.Publishers](i),
		do.MustInvoke[*zap.Logger](i),
	), nil
}

// Register installs every client-side package.
func Register(injector *do.Injector, options *Options) {
	do.ProvideValue(injector, options)
	LoggerPackage(injector)
	RedisPackage(injector)
	StoragePackage(injector)
	IdentityPackage(injector)
	ClientPackage(injector)
	EventsPackage(injector)
	ControllersPackage(injector)
	HealthPackage(injector)
}
