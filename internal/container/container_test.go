package container_test

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/shortlink-client/internal/activity"
	"github.com/serroba/shortlink-client/internal/collection"
	"github.com/serroba/shortlink-client/internal/container"
	"github.com/serroba/shortlink-client/internal/creation"
	"github.com/serroba/shortlink-client/internal/health"
	"github.com/serroba/shortlink-client/internal/identity"
	"github.com/serroba/shortlink-client/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() *container.Options {
	return &container.Options{
		BaseURL:    "http://localhost:8080/api",
		Storage:    container.StorageMemory,
		Events:     container.EventsNone,
		LogFormat:  "console",
		LogLevel:   "error",
		PublicURL:  "http://sho.rt",
		CodeLength: 6,
	}
}

func stubBackend(t *testing.T) *httptest.Server {
	t.Helper()

	injector := do.New()
	do.ProvideValue(injector, testOptions())
	container.LoggerPackage(injector)
	container.StubPackage(injector)

	srv := httptest.NewServer(do.MustInvoke[*chi.Mux](injector))
	t.Cleanup(srv.Close)

	return srv
}

func TestNewLogger(t *testing.T) {
	t.Run("console", func(t *testing.T) {
		logger, err := container.NewLogger("console", "info")
		require.NoError(t, err)
		assert.NotNil(t, logger)
	})

	t.Run("json", func(t *testing.T) {
		logger, err := container.NewLogger("json", "debug")
		require.NoError(t, err)
		assert.NotNil(t, logger)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := container.NewLogger("xml", "info")
		assert.Error(t, err)
	})

	t.Run("unknown level", func(t *testing.T) {
		_, err := container.NewLogger("console", "loud")
		assert.Error(t, err)
	})
}

func TestOptions(t *testing.T) {
	t.Run("timeout", func(t *testing.T) {
		assert.Equal(t, time.Duration(0), (&container.Options{}).Timeout())
		assert.Equal(t, 5*time.Second, (&container.Options{RequestTimeout: 5}).Timeout())
	})

	t.Run("expands home", func(t *testing.T) {
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		path, err := (&container.Options{StoragePath: "~/x/id.yaml"}).ResolvedStoragePath()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "x", "id.yaml"), path)
	})

	t.Run("absolute path unchanged", func(t *testing.T) {
		path, err := (&container.Options{StoragePath: "/tmp/id.yaml"}).ResolvedStoragePath()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/id.yaml", path)
	})
}

func TestStoragePackage(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		injector := do.New()
		container.Register(injector, testOptions())

		s := do.MustInvoke[identity.Storage](injector)
		assert.IsType(t, &store.MemoryStorage{}, s)
	})

	t.Run("file", func(t *testing.T) {
		opts := testOptions()
		opts.Storage = container.StorageFile
		opts.StoragePath = filepath.Join(t.TempDir(), "identity.yaml")

		injector := do.New()
		container.Register(injector, opts)

		fs, ok := do.MustInvoke[identity.Storage](injector).(*store.FileStorage)
		require.True(t, ok)
		assert.Equal(t, opts.StoragePath, fs.Path())
	})

	t.Run("unknown", func(t *testing.T) {
		opts := testOptions()
		opts.Storage = "floppy"

		injector := do.New()
		container.Register(injector, opts)

		_, err := do.Invoke[identity.Storage](injector)
		assert.Error(t, err)
	})
}

func TestEventsPackage(t *testing.T) {
	t.Run("none publishes nowhere", func(t *testing.T) {
		injector := do.New()
		container.Register(injector, testOptions())

		p := do.MustInvoke[activity.Publishers](injector)
		assert.NoError(t, p.LinkCreated(context.Background(), &activity.LinkCreatedEvent{}))
		assert.NoError(t, injector.Shutdown())
	})

	t.Run("memory runs the journal in process", func(t *testing.T) {
		opts := testOptions()
		opts.Events = container.EventsMemory

		injector := do.New()
		container.Register(injector, opts)

		p := do.MustInvoke[activity.Publishers](injector)
		assert.NoError(t, p.LinkDeleted(context.Background(), &activity.LinkDeletedEvent{ID: 1, UserID: "u1"}))
		assert.NoError(t, injector.Shutdown())
	})

	t.Run("unknown transport", func(t *testing.T) {
		opts := testOptions()
		opts.Events = "carrier-pigeon"

		injector := do.New()
		container.Register(injector, opts)

		_, err := do.Invoke[activity.Publishers](injector)
		assert.Error(t, err)
	})
}

func TestRegister_AgainstStub(t *testing.T) {
	srv := stubBackend(t)

	opts := testOptions()
	opts.BaseURL = srv.URL + "/api"

	injector := do.New()
	container.Register(injector, opts)
	t.Cleanup(func() { _ = injector.Shutdown() })

	ctx := context.Background()

	ctrl, err := container.NewCreationController(ctx, injector)
	require.NoError(t, err)
	require.NoError(t, ctrl.UpdateField(creation.FieldLongURL, "example.com/page"))

	s, err := ctrl.Submit(ctx)
	require.NoError(t, err)
	require.Equal(t, creation.PhaseSucceeded, s.Phase)
	assert.Equal(t, "http://example.com/page", s.Result.LongURL)

	userID, err := do.MustInvoke[*identity.Provider](injector).GetOrCreateUserID(ctx)
	require.NoError(t, err)

	loaded := do.MustInvoke[*collection.Manager](injector).Load(ctx, userID)
	require.Equal(t, collection.LoadStateReady, loaded.LoadState)
	require.Len(t, loaded.Links, 1)
	assert.Equal(t, s.Result.ShortCode, loaded.Links[0].ShortCode)

	resp, err := do.MustInvoke[*health.Handler](injector).Check(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, health.StatusOK, resp.Body.Status)
	assert.Equal(t, []string{"backend"}, resp.Body.Names())
}
