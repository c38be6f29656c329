package container

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Storage backends for the user identity.
const (
	StorageFile   = "file"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// Event transports for lifecycle events.
const (
	EventsNone   = "none"
	EventsMemory = "memory"
	EventsRedis  = "redis"
)

// Options are shared by every binary. Each one can also be set through SERVICE_<NAME>.
type Options struct {
	BaseURL        string `default:"http://localhost:8080/api"         help:"Backend base URL"                             short:"b"`
	Storage        string `default:"file"                              help:"Identity storage: file, redis or memory"`
	StoragePath    string `default:"~/.config/shortlink/identity.yaml" help:"Identity file for file storage"`
	RedisAddr      string `default:"localhost:6379"                    help:"Redis server address"                         short:"r"`
	Events         string `default:"memory"                            help:"Lifecycle events: none, memory or redis"`
	LogFormat      string `default:"console"                           help:"Log format: console or json"`
	LogLevel       string `default:"warn"                              help:"Log level"`
	RequestTimeout int    `default:"0"                                 help:"Backend request timeout in seconds, 0 for none"`
	Port           int    `default:"8080"                              help:"Stub server port"                             short:"p"`
	PublicURL      string `default:"http://localhost:8080"             help:"Stub server public URL used in short_url"`
	CodeLength     int    `default:"6"                                 help:"Length of generated short codes"              short:"c"`
}

// Timeout returns RequestTimeout as a duration.
func (o *Options) Timeout() time.Duration {
	if o.RequestTimeout <= 0 {
		return 0
	}

	return time.Duration(o.RequestTimeout) * time.Second
}

// ResolvedStoragePath expands a leading ~ in StoragePath.
func (o *Options) ResolvedStoragePath() (string, error) {
	path := o.StoragePath
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
