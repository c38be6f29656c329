package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
)

// Redis is the shared client. The injector closes it on shutdown.
type Redis struct {
	*redis.Client
}

func (r *Redis) Shutdown() error {
	return r.Close()
}

// RedisPackage provides *Redis. The connection is lazy, so nothing dials until a command runs.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*Redis, error) {
		opts := do.MustInvoke[*Options](i)

		return &Redis{Client: redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})
}
