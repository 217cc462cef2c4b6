// Package localstore is the on-device key/value store that backs persisted
// reactive containers. Every value is a JSON string under a flat key.
package localstore

import (
	"fmt"
	"strings"
)

// Store is a key to string store. Get reports ok=false for a missing key.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
	Close() error
}

// Options selects and configures a Store driver.
type Options struct {
	Driver        string // sqlite, redis or memory
	Dir           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Namespace     string
}

// Open returns the Store for opts.Driver.
func Open(opts Options) (Store, error) {
	switch strings.ToLower(opts.Driver) {
	case "", "sqlite":
		return OpenSQLite(opts.Dir)
	case "redis":
		return OpenRedis(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.Namespace)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown local store driver %q", opts.Driver)
	}
}
