package sessions

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const defaultClearInterval = 10 * time.Minute

// NewInMemory returns a session engine for single-process deployments and
// tests.
func NewInMemory(defaultTTL time.Duration) Engine {
	return &inMemory{
		engine: gocache.New(defaultTTL, defaultClearInterval),
	}
}

type inMemory struct {
	engine *gocache.Cache
}

func (i *inMemory) Get(token string) (string, bool, error) {
	data, found := i.engine.Get(token)
	if !found {
		return "", false, nil
	}
	ownerID, ok := data.(string)
	if !ok {
		return "", false, ErrUnexpectedError
	}
	return ownerID, true, nil
}

func (i *inMemory) Set(token, ownerID string, ttl time.Duration) error {
	i.engine.Set(token, ownerID, ttl)
	return nil
}

func (i *inMemory) Delete(token string) error {
	i.engine.Delete(token)
	return nil
}
