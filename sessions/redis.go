package sessions

import (
	"fmt"
	"time"

	redigo "github.com/gomodule/redigo/redis"
)

const sessionKey = "session:%s"

// NewRedis returns a session engine backed by a shared redis, so tokens
// issued by the auth service are visible to every instance.
func NewRedis(host string, port int) Engine {
	pool := &redigo.Pool{
		Dial: func() (redigo.Conn, error) {
			return redigo.Dial("tcp", fmt.Sprintf("%s:%d", host, port))
		},
		// Periodic check
		TestOnBorrow: func(c redigo.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
	return &redis{pool}
}

type redis struct {
	pool *redigo.Pool
}

func (r *redis) Get(token string) (string, bool, error) {
	reply, err := r.do("GET", fmt.Sprintf(sessionKey, token))
	if reply == nil && err == nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	ownerID, err := redigo.String(reply, err)
	if err != nil {
		return "", false, err
	}
	return ownerID, true, nil
}

func (r *redis) Set(token, ownerID string, ttl time.Duration) error {
	if _, err := r.do("SETEX", fmt.Sprintf(sessionKey, token), uint64(ttl.Seconds()), ownerID); err != nil {
		return fmt.Errorf("call SETEX: %w", err)
	}
	return nil
}

func (r *redis) Delete(token string) error {
	_, err := r.do("DEL", fmt.Sprintf(sessionKey, token))
	return err
}

func (r *redis) do(commandName string, args ...interface{}) (reply interface{}, err error) {
	c := r.pool.Get()
	defer c.Close()
	return c.Do(commandName, args...)
}
