package runlock

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const Key = "soja:sync:lock"

// ErrBusy means another run holds the lock.
var ErrBusy = errors.New("outra execução em andamento")

// Only the holder's token may delete the key.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

type Lock struct {
	Client *redis.Client
	TTL    time.Duration
	token  string
}

func New(url string, ttl time.Duration) (*Lock, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("REDIS_URL inválida: %w", err)
	}
	return &Lock{Client: redis.NewClient(opts), TTL: ttl}, nil
}

func (l *Lock) Acquire(ctx context.Context) error {
	token := uuid.NewString()
	ok, err := l.Client.SetNX(ctx, Key, token, l.TTL).Result()
	if err != nil {
		return fmt.Errorf("falha ao obter lock: %w", err)
	}
	if !ok {
		return ErrBusy
	}
	l.token = token
	log.Printf("[Lock] lock %s obtido (ttl %s)", Key, l.TTL)
	return nil
}

// Release drops the lock if it is still ours; an expired lock taken over by
// another run is left alone.
func (l *Lock) Release(ctx context.Context) error {
	if l.token == "" {
		return nil
	}
	n, err := releaseScript.Run(ctx, l.Client, []string{Key}, l.token).Int()
	l.token = ""
	if err != nil {
		return fmt.Errorf("falha ao liberar lock: %w", err)
	}
	if n == 0 {
		log.Printf("[Lock] lock %s expirou antes do fim da execução", Key)
	}
	return nil
}

func (l *Lock) Close() error {
	return l.Client.Close()
}
