package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"taskboard/internal/model"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "taskboard:"

// RedisStore keeps the state tree as one JSON value and the event log as a list.
type RedisStore struct {
	Client *redis.Client
	Prefix string
}

// NewRedisStore connects using a redis:// URL, falling back to a bare host:port address.
func NewRedisStore(rawURL, prefix string) (*RedisStore, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, errors.New("redis store: missing url")
	}
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		opts = &redis.Options{Addr: rawURL}
	}
	return &RedisStore{Client: redis.NewClient(opts), Prefix: prefix}, nil
}

func (s *RedisStore) key(k string) string {
	p := s.Prefix
	if p == "" {
		p = defaultRedisPrefix
	}
	return p + k
}

func (s *RedisStore) Load(ctx context.Context) (*State, error) {
	b, err := s.Client.Get(ctx, s.key("state")).Bytes()
	if errors.Is(err, redis.Nil) {
		return emptyState(), nil
	}
	if err != nil {
		return nil, err
	}
	return decodeState(b)
}

func (s *RedisStore) Save(ctx context.Context, st *State) error {
	if st == nil {
		return ErrNilState
	}
	cp := *st
	if cp.Version == 0 {
		cp.Version = Version
	}
	if cp.Tasks == nil {
		cp.Tasks = []model.Task{}
	}
	b, err := json.Marshal(cp)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, s.key("state"), b, 0).Err()
}

func (s *RedisStore) AppendEvent(ctx context.Context, actorID, typ, entityID string, payload any) error {
	if strings.TrimSpace(typ) == "" {
		return errors.New("append event: missing type")
	}
	ev, err := newEvent(actorID, typ, entityID, payload)
	if err != nil {
		return err
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.Client.RPush(ctx, s.key("events"), b).Err()
}

func (s *RedisStore) ReadEvents(ctx context.Context, limit int) ([]model.Event, error) {
	start := int64(0)
	if limit > 0 {
		start = -int64(limit)
	}
	raws, err := s.Client.LRange(ctx, s.key("events"), start, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]model.Event, 0, len(raws))
	for _, raw := range raws {
		var ev model.Event
		if err := json.Unmarshal([]byte(raw), &ev); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

func (s *RedisStore) Close() error {
	return s.Client.Close()
}
