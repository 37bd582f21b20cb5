package inferencestore

import (
	"context"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/legal-assistant/internal/infra/inference/cached"
)

// ValkeyStore keeps inference responses in a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "inference"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	cmd := s.client.B().Get().Key(s.entryKey(key)).Build()
	payload, err := s.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return payload, true, nil
}

func (s *ValkeyStore) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	builder := s.client.B().Set().Key(s.entryKey(key)).Value(valkey.BinaryString(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

// Ping checks connectivity.
func (s *ValkeyStore) Ping(ctx context.Context) error {
	return s.client.Do(ctx, s.client.B().Ping().Build()).Error()
}

func (s *ValkeyStore) entryKey(key string) string {
	return s.prefix + ":" + key
}

var _ cached.Store = (*ValkeyStore)(nil)
