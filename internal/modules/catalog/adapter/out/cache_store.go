package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"yogavrita/internal/modules/catalog/domain"
	catalogout "yogavrita/internal/modules/catalog/port/out"
	apperrors "yogavrita/internal/platform/errors"
	"yogavrita/internal/platform/kv"
)

type sequencesBlob struct {
	Version   int               `json:"version"`
	Sequences []domain.Sequence `json:"sequences"`
}

type KVSequenceCache struct {
	store kv.Store
}

func NewKVSequenceCache(store kv.Store) catalogout.SequenceCache {
	return &KVSequenceCache{store: store}
}

// LoadSequences returns apperrors.ErrNotFound when nothing usable is cached.
func (c *KVSequenceCache) LoadSequences(ctx context.Context) ([]domain.Sequence, error) {
	raw, err := c.store.Get(ctx, kv.SequencesKey)
	if err != nil {
		return nil, err
	}
	blob := sequencesBlob{}
	if err := json.Unmarshal(raw, &blob); err != nil {
		return nil, fmt.Errorf("%w: decode cached sequences: %v", apperrors.ErrNotFound, err)
	}
	if blob.Sequences == nil {
		return nil, fmt.Errorf("%w: cached sequences missing", apperrors.ErrNotFound)
	}
	return blob.Sequences, nil
}

func (c *KVSequenceCache) SaveSequences(ctx context.Context, sequences []domain.Sequence) error {
	if sequences == nil {
		return errors.New("sequences are required")
	}
	raw, err := json.Marshal(sequencesBlob{Version: domain.SchemaVersion, Sequences: sequences})
	if err != nil {
		return fmt.Errorf("marshal sequences: %w", err)
	}
	return c.store.Set(ctx, kv.SequencesKey, raw)
}
