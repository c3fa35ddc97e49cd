package out

import (
	"context"

	"yogavrita/internal/modules/hook/domain"
)

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	OnCompletion(ctx context.Context, manifest domain.Manifest, completion domain.Completion) (domain.Ack, error)
}
