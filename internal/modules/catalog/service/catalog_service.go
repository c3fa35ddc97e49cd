package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"yogavrita/internal/modules/catalog/domain"
	catalogout "yogavrita/internal/modules/catalog/port/out"
	"yogavrita/internal/platform/calendar"
	apperrors "yogavrita/internal/platform/errors"
)

type CatalogService struct {
	source  catalogout.SequenceSource
	cache   catalogout.SequenceCache
	encoder catalogout.SequenceEncoder
	restDay time.Weekday
	logger  hclog.Logger

	mu     sync.Mutex
	loaded []domain.Sequence
}

func NewCatalogService(
	source catalogout.SequenceSource,
	cache catalogout.SequenceCache,
	encoder catalogout.SequenceEncoder,
	restDay time.Weekday,
	logger hclog.Logger,
) *CatalogService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &CatalogService{source: source, cache: cache, encoder: encoder, restDay: restDay, logger: logger}
}

func (s *CatalogService) Sequences(ctx context.Context) ([]domain.Sequence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded != nil {
		return s.loaded, nil
	}
	sequences, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.loaded = sequences
	return sequences, nil
}

func (s *CatalogService) load(ctx context.Context) ([]domain.Sequence, error) {
	sequences, err := s.source.Sequences(ctx)
	if err == nil {
		err = domain.ValidateAll(sequences)
	}
	if err == nil {
		if s.cache != nil {
			if cacheErr := s.cache.SaveSequences(ctx, sequences); cacheErr != nil {
				s.logger.Warn("refresh catalog cache", "error", cacheErr)
			}
		}
		return sequences, nil
	}

	s.logger.Warn("catalog source unusable, trying cache", "error", err)
	if s.cache == nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	cached, cacheErr := s.cache.LoadSequences(ctx)
	if cacheErr != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if validErr := domain.ValidateAll(cached); validErr != nil {
		s.logger.Warn("cached catalog invalid", "error", validErr)
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return cached, nil
}

func (s *CatalogService) ForDay(ctx context.Context, day domain.Weekday) (domain.Sequence, error) {
	sequences, err := s.Sequences(ctx)
	if err != nil {
		return domain.Sequence{}, err
	}
	for _, seq := range sequences {
		if d, _ := domain.ParseWeekday(string(seq.Day)); d == day {
			return seq, nil
		}
	}
	return domain.Sequence{}, fmt.Errorf("%w: no sequence for %s", apperrors.ErrNotFound, day)
}

// Today resolves the sequence scheduled for the calendar day of now.
func (s *CatalogService) Today(ctx context.Context, now time.Time) (domain.Sequence, error) {
	weekday := calendar.Of(now).Weekday()
	if weekday == s.restDay {
		return domain.Sequence{}, apperrors.ErrRestDay
	}
	return s.ForDay(ctx, domain.WeekdayOf(weekday))
}

func (s *CatalogService) Export(ctx context.Context, w io.Writer) error {
	if s.encoder == nil {
		return fmt.Errorf("catalog encoder is not configured")
	}
	sequences, err := s.Sequences(ctx)
	if err != nil {
		return err
	}
	return s.encoder.Encode(w, sequences)
}
