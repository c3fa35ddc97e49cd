package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	hclog "github.com/hashicorp/go-hclog"

	"yogavrita/internal/modules/hook/domain"
	"yogavrita/internal/modules/hook/dto"
	hookout "yogavrita/internal/modules/hook/port/out"
)

type HookService struct {
	store   hookout.ManifestStore
	host    hookout.Host
	dataDir string
	logger  hclog.Logger
}

func NewHookService(store hookout.ManifestStore, host hookout.Host, dataDir string, logger hclog.Logger) *HookService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &HookService{store: store, host: host, dataDir: dataDir, logger: logger}
}

func (s *HookService) List(ctx context.Context) ([]dto.HookInfo, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HookInfo, 0, len(manifests))
	for _, m := range manifests {
		events := make([]string, 0, len(m.Events))
		for _, e := range m.Events {
			events = append(events, string(e))
		}
		out = append(out, dto.HookInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary, Events: events})
	}
	return out, nil
}

func (s *HookService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		result.BinaryReachable = fileExists(m.Binary)
		if !result.BinaryReachable {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
			results = append(results, result)
			continue
		}
		result.ChecksumValid = checksumMatches(m.Binary, m.SHA256) == nil
		if !result.ChecksumValid {
			result.Error = "checksum mismatch"
			results = append(results, result)
			continue
		}
		if m.Enabled && s.host != nil {
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		results = append(results, result)
	}
	return results, nil
}

// NotifyCompletion delivers notice to every enabled hook subscribed to
// completions. One failing hook does not stop the others; all failures are
// returned joined.
func (s *HookService) NotifyCompletion(ctx context.Context, notice dto.CompletionNotice) (dto.NotifyResult, error) {
	result := dto.NotifyResult{Messages: map[string]string{}}
	if s.host == nil {
		return result, nil
	}
	completion := domain.Completion{
		DataDir:         s.dataDir,
		ProfileID:       notice.ProfileID,
		RecordID:        notice.RecordID,
		Date:            notice.Date,
		Day:             notice.Day,
		CompletedAt:     notice.CompletedAt,
		DurationSeconds: notice.DurationSeconds,
		Counted:         notice.Counted,
		CurrentStreak:   notice.CurrentStreak,
		LongestStreak:   notice.LongestStreak,
	}
	if err := completion.Validate(); err != nil {
		return result, err
	}
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return result, err
	}

	errs := []error{}
	for _, m := range manifests {
		if !m.Enabled || !m.Subscribes(domain.EventCompletion) {
			continue
		}
		if err := checksumMatches(m.Binary, m.SHA256); err != nil {
			s.logger.Warn("skipping hook", "hook", m.Name, "error", err)
			errs = append(errs, err)
			continue
		}
		ack, err := s.host.OnCompletion(ctx, m, completion)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				err = fmt.Errorf("%w: %s", domain.ErrHookTimeout, m.Name)
			}
			s.logger.Warn("hook failed", "hook", m.Name, "error", err)
			errs = append(errs, err)
			continue
		}
		s.logger.Debug("hook notified", "hook", m.Name, "message", ack.Message)
		result.Delivered = append(result.Delivered, m.Name)
		result.Messages[m.Name] = ack.Message
	}
	return result, errors.Join(errs...)
}

func (s *HookService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seenNames := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seenNames[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate hook name: %s", manifest.Name)
		}
		seenNames[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read hook binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	if hex.EncodeToString(hash[:]) != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
