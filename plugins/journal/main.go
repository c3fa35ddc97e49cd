package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-plugin"

	hookrpc "yogavrita/internal/modules/hook/adapter/out/rpc"
)

type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *hookrpc.Empty) (*hookrpc.Metadata, error) {
	return &hookrpc.Metadata{Name: "journal", Version: "1.0.0", Events: []string{"completion"}}, nil
}

func (s *server) OnCompletion(_ context.Context, in *hookrpc.CompletionRequest) (*hookrpc.CompletionResponse, error) {
	path, err := writeEntry(filepath.Join(in.DataDir, "journal"), in)
	if err != nil {
		return nil, err
	}
	return &hookrpc.CompletionResponse{Message: "journal updated: " + path}, nil
}

// writeEntry keeps one note per practice day and adds a line per session
// inside the managed block, leaving anything the user wrote around it intact.
// Replaying a record is a no-op.
func writeEntry(dir string, in *hookrpc.CompletionRequest) (string, error) {
	if in.Date == "" || in.RecordID == "" {
		return "", fmt.Errorf("date and record id are required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create journal dir: %w", err)
	}
	path := filepath.Join(dir, fileName(in.Date, in.Day))

	n := newNote(in.Day)
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if n, err = parseNote(string(existing)); err != nil {
			return "", err
		}
	case !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("read journal note: %w", err)
	}
	if n.hasSession(in.RecordID) {
		return path, nil
	}

	n.meta.Date = in.Date
	n.meta.Day = in.Day
	n.meta.CurrentStreak = int(in.CurrentStreak)
	n.meta.LongestStreak = int(in.LongestStreak)
	n.meta.TotalSeconds += int(in.DurationSeconds)
	n.meta.Sessions = append(n.meta.Sessions, entryLine(in))
	n.syncBlock()

	content, err := n.render()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write journal note: %w", err)
	}
	return path, nil
}

func entryLine(in *hookrpc.CompletionRequest) string {
	at := in.CompletedAt
	if t, err := time.Parse(time.RFC3339, in.CompletedAt); err == nil {
		at = t.Format("15:04")
	}
	d := time.Duration(in.DurationSeconds) * time.Second
	return fmt.Sprintf("%s %s (%s, streak %d)", at, in.RecordID, d, in.CurrentStreak)
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: hookrpc.HandshakeConfig,
		Plugins:         hookrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
