package out

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	hookrpc "yogavrita/internal/modules/hook/adapter/out/rpc"
	"yogavrita/internal/modules/hook/domain"
	hookout "yogavrita/internal/modules/hook/port/out"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

type GRPCHost struct {
	logger       hclog.Logger
	startTimeout time.Duration
	callTimeout  time.Duration
}

// NewGRPCHost launches hook binaries with go-plugin. Plugin stderr and
// handshake chatter go to logger.
func NewGRPCHost(logger hclog.Logger) hookout.Host {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &GRPCHost{logger: logger, startTimeout: defaultStartTimeout, callTimeout: defaultCallTimeout}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	_, err := h.GetMetadata(ctx, manifest)
	return err
}

func (h *GRPCHost) GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx)
	defer cancel()
	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return domain.Metadata{}, h.callError(callCtx, manifest, "get metadata", err)
	}
	events := make([]domain.Event, 0, len(meta.Events))
	for _, e := range meta.Events {
		events = append(events, domain.Event(e))
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version, Events: events}, nil
}

func (h *GRPCHost) OnCompletion(ctx context.Context, manifest domain.Manifest, completion domain.Completion) (domain.Ack, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return domain.Ack{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx)
	defer cancel()
	response, err := client.OnCompletion(callCtx, &hookrpc.CompletionRequest{
		DataDir:         completion.DataDir,
		ProfileID:       completion.ProfileID,
		RecordID:        completion.RecordID,
		Date:            completion.Date,
		Day:             completion.Day,
		CompletedAt:     completion.CompletedAt.Format(time.RFC3339),
		DurationSeconds: int32(completion.DurationSeconds),
		Counted:         completion.Counted,
		CurrentStreak:   int32(completion.CurrentStreak),
		LongestStreak:   int32(completion.LongestStreak),
	})
	if err != nil {
		return domain.Ack{}, h.callError(callCtx, manifest, "on completion", err)
	}
	return domain.Ack{Message: response.Message}, nil
}

func (h *GRPCHost) connect(manifest domain.Manifest) (hookrpc.CompletionHookClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  hookrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          hookrpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     h.startTimeout,
		Logger:           h.logger.Named(manifest.Name),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start hook %s: %w", manifest.Name, err)
	}
	raw, err := rpcClient.Dispense(hookrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense hook %s: %w", manifest.Name, err)
	}
	typed, ok := raw.(hookrpc.CompletionHookClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("hook %s: rpc client type mismatch", manifest.Name)
	}
	return typed, closeFn, nil
}

func (h *GRPCHost) callContext(parent context.Context) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, h.callTimeout)
}

func (h *GRPCHost) callError(callCtx context.Context, manifest domain.Manifest, op string, err error) error {
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s %s", domain.ErrHookTimeout, manifest.Name, op)
	}
	return fmt.Errorf("%s %s: %w", manifest.Name, op, err)
}
