package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey       = "yogavrita-hook"
	serviceName        = "yogavrita.hook.v1.CompletionHook"
	jsonCodecName      = "json"
	methodGetMetadata  = "/" + serviceName + "/GetMetadata"
	methodOnCompletion = "/" + serviceName + "/OnCompletion"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "YOGAVRITA_HOOK",
	MagicCookieValue: "yogavrita",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Events  []string `json:"events"`
}

type CompletionRequest struct {
	DataDir         string `json:"data_dir"`
	ProfileID       string `json:"profile_id"`
	RecordID        string `json:"record_id"`
	Date            string `json:"date"`
	Day             string `json:"day"`
	CompletedAt     string `json:"completed_at"`
	DurationSeconds int32  `json:"duration_seconds"`
	Counted         bool   `json:"counted"`
	CurrentStreak   int32  `json:"current_streak"`
	LongestStreak   int32  `json:"longest_streak"`
}

type CompletionResponse struct {
	Message string `json:"message"`
}

type CompletionHookServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	OnCompletion(ctx context.Context, in *CompletionRequest) (*CompletionResponse, error)
}

type CompletionHookClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	OnCompletion(ctx context.Context, in *CompletionRequest) (*CompletionResponse, error)
}

type completionHookClient struct {
	conn *grpc.ClientConn
}

func NewCompletionHookClient(conn *grpc.ClientConn) CompletionHookClient {
	return &completionHookClient{conn: conn}
}

func (c *completionHookClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *completionHookClient) OnCompletion(ctx context.Context, in *CompletionRequest) (*CompletionResponse, error) {
	out := &CompletionResponse{}
	if err := c.conn.Invoke(ctx, methodOnCompletion, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

// unary adapts a typed server method to a grpc.MethodDesc handler.
func unary[Req any, Resp any](fullMethod string, call func(context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*Req)
			if !ok {
				return nil, fmt.Errorf("invalid request type %T", req)
			}
			return call(ctx, typed)
		}
		return interceptor(ctx, in, info, handler)
	}
}

func RegisterCompletionHookServer(server grpc.ServiceRegistrar, impl CompletionHookServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*CompletionHookServer)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "GetMetadata", Handler: unary(methodGetMetadata, impl.GetMetadata)},
			{MethodName: "OnCompletion", Handler: unary(methodOnCompletion, impl.OnCompletion)},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/hook-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl CompletionHookServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterCompletionHookServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewCompletionHookClient(conn), nil
}

func PluginMap(impl CompletionHookServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
