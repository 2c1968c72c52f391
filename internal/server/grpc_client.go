package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// MatchServiceClient is the client side of hexduel.v1.MatchService.
type MatchServiceClient interface {
	StartMatch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	SubmitAction(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetState(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListMatches(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListResults(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	WatchMatch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (MatchService_WatchMatchClient, error)
}

// MatchService_WatchMatchClient receives WatchMatch notifications.
type MatchService_WatchMatchClient interface {
	Recv() (*structpb.Struct, error)
	grpc.ClientStream
}

type matchServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewMatchServiceClient wraps a connection.
func NewMatchServiceClient(cc grpc.ClientConnInterface) MatchServiceClient {
	return &matchServiceClient{cc}
}

func (c *matchServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *matchServiceClient) StartMatch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodStartMatch, in, opts...)
}

func (c *matchServiceClient) SubmitAction(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodSubmitAction, in, opts...)
}

func (c *matchServiceClient) GetState(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodGetState, in, opts...)
}

func (c *matchServiceClient) ListMatches(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodListMatches, in, opts...)
}

func (c *matchServiceClient) ListResults(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodListResults, in, opts...)
}

func (c *matchServiceClient) WatchMatch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (MatchService_WatchMatchClient, error) {
	stream, err := c.cc.NewStream(ctx, &MatchServiceDesc.Streams[0], methodWatchMatch, opts...)
	if err != nil {
		return nil, err
	}
	x := &watchMatchClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type watchMatchClient struct {
	grpc.ClientStream
}

func (x *watchMatchClient) Recv() (*structpb.Struct, error) {
	m := new(structpb.Struct)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
