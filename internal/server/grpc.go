package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magefree/hexduel-server-go/internal/game"
	"github.com/magefree/hexduel-server-go/internal/repository"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name. Messages are
// google.protobuf.Struct values carrying the JSON shapes of this package.
const ServiceName = "hexduel.v1.MatchService"

const (
	methodStartMatch   = "/" + ServiceName + "/StartMatch"
	methodSubmitAction = "/" + ServiceName + "/SubmitAction"
	methodGetState     = "/" + ServiceName + "/GetState"
	methodListMatches  = "/" + ServiceName + "/ListMatches"
	methodListResults  = "/" + ServiceName + "/ListResults"
	methodWatchMatch   = "/" + ServiceName + "/WatchMatch"
)

// MatchServiceServer is the server side of hexduel.v1.MatchService.
type MatchServiceServer interface {
	StartMatch(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitAction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetState(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListMatches(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListResults(context.Context, *structpb.Struct) (*structpb.Struct, error)
	WatchMatch(*structpb.Struct, MatchService_WatchMatchServer) error
}

// MatchService_WatchMatchServer is the server stream of WatchMatch.
type MatchService_WatchMatchServer interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type watchMatchServer struct {
	grpc.ServerStream
}

func (x *watchMatchServer) Send(m *structpb.Struct) error {
	return x.ServerStream.SendMsg(m)
}

func unaryHandler(method string, call func(MatchServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(MatchServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(MatchServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func watchMatchHandler(srv interface{}, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(MatchServiceServer).WatchMatch(in, &watchMatchServer{stream})
}

// MatchServiceDesc describes hexduel.v1.MatchService for grpc.Server.
var MatchServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MatchServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "StartMatch", Handler: unaryHandler(methodStartMatch, MatchServiceServer.StartMatch)},
		{MethodName: "SubmitAction", Handler: unaryHandler(methodSubmitAction, MatchServiceServer.SubmitAction)},
		{MethodName: "GetState", Handler: unaryHandler(methodGetState, MatchServiceServer.GetState)},
		{MethodName: "ListMatches", Handler: unaryHandler(methodListMatches, MatchServiceServer.ListMatches)},
		{MethodName: "ListResults", Handler: unaryHandler(methodListResults, MatchServiceServer.ListResults)},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "WatchMatch", Handler: watchMatchHandler, ServerStreams: true},
	},
	Metadata: "hexduel/v1/match.proto",
}

// RegisterMatchServiceServer registers srv on s.
func RegisterMatchServiceServer(s grpc.ServiceRegistrar, srv MatchServiceServer) {
	s.RegisterService(&MatchServiceDesc, srv)
}

// toStruct converts a JSON-tagged value to a Struct.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

// fromStruct decodes a Struct into a JSON-tagged value.
func fromStruct(s *structpb.Struct, v any) error {
	data, err := json.Marshal(s.AsMap())
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func grpcError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, game.ErrMatchNotFound), errors.Is(err, repository.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, game.ErrTooManyMatches):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, ErrInvalidRequest):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

type matchServer struct {
	svc    *MatchService
	hub    *Hub
	logger *zap.Logger
}

// NewMatchServer adapts a MatchService to the gRPC interface. hub feeds
// WatchMatch; it may be nil when streaming is not wanted.
func NewMatchServer(svc *MatchService, hub *Hub, logger *zap.Logger) MatchServiceServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &matchServer{svc: svc, hub: hub, logger: logger}
}

func decode(in *structpb.Struct, v any) error {
	if err := fromStruct(in, v); err != nil {
		return status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	return nil
}

func encode(v any) (*structpb.Struct, error) {
	out, err := toStruct(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func (s *matchServer) StartMatch(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req StartMatchRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	resp, err := s.svc.StartMatch(ctx, req)
	if err != nil {
		return nil, grpcError(err)
	}
	return encode(resp)
}

func (s *matchServer) SubmitAction(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req SubmitActionRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	resp, err := s.svc.SubmitAction(ctx, req)
	if err != nil {
		return nil, grpcError(err)
	}
	return encode(resp)
}

type matchRef struct {
	MatchID string `json:"match_id"`
}

func (s *matchServer) GetState(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req matchRef
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	info, err := s.svc.State(ctx, req.MatchID)
	if err != nil {
		return nil, grpcError(err)
	}
	return encode(info)
}

func (s *matchServer) ListMatches(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return encode(map[string]any{"matches": s.svc.ListMatches(ctx)})
}

func (s *matchServer) ListResults(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct {
		Limit int `json:"limit"`
	}
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	results, err := s.svc.ListResults(ctx, req.Limit)
	if err != nil {
		return nil, grpcError(err)
	}
	type row struct {
		MatchID    string   `json:"match_id"`
		Players    []string `json:"players"`
		Winner     string   `json:"winner"`
		Turns      int      `json:"turns"`
		Seed       uint32   `json:"seed"`
		Checksum   string   `json:"checksum"`
		FinishedAt string   `json:"finished_at"`
	}
	rows := make([]row, 0, len(results))
	for _, r := range results {
		rows = append(rows, row{
			MatchID:    r.MatchID,
			Players:    r.Players,
			Winner:     r.Winner.String(),
			Turns:      r.Turns,
			Seed:       r.Seed,
			Checksum:   r.Checksum,
			FinishedAt: r.FinishedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return encode(map[string]any{"results": rows})
}

// WatchMatch streams the match's notifications until the client goes away.
func (s *matchServer) WatchMatch(in *structpb.Struct, stream MatchService_WatchMatchServer) error {
	if s.hub == nil {
		return status.Error(codes.Unimplemented, "match notifications are not enabled")
	}
	var req matchRef
	if err := decode(in, &req); err != nil {
		return err
	}
	ctx := stream.Context()
	if _, err := s.svc.State(ctx, req.MatchID); err != nil {
		return grpcError(err)
	}

	events, cancel := s.hub.Subscribe(req.MatchID)
	defer cancel()
	s.logger.Debug("watch started", zap.String("match_id", req.MatchID))

	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-events:
			if !ok {
				return nil
			}
			msg, err := encode(notificationView(n))
			if err != nil {
				return err
			}
			if err := stream.Send(msg); err != nil {
				return fmt.Errorf("send notification: %w", err)
			}
		}
	}
}

// NotificationView is the wire shape of a match notification.
type NotificationView struct {
	Type      string `json:"type"`
	MatchID   string `json:"match_id"`
	Player    int    `json:"player"`
	Turn      int    `json:"turn"`
	CardName  string `json:"card_name,omitempty"`
	Amount    int    `json:"amount,omitempty"`
	Data      string `json:"data,omitempty"`
	Timestamp string `json:"timestamp"`
}

func notificationView(n game.Notification) NotificationView {
	return NotificationView{
		Type:      n.Type,
		MatchID:   n.MatchID,
		Player:    int(n.Player),
		Turn:      n.Event.Turn,
		CardName:  n.Event.CardName,
		Amount:    n.Event.Amount,
		Data:      n.Event.Data,
		Timestamp: n.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
}

// NewGRPCServer builds a grpc.Server with the match service and the
// standard health service registered.
func NewGRPCServer(svc *MatchService, hub *Hub, logger *zap.Logger, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	opts = append([]grpc.ServerOption{
		grpc.UnaryInterceptor(ChainUnaryInterceptors(
			RecoveryInterceptor(logger),
			LoggingInterceptor(logger),
		)),
		grpc.StreamInterceptor(StreamLoggingInterceptor(logger)),
	}, opts...)
	srv := grpc.NewServer(opts...)
	RegisterMatchServiceServer(srv, NewMatchServer(svc, hub, logger))

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	return srv, healthServer
}
