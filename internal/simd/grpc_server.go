package simd

import (
	"context"
	"errors"
	"fmt"
	"math"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/GoSim-25-26J-441/bandit-sim/internal/metrics"
	"github.com/GoSim-25-26J-441/bandit-sim/internal/session"
	"github.com/GoSim-25-26J-441/bandit-sim/pkg/logger"
	"github.com/GoSim-25-26J-441/bandit-sim/pkg/models"
)

// BanditServiceName is the fully qualified gRPC service name.
const BanditServiceName = "bandit.v1.BanditService"

// BanditServiceServer is the server API for the bandit service. Every method
// takes and returns a google.protobuf.Struct carrying the same JSON bodies as
// the HTTP API.
type BanditServiceServer interface {
	CreateSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SimulateRandom(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SimulateGreedy(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Compare(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Summarize(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Replay(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResetSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	TuneEpsilon(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterBanditServiceServer registers srv on a gRPC server
func RegisterBanditServiceServer(s grpc.ServiceRegistrar, srv BanditServiceServer) {
	s.RegisterService(&banditServiceDesc, srv)
}

type unaryCall func(BanditServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryMethod(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(BanditServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + BanditServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(BanditServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var banditServiceDesc = grpc.ServiceDesc{
	ServiceName: BanditServiceName,
	HandlerType: (*BanditServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("CreateSession", BanditServiceServer.CreateSession),
		unaryMethod("SimulateRandom", BanditServiceServer.SimulateRandom),
		unaryMethod("SimulateGreedy", BanditServiceServer.SimulateGreedy),
		unaryMethod("Compare", BanditServiceServer.Compare),
		unaryMethod("Summarize", BanditServiceServer.Summarize),
		unaryMethod("Replay", BanditServiceServer.Replay),
		unaryMethod("ResetSession", BanditServiceServer.ResetSession),
		unaryMethod("TuneEpsilon", BanditServiceServer.TuneEpsilon),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bandit/v1/bandit.proto",
}

type sessionRequest struct {
	SessionID string `json:"session_id,omitempty"`
}

type simulateRequest struct {
	SessionID string `json:"session_id"`
	RunParams
}

type compareRequest struct {
	SessionID string `json:"session_id"`
	CompareParams
}

type summarizeRequest struct {
	SessionID string `json:"session_id"`
	Policy    string `json:"policy"`
}

type replayRequest struct {
	SessionID string `json:"session_id"`
	Step      *int   `json:"step,omitempty"`
}

// BanditGRPCServer implements BanditServiceServer on top of an Executor.
type BanditGRPCServer struct {
	store    *session.Store
	Executor *Executor
}

// NewBanditGRPCServer creates a gRPC server backed by executor
func NewBanditGRPCServer(executor *Executor) *BanditGRPCServer {
	return &BanditGRPCServer{
		store:    executor.Store(),
		Executor: executor,
	}
}

func (s *BanditGRPCServer) CreateSession(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req sessionRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, err
	}
	sess, err := s.store.Create(req.SessionID)
	if err != nil {
		return nil, grpcError(err)
	}
	logger.Info("session created", "session_id", sess.ID)
	return encodeStruct(map[string]any{"session": NewSessionView(sess.Snapshot())})
}

func (s *BanditGRPCServer) SimulateRandom(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.simulate(ctx, in, models.PolicyRandom)
}

func (s *BanditGRPCServer) SimulateGreedy(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.simulate(ctx, in, models.PolicyEpsilonGreedy)
}

func (s *BanditGRPCServer) simulate(ctx context.Context, in *structpb.Struct, policy models.Policy) (*structpb.Struct, error) {
	var req simulateRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, err
	}
	run, err := s.Executor.Simulate(ctx, req.SessionID, policy, req.RunParams)
	if err != nil {
		return nil, grpcError(err)
	}
	return encodeStruct(map[string]any{"run": NewRunView(run)})
}

func (s *BanditGRPCServer) Compare(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req compareRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, err
	}
	imp, err := s.Executor.Compare(ctx, req.SessionID, req.CompareParams)
	if err != nil {
		return nil, grpcError(err)
	}
	sess, err := s.store.Get(req.SessionID)
	if err != nil {
		return nil, grpcError(err)
	}
	return encodeStruct(compareResult(imp, sess.Snapshot()))
}

func (s *BanditGRPCServer) Summarize(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req summarizeRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, err
	}
	policy, err := models.ParsePolicy(req.Policy)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	summary, err := s.Executor.Summary(req.SessionID, policy)
	if err != nil {
		return nil, grpcError(err)
	}
	return encodeStruct(map[string]any{"summary": summary})
}

func (s *BanditGRPCServer) Replay(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req replayRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, err
	}
	step := math.MaxInt
	if req.Step != nil {
		step = *req.Step
	}
	view, err := s.Executor.Replay(req.SessionID, step)
	if err != nil {
		return nil, grpcError(err)
	}
	return encodeStruct(ReplayResult{
		Replay: view,
		Steps:  metrics.ReplaySteps(view.MaxStep, s.Executor.Config().Replay.Interval),
	})
}

func (s *BanditGRPCServer) ResetSession(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req sessionRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, err
	}
	if err := s.Executor.Reset(req.SessionID); err != nil {
		return nil, grpcError(err)
	}
	sess, err := s.store.Get(req.SessionID)
	if err != nil {
		return nil, grpcError(err)
	}
	return encodeStruct(map[string]any{"session": NewSessionView(sess.Snapshot())})
}

func (s *BanditGRPCServer) TuneEpsilon(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req TuneParams
	if err := decodeStruct(in, &req); err != nil {
		return nil, err
	}
	res, err := s.Executor.Tune(ctx, req)
	if err != nil {
		return nil, grpcError(err)
	}
	return encodeStruct(map[string]any{"tuning": res})
}

// grpcError maps executor and store errors to status codes
func grpcError(err error) error {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, session.ErrSessionExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case IsInvalidInput(err):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// decodeStruct converts a Struct into dst through its canonical JSON form.
func decodeStruct(in *structpb.Struct, dst any) error {
	if in == nil {
		return nil
	}
	b, err := protojson.Marshal(in)
	if err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if err := unmarshalJSON(b, dst); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	return nil
}

// encodeStruct converts any JSON-encodable value into a Struct.
func encodeStruct(v any) (*structpb.Struct, error) {
	b, err := marshalJSON(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	return out, nil
}
