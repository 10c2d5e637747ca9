package handlers

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "counterparty.v1.CounterpartyService"

// CounterpartyServiceServer is the gRPC surface of the service. Messages are
// protobuf well-known types; structured payloads travel as structpb.Struct.
type CounterpartyServiceServer interface {
	OpenSession(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	CloseSession(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	LoadCounterparties(context.Context, *structpb.Struct) (*structpb.Struct, error)
	LoadDemo(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	FilterCounterparties(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	InviteCounterparty(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	CountByStatus(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GetSummary(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	AcknowledgeFile(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	SaveSearch(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GetSearchHistory(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// FullMethod returns the gRPC path of method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// ServiceDesc describes CounterpartyServiceServer for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CounterpartyServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("OpenSession", func(s CounterpartyServiceServer, ctx context.Context, in *emptypb.Empty) (proto.Message, error) {
			return s.OpenSession(ctx, in)
		}),
		unary("CloseSession", func(s CounterpartyServiceServer, ctx context.Context, in *emptypb.Empty) (proto.Message, error) {
			return s.CloseSession(ctx, in)
		}),
		unary("LoadCounterparties", func(s CounterpartyServiceServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
			return s.LoadCounterparties(ctx, in)
		}),
		unary("LoadDemo", func(s CounterpartyServiceServer, ctx context.Context, in *emptypb.Empty) (proto.Message, error) {
			return s.LoadDemo(ctx, in)
		}),
		unary("FilterCounterparties", func(s CounterpartyServiceServer, ctx context.Context, in *wrapperspb.StringValue) (proto.Message, error) {
			return s.FilterCounterparties(ctx, in)
		}),
		unary("InviteCounterparty", func(s CounterpartyServiceServer, ctx context.Context, in *wrapperspb.StringValue) (proto.Message, error) {
			return s.InviteCounterparty(ctx, in)
		}),
		unary("CountByStatus", func(s CounterpartyServiceServer, ctx context.Context, in *wrapperspb.StringValue) (proto.Message, error) {
			return s.CountByStatus(ctx, in)
		}),
		unary("GetSummary", func(s CounterpartyServiceServer, ctx context.Context, in *emptypb.Empty) (proto.Message, error) {
			return s.GetSummary(ctx, in)
		}),
		unary("AcknowledgeFile", func(s CounterpartyServiceServer, ctx context.Context, in *wrapperspb.StringValue) (proto.Message, error) {
			return s.AcknowledgeFile(ctx, in)
		}),
		unary("SaveSearch", func(s CounterpartyServiceServer, ctx context.Context, in *wrapperspb.StringValue) (proto.Message, error) {
			return s.SaveSearch(ctx, in)
		}),
		unary("GetSearchHistory", func(s CounterpartyServiceServer, ctx context.Context, in *emptypb.Empty) (proto.Message, error) {
			return s.GetSearchHistory(ctx, in)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "counterparty/v1/counterparty.proto",
}

// unary builds the MethodDesc of a unary method, decoding the request into
// a fresh Req and running it through the server interceptor chain.
func unary[Req any, PReq interface {
	*Req
	proto.Message
}](method string, call func(CounterpartyServiceServer, context.Context, PReq) (proto.Message, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := PReq(new(Req))
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CounterpartyServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(method),
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(CounterpartyServiceServer), ctx, req.(PReq))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
