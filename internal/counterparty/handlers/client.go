package handlers

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client calls CounterpartyService over a gRPC connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) OpenSession(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, FullMethod("OpenSession"), &emptypb.Empty{}, out, opts...)
	return out, err
}

func (c *Client) CloseSession(ctx context.Context, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, FullMethod("CloseSession"), &emptypb.Empty{}, new(emptypb.Empty), opts...)
}

func (c *Client) LoadCounterparties(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, FullMethod("LoadCounterparties"), in, out, opts...)
	return out, err
}

func (c *Client) LoadDemo(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, FullMethod("LoadDemo"), &emptypb.Empty{}, out, opts...)
	return out, err
}

func (c *Client) FilterCounterparties(ctx context.Context, query string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, FullMethod("FilterCounterparties"), wrapperspb.String(query), out, opts...)
	return out, err
}

func (c *Client) InviteCounterparty(ctx context.Context, id string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, FullMethod("InviteCounterparty"), wrapperspb.String(id), out, opts...)
	return out, err
}

func (c *Client) CountByStatus(ctx context.Context, status string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, FullMethod("CountByStatus"), wrapperspb.String(status), out, opts...)
	return out, err
}

func (c *Client) GetSummary(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, FullMethod("GetSummary"), &emptypb.Empty{}, out, opts...)
	return out, err
}

func (c *Client) AcknowledgeFile(ctx context.Context, fileName string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, FullMethod("AcknowledgeFile"), wrapperspb.String(fileName), out, opts...)
	return out, err
}

func (c *Client) SaveSearch(ctx context.Context, query string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, FullMethod("SaveSearch"), wrapperspb.String(query), out, opts...)
	return out, err
}

func (c *Client) GetSearchHistory(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, FullMethod("GetSearchHistory"), &emptypb.Empty{}, out, opts...)
	return out, err
}
