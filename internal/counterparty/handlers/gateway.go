package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// gatewayCall turns an HTTP request into a handler call.
type gatewayCall func(ctx context.Context, r *http.Request, params map[string]string, inbound runtime.Marshaler) (proto.Message, error)

type route struct {
	method  string
	pattern string
	call    gatewayCall
}

// gateway serves the CounterpartyHandler methods as JSON over HTTP using the
// grpc-gateway mux for routing, marshaling and error mapping.
type gateway struct {
	mux *runtime.ServeMux
	h   *CounterpartyHandler
}

func newGateway(mux *runtime.ServeMux, h *CounterpartyHandler) *gateway {
	return &gateway{mux: mux, h: h}
}

func (g *gateway) routes() []route {
	return []route{
		{http.MethodPost, "/v1/sessions", func(ctx context.Context, _ *http.Request, _ map[string]string, _ runtime.Marshaler) (proto.Message, error) {
			return g.h.OpenSession(ctx, &emptypb.Empty{})
		}},
		{http.MethodDelete, "/v1/sessions", func(ctx context.Context, _ *http.Request, _ map[string]string, _ runtime.Marshaler) (proto.Message, error) {
			return g.h.CloseSession(ctx, &emptypb.Empty{})
		}},
		{http.MethodPut, "/v1/counterparties", func(ctx context.Context, r *http.Request, _ map[string]string, inbound runtime.Marshaler) (proto.Message, error) {
			body, err := decodeStruct(r, inbound)
			if err != nil {
				return nil, err
			}
			return g.h.LoadCounterparties(ctx, body)
		}},
		{http.MethodPost, "/v1/counterparties/demo", func(ctx context.Context, _ *http.Request, _ map[string]string, _ runtime.Marshaler) (proto.Message, error) {
			return g.h.LoadDemo(ctx, &emptypb.Empty{})
		}},
		{http.MethodGet, "/v1/counterparties", func(ctx context.Context, r *http.Request, _ map[string]string, _ runtime.Marshaler) (proto.Message, error) {
			return g.h.FilterCounterparties(ctx, wrapperspb.String(r.URL.Query().Get("q")))
		}},
		{http.MethodPost, "/v1/counterparties/{id}/invite", func(ctx context.Context, _ *http.Request, params map[string]string, _ runtime.Marshaler) (proto.Message, error) {
			return g.h.InviteCounterparty(ctx, wrapperspb.String(params["id"]))
		}},
		{http.MethodGet, "/v1/counterparties/count/{status}", func(ctx context.Context, _ *http.Request, params map[string]string, _ runtime.Marshaler) (proto.Message, error) {
			return g.h.CountByStatus(ctx, wrapperspb.String(params["status"]))
		}},
		{http.MethodGet, "/v1/summary", func(ctx context.Context, _ *http.Request, _ map[string]string, _ runtime.Marshaler) (proto.Message, error) {
			return g.h.GetSummary(ctx, &emptypb.Empty{})
		}},
		{http.MethodPost, "/v1/files", func(ctx context.Context, r *http.Request, _ map[string]string, _ runtime.Marshaler) (proto.Message, error) {
			name, err := uploadedFileName(r)
			if err != nil {
				return nil, err
			}
			return g.h.AcknowledgeFile(ctx, wrapperspb.String(name))
		}},
		{http.MethodPost, "/v1/searches", func(ctx context.Context, r *http.Request, _ map[string]string, inbound runtime.Marshaler) (proto.Message, error) {
			body, err := decodeStruct(r, inbound)
			if err != nil {
				return nil, err
			}
			return g.h.SaveSearch(ctx, wrapperspb.String(body.GetFields()["query"].GetStringValue()))
		}},
		{http.MethodGet, "/v1/searches", func(ctx context.Context, _ *http.Request, _ map[string]string, _ runtime.Marshaler) (proto.Message, error) {
			return g.h.GetSearchHistory(ctx, &emptypb.Empty{})
		}},
	}
}

func (g *gateway) register() error {
	for _, rt := range g.routes() {
		if err := g.mux.HandlePath(rt.method, rt.pattern, g.serve(rt.call)); err != nil {
			return fmt.Errorf("register %s %s: %w", rt.method, rt.pattern, err)
		}
	}
	return nil
}

func (g *gateway) serve(call gatewayCall) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		ctx := r.Context()
		inbound, outbound := runtime.MarshalerForRequest(g.mux, r)

		resp, err := call(ctx, r, params, inbound)
		if err != nil {
			runtime.HTTPError(ctx, g.mux, outbound, w, r, err)
			return
		}

		buf, err := outbound.Marshal(resp)
		if err != nil {
			g.h.logger.Error("Failed to marshal response", zap.Error(err))
			runtime.HTTPError(ctx, g.mux, outbound, w, r, status.Error(codes.Internal, "failed to marshal response"))
			return
		}
		w.Header().Set("Content-Type", outbound.ContentType(resp))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(buf); err != nil {
			g.h.logger.Warn("Failed to write response", zap.Error(err))
		}
	}
}

// decodeStruct reads a JSON object body. An empty body yields an empty struct.
func decodeStruct(r *http.Request, inbound runtime.Marshaler) (*structpb.Struct, error) {
	body := &structpb.Struct{}
	if err := inbound.NewDecoder(r.Body).Decode(body); err != nil && !errors.Is(err, io.EOF) {
		return nil, status.Errorf(codes.InvalidArgument, "malformed body: %v", err)
	}
	return body, nil
}

// uploadedFileName returns the name of the first file part of a multipart
// upload. The file contents are not read.
func uploadedFileName(r *http.Request) (string, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return "", status.Error(codes.InvalidArgument, "multipart upload expected")
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return "", status.Error(codes.InvalidArgument, "file part required")
		}
		if err != nil {
			return "", status.Errorf(codes.InvalidArgument, "malformed upload: %v", err)
		}
		name := part.FileName()
		formName := part.FormName()
		_ = part.Close()
		if formName == "file" && name != "" {
			return name, nil
		}
	}
}
