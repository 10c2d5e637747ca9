package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gartstein/counterparty/internal/counterparty/auth"
	e "github.com/gartstein/counterparty/internal/counterparty/errors"
	"github.com/gartstein/counterparty/internal/counterparty/models"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// CounterpartyHandler provides gRPC methods for counterparty operations,
// mapping requests to a CounterpartyController interface.
type CounterpartyHandler struct {
	service  CounterpartyController
	validate *validator.Validate
	logger   *zap.Logger
}

var _ CounterpartyServiceServer = (*CounterpartyHandler)(nil)

// NewCounterpartyHandler constructs a new CounterpartyHandler with the given service and logger.
func NewCounterpartyHandler(service CounterpartyController, logger *zap.Logger) *CounterpartyHandler {
	return &CounterpartyHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger.Named("grpc_handler"),
	}
}

// OpenSession starts a session and returns its id and bearer token.
func (h *CounterpartyHandler) OpenSession(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	sess, err := h.service.OpenSession(ctx)
	if err != nil {
		h.logger.Error("Open session failed", zap.Error(err))
		return nil, h.mapServiceError(err)
	}
	return h.newStruct(map[string]interface{}{
		"session_id": sess.ID.String(),
		"token":      sess.Token,
		"expires_at": sess.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// CloseSession drops the caller's session.
func (h *CounterpartyHandler) CloseSession(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	id, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.service.CloseSession(ctx, id); err != nil {
		return nil, h.mapServiceError(err)
	}
	return &emptypb.Empty{}, nil
}

// LoadCounterparties replaces the session collection with the given records.
func (h *CounterpartyHandler) LoadCounterparties(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	records, err := h.structToCounterparties(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	n, err := h.service.Load(ctx, id, records)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return h.newStruct(map[string]interface{}{"loaded": n})
}

// LoadDemo restores the demo collection.
func (h *CounterpartyHandler) LoadDemo(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	id, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	n, err := h.service.LoadDemo(ctx, id)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return h.newStruct(map[string]interface{}{"loaded": n})
}

// FilterCounterparties returns the records matching the query.
func (h *CounterpartyHandler) FilterCounterparties(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	id, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	result, err := h.service.Filter(ctx, id, req.GetValue())
	if err != nil {
		return nil, h.mapServiceError(err)
	}

	out := map[string]interface{}{
		"counterparties": h.counterpartiesValue(result.Counterparties),
	}
	if result.EmptyState != "" {
		out["empty_state"] = result.EmptyState
	}
	return h.newStruct(out)
}

// InviteCounterparty sends an invitation to the counterparty with the given id.
func (h *CounterpartyHandler) InviteCounterparty(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	id, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "counterparty id required")
	}

	updated, notice, err := h.service.Invite(ctx, id, req.GetValue())
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return h.newStruct(map[string]interface{}{
		"counterparty": h.counterpartyValue(*updated),
		"notice":       noticeValue(notice),
	})
}

// CountByStatus counts the records with the requested status.
func (h *CounterpartyHandler) CountByStatus(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	id, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	st, err := models.ParseStatus(req.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	n, err := h.service.CountByStatus(ctx, id, st)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return h.newStruct(map[string]interface{}{
		"status": string(st),
		"label":  h.service.StatusLabel(st),
		"count":  n,
	})
}

// GetSummary returns the counters of every status.
func (h *CounterpartyHandler) GetSummary(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	id, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	sum, err := h.service.Summary(ctx, id)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return h.newStruct(summaryValue(sum))
}

// AcknowledgeFile confirms receipt of a selected or dropped file.
func (h *CounterpartyHandler) AcknowledgeFile(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	id, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "file name required")
	}

	notice, err := h.service.AcknowledgeFile(ctx, id, req.GetValue())
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return h.newStruct(map[string]interface{}{"notice": noticeValue(notice)})
}

// SaveSearch stores a query in the search history.
func (h *CounterpartyHandler) SaveSearch(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	id, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := h.service.SaveSearch(ctx, id, req.GetValue())
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return h.newStruct(map[string]interface{}{"history": historyValue(entries)})
}

// GetSearchHistory returns the saved searches, newest first.
func (h *CounterpartyHandler) GetSearchHistory(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	id, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := h.service.SearchHistory(ctx, id)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return h.newStruct(map[string]interface{}{"history": historyValue(entries)})
}

func sessionID(ctx context.Context) (uuid.UUID, error) {
	id, ok := auth.SessionFromContext(ctx)
	if !ok {
		return uuid.Nil, status.Error(codes.Unauthenticated, "session token required")
	}
	return id, nil
}

func (h *CounterpartyHandler) newStruct(fields map[string]interface{}) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		h.logger.Error("Failed to build response", zap.Error(err))
		return nil, status.Error(codes.Internal, "failed to build response")
	}
	return out, nil
}

// mapServiceError maps domain errors to appropriate gRPC status codes.
func (h *CounterpartyHandler) mapServiceError(err error) error {
	switch {
	case errors.Is(err, e.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, e.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, e.ErrInvalidTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, e.ErrSessionNotFound):
		return status.Error(codes.Unauthenticated, err.Error())
	default:
		h.logger.Error("Internal server error", zap.Error(err))
		return status.Error(codes.Internal, "internal server error")
	}
}
