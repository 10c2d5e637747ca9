package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gartstein/counterparty/internal/counterparty/models"
	"github.com/go-playground/validator/v10"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// counterpartyInput is the wire shape of a counterparty in load requests.
type counterpartyInput struct {
	ID          string `json:"id" validate:"required"`
	CompanyName string `json:"company_name" validate:"required"`
	TaxID       string `json:"tax_id" validate:"required"`
	Status      string `json:"status" validate:"required,oneof=pending invited active"`
}

type loadRequest struct {
	Counterparties []counterpartyInput `json:"counterparties" validate:"dive"`
}

// structToCounterparties decodes and validates the payload of a load request.
func (h *CounterpartyHandler) structToCounterparties(in *structpb.Struct) ([]models.Counterparty, error) {
	if in == nil {
		return nil, errors.New("nil load data")
	}
	raw, err := protojson.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("malformed load data: %w", err)
	}
	var req loadRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("malformed load data: %w", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return nil, describeValidation(err)
	}

	out := make([]models.Counterparty, 0, len(req.Counterparties))
	for _, cp := range req.Counterparties {
		out = append(out, models.Counterparty{
			ID:          cp.ID,
			CompanyName: cp.CompanyName,
			TaxID:       cp.TaxID,
			Status:      models.Status(cp.Status),
		})
	}
	return out, nil
}

// describeValidation turns validator errors into one readable error.
func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	first := verrs[0]
	return fmt.Errorf("field %s failed %q validation", first.Namespace(), first.Tag())
}

// counterpartyValue converts a counterparty into a structpb-compatible map.
func (h *CounterpartyHandler) counterpartyValue(cp models.Counterparty) map[string]interface{} {
	return map[string]interface{}{
		"id":           cp.ID,
		"company_name": cp.CompanyName,
		"tax_id":       cp.TaxID,
		"status":       string(cp.Status),
		"status_label": h.service.StatusLabel(cp.Status),
	}
}

func (h *CounterpartyHandler) counterpartiesValue(records []models.Counterparty) []interface{} {
	out := make([]interface{}, 0, len(records))
	for _, cp := range records {
		out = append(out, h.counterpartyValue(cp))
	}
	return out
}

func noticeValue(n *models.Notice) map[string]interface{} {
	return map[string]interface{}{
		"kind":    string(n.Kind),
		"message": n.Message,
	}
}

func summaryValue(s *models.Summary) map[string]interface{} {
	return map[string]interface{}{
		"pending": s.Pending,
		"invited": s.Invited,
		"active":  s.Active,
		"total":   s.Total,
	}
}

func historyValue(entries []string) []interface{} {
	out := make([]interface{}, 0, len(entries))
	for _, q := range entries {
		out = append(out, q)
	}
	return out
}

// CounterpartiesFromStruct reads the "counterparties" list of a response.
func CounterpartiesFromStruct(s *structpb.Struct) []models.Counterparty {
	values := s.GetFields()["counterparties"].GetListValue().GetValues()
	out := make([]models.Counterparty, 0, len(values))
	for _, v := range values {
		out = append(out, counterpartyFromFields(v.GetStructValue().GetFields()))
	}
	return out
}

// CounterpartyFromStruct reads the "counterparty" object of a response.
func CounterpartyFromStruct(s *structpb.Struct) models.Counterparty {
	return counterpartyFromFields(s.GetFields()["counterparty"].GetStructValue().GetFields())
}

func counterpartyFromFields(fields map[string]*structpb.Value) models.Counterparty {
	return models.Counterparty{
		ID:          fields["id"].GetStringValue(),
		CompanyName: fields["company_name"].GetStringValue(),
		TaxID:       fields["tax_id"].GetStringValue(),
		Status:      models.Status(fields["status"].GetStringValue()),
	}
}

// CounterpartiesToStruct builds a load request payload.
func CounterpartiesToStruct(records []models.Counterparty) (*structpb.Struct, error) {
	list := make([]interface{}, 0, len(records))
	for _, cp := range records {
		list = append(list, map[string]interface{}{
			"id":           cp.ID,
			"company_name": cp.CompanyName,
			"tax_id":       cp.TaxID,
			"status":       string(cp.Status),
		})
	}
	return structpb.NewStruct(map[string]interface{}{"counterparties": list})
}
