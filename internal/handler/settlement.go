package handler

import (
	"net/http"

	"github.com/segyhp/rental-manager/internal/domain"
	"github.com/segyhp/rental-manager/pkg/response"

	"github.com/go-playground/validator/v10"
)

type SettlementHandler struct {
	service   SettlementService
	validator *validator.Validate
}

func NewSettlementHandler(service SettlementService) *SettlementHandler {
	return &SettlementHandler{
		service:   service,
		validator: newValidator(),
	}
}

// ListSettlements handles GET /contracts/{contractId}/settlements
func (h *SettlementHandler) ListSettlements(w http.ResponseWriter, r *http.Request) {
	contractID, ok := uuidVar(w, r, "contractId")
	if !ok {
		return
	}

	settlements, err := h.service.ListSettlements(r.Context(), contractID)
	if err != nil {
		response.BusinessError(w, err)
		return
	}
	response.Success(w, settlements)
}

// IsSettled handles GET /contracts/{contractId}/settlements/{year}/{month}
func (h *SettlementHandler) IsSettled(w http.ResponseWriter, r *http.Request) {
	contractID, ok := uuidVar(w, r, "contractId")
	if !ok {
		return
	}
	period, ok := periodVars(w, r)
	if !ok {
		return
	}

	settled, err := h.service.IsSettled(r.Context(), contractID, period)
	if err != nil {
		response.BusinessError(w, err)
		return
	}
	response.Success(w, domain.SettledResponse{ContractID: contractID, Period: period, Settled: settled})
}

// SettleMonth handles PUT /contracts/{contractId}/settlements/{year}/{month}
func (h *SettlementHandler) SettleMonth(w http.ResponseWriter, r *http.Request) {
	contractID, ok := uuidVar(w, r, "contractId")
	if !ok {
		return
	}
	period, ok := periodVars(w, r)
	if !ok {
		return
	}

	var request domain.SettleMonthRequest
	if !decode(w, r, h.validator, &request) {
		return
	}

	settlement, err := h.service.SettleMonth(r.Context(), contractID, period, request.Amount, request.Notes)
	if err != nil {
		response.BusinessError(w, err)
		return
	}
	audit(r, "settled %s of contract %s for %s", period, contractID, settlement.Amount.StringFixed(2))
	response.Success(w, settlement)
}

// UnsettleMonth handles DELETE /contracts/{contractId}/settlements/{year}/{month}
func (h *SettlementHandler) UnsettleMonth(w http.ResponseWriter, r *http.Request) {
	contractID, ok := uuidVar(w, r, "contractId")
	if !ok {
		return
	}
	period, ok := periodVars(w, r)
	if !ok {
		return
	}

	if err := h.service.UnsettleMonth(r.Context(), contractID, period); err != nil {
		response.BusinessError(w, err)
		return
	}
	audit(r, "unsettled %s of contract %s", period, contractID)
	response.Success(w, domain.SettledResponse{ContractID: contractID, Period: period, Settled: false})
}

// SettleRange handles POST /contracts/{contractId}/settlements/range
func (h *SettlementHandler) SettleRange(w http.ResponseWriter, r *http.Request) {
	contractID, ok := uuidVar(w, r, "contractId")
	if !ok {
		return
	}

	var request domain.SettleRangeRequest
	if !decode(w, r, h.validator, &request) {
		return
	}

	from := domain.Period{Month: request.FromMonth, Year: request.FromYear}
	to := domain.Period{Month: request.ToMonth, Year: request.ToYear}

	result, err := h.service.SettleRange(r.Context(), contractID, from, to, request.Amount, request.Notes)
	if err != nil {
		response.BusinessError(w, err)
		return
	}
	audit(r, "settled %s..%s of contract %s (%d ok, %d failed)", from, to, contractID, result.Settled, result.Failed)
	response.Success(w, result)
}
