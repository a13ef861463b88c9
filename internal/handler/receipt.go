package handler

import (
	"fmt"
	"net/http"

	"github.com/segyhp/rental-manager/internal/document"
	"github.com/segyhp/rental-manager/internal/domain"
	"github.com/segyhp/rental-manager/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ReceiptHandler struct {
	service   ReceiptService
	validator *validator.Validate
}

func NewReceiptHandler(service ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{
		service:   service,
		validator: newValidator(),
	}
}

// GenerateReceipt handles POST /receipts
func (h *ReceiptHandler) GenerateReceipt(w http.ResponseWriter, r *http.Request) {
	var request domain.GenerateReceiptRequest
	if !decode(w, r, h.validator, &request) {
		return
	}

	generated, err := h.service.GenerateReceipt(r.Context(), &request)
	if err != nil {
		response.BusinessError(w, err)
		return
	}
	response.Created(w, generated)
}

// ListReceipts handles GET /receipts?contract_id=
func (h *ReceiptHandler) ListReceipts(w http.ResponseWriter, r *http.Request) {
	var contractID *uuid.UUID
	if raw := r.URL.Query().Get("contract_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "Invalid contract_id", err)
			return
		}
		contractID = &id
	}

	receipts, err := h.service.ListReceipts(r.Context(), contractID)
	if err != nil {
		response.BusinessError(w, err)
		return
	}
	response.Success(w, receipts)
}

// GetReceipt handles GET /receipts/{receiptId}
func (h *ReceiptHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidVar(w, r, "receiptId")
	if !ok {
		return
	}

	receipt, err := h.service.GetReceipt(r.Context(), id)
	if err != nil {
		response.BusinessError(w, err)
		return
	}
	response.Success(w, receipt)
}

// DeleteReceipt handles DELETE /receipts/{receiptId}
func (h *ReceiptHandler) DeleteReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidVar(w, r, "receiptId")
	if !ok {
		return
	}

	if err := h.service.DeleteReceipt(r.Context(), id); err != nil {
		response.BusinessError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReceiptPDF handles GET /receipts/{receiptId}/pdf
func (h *ReceiptHandler) ReceiptPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidVar(w, r, "receiptId")
	if !ok {
		return
	}

	pdf, err := h.service.ReceiptPDF(r.Context(), id)
	if err != nil {
		response.BusinessError(w, err)
		return
	}
	response.File(w, document.PDFContentType, fmt.Sprintf("receipt-%s.pdf", id), pdf)
}
