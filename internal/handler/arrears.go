package handler

import (
	"net/http"

	"github.com/segyhp/rental-manager/pkg/response"
)

type ArrearsHandler struct {
	service ArrearsService
}

func NewArrearsHandler(service ArrearsService) *ArrearsHandler {
	return &ArrearsHandler{service: service}
}

// ContractArrears handles GET /contracts/{contractId}/arrears?as_of=
func (h *ArrearsHandler) ContractArrears(w http.ResponseWriter, r *http.Request) {
	contractID, ok := uuidVar(w, r, "contractId")
	if !ok {
		return
	}
	asOf, ok := asOfQuery(w, r)
	if !ok {
		return
	}

	summary, err := h.service.ComputeArrears(r.Context(), contractID, asOf)
	if err != nil {
		response.BusinessError(w, err)
		return
	}
	response.Success(w, summary)
}

// PortfolioArrears handles GET /arrears?as_of=
func (h *ArrearsHandler) PortfolioArrears(w http.ResponseWriter, r *http.Request) {
	asOf, ok := asOfQuery(w, r)
	if !ok {
		return
	}

	portfolio, err := h.service.ComputePortfolioArrears(r.Context(), asOf)
	if err != nil {
		response.BusinessError(w, err)
		return
	}
	response.Success(w, portfolio)
}
