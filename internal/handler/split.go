package handler

import (
	"net/http"

	"github.com/segyhp/rental-manager/pkg/response"
	"github.com/segyhp/rental-manager/pkg/utils"

	"github.com/shopspring/decimal"
)

// SplitHandler exposes the monthly fee calculator.
type SplitHandler struct {
	vatRate decimal.Decimal
}

func NewSplitHandler(vatRate decimal.Decimal) *SplitHandler {
	return &SplitHandler{vatRate: vatRate}
}

// Split handles GET /split?gross=&fee_percent=&vat_rate=
// vat_rate defaults to the configured rate.
func (h *SplitHandler) Split(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	gross, err := utils.DecimalFromString(query.Get("gross"))
	if err != nil {
		response.BadRequest(w, "Invalid gross", err)
		return
	}
	feePercent, err := utils.DecimalFromString(query.Get("fee_percent"))
	if err != nil {
		response.BadRequest(w, "Invalid fee_percent", err)
		return
	}
	vatRate := h.vatRate
	if raw := query.Get("vat_rate"); raw != "" {
		vatRate, err = utils.DecimalFromString(raw)
		if err != nil {
			response.BadRequest(w, "Invalid vat_rate", err)
			return
		}
	}

	split, err := utils.CalculateMonthlySplit(gross, feePercent, vatRate)
	if err != nil {
		response.BusinessError(w, err)
		return
	}
	response.Success(w, split)
}
