package handler

import (
	"fmt"
	"net/http"

	"github.com/segyhp/rental-manager/internal/document"
	"github.com/segyhp/rental-manager/internal/domain"
	"github.com/segyhp/rental-manager/internal/export"
	"github.com/segyhp/rental-manager/pkg/response"

	"github.com/google/uuid"
)

type CertificateHandler struct {
	service CertificateService
}

func NewCertificateHandler(service CertificateService) *CertificateHandler {
	return &CertificateHandler{service: service}
}

func (h *CertificateHandler) params(w http.ResponseWriter, r *http.Request) (uuid.UUID, int, domain.CertificateBasis, bool) {
	ownerID, ok := uuidVar(w, r, "ownerId")
	if !ok {
		return uuid.Nil, 0, "", false
	}
	year, ok := intVar(w, r, "year")
	if !ok {
		return uuid.Nil, 0, "", false
	}
	return ownerID, year, domain.CertificateBasis(r.URL.Query().Get("basis")), true
}

// Certificate handles GET /owners/{ownerId}/certificates/{year}?basis=
func (h *CertificateHandler) Certificate(w http.ResponseWriter, r *http.Request) {
	ownerID, year, basis, ok := h.params(w, r)
	if !ok {
		return
	}

	certificate, err := h.service.AnnualCertificate(r.Context(), ownerID, year, basis)
	if err != nil {
		response.BusinessError(w, err)
		return
	}
	response.Success(w, certificate)
}

// CertificateXLSX handles GET /owners/{ownerId}/certificates/{year}/xlsx
func (h *CertificateHandler) CertificateXLSX(w http.ResponseWriter, r *http.Request) {
	ownerID, year, basis, ok := h.params(w, r)
	if !ok {
		return
	}

	data, err := h.service.CertificateXLSX(r.Context(), ownerID, year, basis)
	if err != nil {
		response.BusinessError(w, err)
		return
	}
	response.File(w, export.XLSXContentType, fmt.Sprintf("certificate-%s-%d.xlsx", ownerID, year), data)
}

// CertificatePDF handles GET /owners/{ownerId}/certificates/{year}/pdf
func (h *CertificateHandler) CertificatePDF(w http.ResponseWriter, r *http.Request) {
	ownerID, year, basis, ok := h.params(w, r)
	if !ok {
		return
	}

	data, err := h.service.CertificatePDF(r.Context(), ownerID, year, basis)
	if err != nil {
		response.BusinessError(w, err)
		return
	}
	response.File(w, document.PDFContentType, fmt.Sprintf("certificate-%s-%d.pdf", ownerID, year), data)
}
