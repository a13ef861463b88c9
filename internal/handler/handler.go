package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"reflect"
	"strconv"
	"time"

	"github.com/segyhp/rental-manager/internal/auth"
	"github.com/segyhp/rental-manager/internal/domain"
	customError "github.com/segyhp/rental-manager/pkg/errors"
	"github.com/segyhp/rental-manager/pkg/response"
	"github.com/segyhp/rental-manager/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// Services the handlers depend on. The service package implements them.

type SettlementService interface {
	SettleMonth(ctx context.Context, contractID uuid.UUID, period domain.Period, amount decimal.Decimal, notes string) (*domain.Settlement, error)
	SettleRange(ctx context.Context, contractID uuid.UUID, from, to domain.Period, amount decimal.Decimal, notes string) (*domain.RangeResult, error)
	UnsettleMonth(ctx context.Context, contractID uuid.UUID, period domain.Period) error
	IsSettled(ctx context.Context, contractID uuid.UUID, period domain.Period) (bool, error)
	ListSettlements(ctx context.Context, contractID uuid.UUID) ([]*domain.Settlement, error)
}

type ArrearsService interface {
	ComputeArrears(ctx context.Context, contractID uuid.UUID, asOf time.Time) (*domain.ArrearsSummary, error)
	ComputePortfolioArrears(ctx context.Context, asOf time.Time) (*domain.PortfolioArrears, error)
}

type ReceiptService interface {
	GenerateReceipt(ctx context.Context, request *domain.GenerateReceiptRequest) (*domain.GenerateReceiptResponse, error)
	GetReceipt(ctx context.Context, id uuid.UUID) (*domain.Receipt, error)
	ListReceipts(ctx context.Context, contractID *uuid.UUID) ([]*domain.Receipt, error)
	DeleteReceipt(ctx context.Context, id uuid.UUID) error
	ReceiptPDF(ctx context.Context, id uuid.UUID) ([]byte, error)
}

type CertificateService interface {
	AnnualCertificate(ctx context.Context, ownerID uuid.UUID, year int, basis domain.CertificateBasis) (*domain.AnnualCertificate, error)
	CertificateXLSX(ctx context.Context, ownerID uuid.UUID, year int, basis domain.CertificateBasis) ([]byte, error)
	CertificatePDF(ctx context.Context, ownerID uuid.UUID, year int, basis domain.CertificateBasis) ([]byte, error)
}

type Authenticator interface {
	Login(ctx context.Context, email, password string) (*domain.LoginResponse, error)
}

// newValidator returns a validator that understands decimal.Decimal fields
// through the decimal_gte and decimal_gt tags.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("decimal_gte", func(fl validator.FieldLevel) bool {
		value, bound, ok := decimalOperands(fl)
		return ok && value.GreaterThanOrEqual(bound)
	})
	_ = v.RegisterValidation("decimal_gt", func(fl validator.FieldLevel) bool {
		value, bound, ok := decimalOperands(fl)
		return ok && value.GreaterThan(bound)
	})
	return v
}

func decimalOperands(fl validator.FieldLevel) (decimal.Decimal, decimal.Decimal, bool) {
	value, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return decimal.Zero, decimal.Zero, false
	}
	bound, err := decimal.NewFromString(fl.Param())
	if err != nil {
		return decimal.Zero, decimal.Zero, false
	}
	return value, bound, true
}

// decode reads a JSON body into dst and validates it, writing a 400 on
// failure.
func decode(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return false
	}
	if err := v.Struct(dst); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return false
	}
	return true
}

func uuidVar(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.BadRequest(w, "Invalid "+name, err)
		return uuid.Nil, false
	}
	return id, true
}

func intVar(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		response.BadRequest(w, "Invalid "+name, err)
		return 0, false
	}
	return n, true
}

// periodVars reads the {year}/{month} path segments.
func periodVars(w http.ResponseWriter, r *http.Request) (domain.Period, bool) {
	year, ok := intVar(w, r, "year")
	if !ok {
		return domain.Period{}, false
	}
	month, ok := intVar(w, r, "month")
	if !ok {
		return domain.Period{}, false
	}
	return domain.Period{Month: month, Year: year}, true
}

// asOfQuery parses ?as_of=YYYY-MM-DD. A missing value yields the zero time,
// which the services read as now.
func asOfQuery(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	asOf, err := utils.ParseDate(r.URL.Query().Get("as_of"), time.Time{})
	if err != nil {
		response.BusinessError(w, customError.WrapInvalidInput("as_of must be YYYY-MM-DD"))
		return time.Time{}, false
	}
	return asOf, true
}

// operator names who made the request for audit log lines.
func operator(r *http.Request) string {
	session, err := auth.SessionFrom(r.Context())
	if err != nil {
		return "unknown operator"
	}
	return session.Email
}

func audit(r *http.Request, format string, args ...interface{}) {
	log.Printf("[SETTLE] %s: "+format, append([]interface{}{operator(r)}, args...)...)
}
