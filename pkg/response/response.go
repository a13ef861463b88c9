package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	customError "github.com/segyhp/rental-manager/pkg/errors"
)

type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type ErrorResponse struct {
	Success   bool      `json:"success"`
	Error     string    `json:"error"`
	Code      string    `json:"code,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// JSON wraps data in the success envelope. The envelope reports failure for
// any status outside 2xx.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	write(w, statusCode, Response{
		Success:   statusCode >= 200 && statusCode < 300,
		Data:      data,
		Timestamp: time.Now(),
	})
}

func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

func writeError(w http.ResponseWriter, statusCode int, code, message string, err error) {
	body := ErrorResponse{Code: code, Message: message, Timestamp: time.Now()}
	if err != nil {
		body.Error = err.Error()
	}
	write(w, statusCode, body)
}

func write(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[HTTP] encode %d response: %v", statusCode, err)
	}
}

// StatusFor maps a business error code to its HTTP status.
func StatusFor(code string) int {
	switch code {
	case customError.ErrCodeInvalidInput, customError.ErrCodeInvalidRange:
		return http.StatusBadRequest
	case customError.ErrCodeContractNotFound, customError.ErrCodeOwnerNotFound, customError.ErrCodeReceiptNotFound:
		return http.StatusNotFound
	case customError.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case customError.ErrCodeDocumentFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// BusinessError writes err with the status of its business code. Errors
// that are not BusinessErrors become a 500 without leaking their text.
func BusinessError(w http.ResponseWriter, err error) {
	var be *customError.BusinessError
	if !errors.As(err, &be) {
		log.Printf("[HTTP] unexpected error: %v", err)
		writeError(w, http.StatusInternalServerError, "", "internal server error", nil)
		return
	}

	status := StatusFor(be.Code)
	if status >= http.StatusInternalServerError {
		// Driver errors stay in the log.
		log.Printf("[HTTP] %v", err)
		writeError(w, status, be.Code, be.Message, nil)
		return
	}
	writeError(w, status, be.Code, be.Message, errors.New(be.Code))
}

// File sends a binary document as an attachment.
func File(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(data); err != nil {
		log.Printf("[HTTP] writing %s: %v", filename, err)
	}
}

// BadRequest reports malformed or invalid input.
func BadRequest(w http.ResponseWriter, message string, err error) {
	writeError(w, http.StatusBadRequest, customError.ErrCodeInvalidInput, message, err)
}

// InternalServerError logs err and answers without its text.
func InternalServerError(w http.ResponseWriter, message string, err error) {
	log.Printf("[HTTP] %s: %v", message, err)
	writeError(w, http.StatusInternalServerError, "", message, nil)
}

func Unauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, customError.ErrCodeUnauthorized, message, nil)
}

// ServiceUnavailable sends a 503 with a payload describing what failed.
func ServiceUnavailable(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusServiceUnavailable, data)
}

// Headers the browser client may read from a response.
const exposedHeaders = "X-Session-Token, X-Session-Expires-At, Content-Disposition"

// CORSMiddleware answers preflight requests and lets the browser client read
// the refreshed session headers and download names.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		h.Set("Access-Control-Expose-Headers", exposedHeaders)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LoggingMiddleware logs method, path, status and latency of every request.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[HTTP] %s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}
