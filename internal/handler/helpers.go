package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/irurudev/nexus-pos/internal/apierror"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps the service error taxonomy onto HTTP statuses:
//
//	ValidationError       → 422 with per-field detail
//	ErrDuplicateInvoiceID → 422, client fault, do not retry
//	ErrConcurrencyTimeout → 503 with Retry-After, safe to retry
//	StorageError / other  → 500, generic body only
func respondError(c *gin.Context, err error) {
	var vErr *apierror.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusUnprocessableEntity, vErr)
		return
	}
	if errors.Is(err, apierror.ErrDuplicateInvoiceID) {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(map[string]string{
			"invoice_id": "already in use",
		}))
		return
	}
	if errors.Is(err, apierror.ErrConcurrencyTimeout) {
		c.Header("Retry-After", "1")
		c.JSON(http.StatusServiceUnavailable, apierror.New("operation timed out under contention, retry shortly"))
		return
	}
	var sErr *apierror.StorageError
	if errors.As(err, &sErr) {
		// queue for the error middleware to log with request context
		_ = c.Error(sErr)
		c.JSON(http.StatusInternalServerError, apierror.New("internal server error"))
		return
	}
	c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
}
