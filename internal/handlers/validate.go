package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the shared request validator. Field names in error maps
// come from json tags.
var validate = newValidator()

// priceRe matches a fixed-point decimal with at most five digits total
// and at most two of them after the point.
var priceRe = regexp.MustCompile(`^\d{1,3}(\.\d{1,2})?$`)

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		return priceRe.MatchString(fl.Field().String())
	})

	return v
}

// fieldErrors converts a validator error into a per-field message map.
func fieldErrors(err error) map[string][]string {
	out := map[string][]string{}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["non_field_errors"] = []string{"Invalid request body"}
		return out
	}

	for _, fe := range errs {
		field := fe.Field()
		out[field] = append(out[field], fieldMessage(fe))
	}

	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "price":
		return "Ensure the value has no more than 5 digits in total, with 2 decimal places."
	default:
		return "This field is invalid."
	}
}

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a generic single-message error body.
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// default: Internal server error
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func writeNotFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "Not found.")
}

func writeInternalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
