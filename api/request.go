package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rpupo63/blog-platform-backend/errs"
)

const maxJSONBodySize = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON reads a size-limited JSON body into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return errs.NewMaxBodySizeExceededError(maxErr.Limit)
		case errors.Is(err, io.EOF):
			return errs.NewBadRequestError("request body is empty")
		default:
			return errs.NewMalformedPayloadError("json", err)
		}
	}
	if err := validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errs.NewMalformedPayloadError("json", err)
	}
	fe := fieldErrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return errs.NewMissingRequiredFieldError(field)
	case "max":
		return errs.NewInvalidFieldError(field, fmt.Sprintf("must be at most %s long", fe.Param()))
	case "min":
		return errs.NewInvalidFieldError(field, fmt.Sprintf("must be at least %s long", fe.Param()))
	case "url":
		return errs.NewInvalidFieldError(field, "must be a valid URL")
	case "email":
		return errs.NewInvalidFieldError(field, "must be a valid email address")
	case "uuid":
		return errs.NewInvalidFieldError(field, "must be a valid UUID")
	case "oneof":
		return errs.NewInvalidFieldError(field, "must be one of "+fe.Param())
	default:
		return errs.NewInvalidFieldError(field, "is invalid")
	}
}

// pageParam reads ?page=, defaulting to the first page.
func pageParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, errs.NewInvalidFieldError("page", "must be a positive integer")
	}
	return page, nil
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, errs.NewMissingRequiredFieldError(name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewInvalidFieldError(name, "must be a valid UUID")
	}
	return id, nil
}

func stringParam(r *http.Request, name string) (string, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return "", errs.NewMissingRequiredFieldError(name)
	}
	return raw, nil
}
