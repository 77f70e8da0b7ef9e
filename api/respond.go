package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rpupo63/blog-platform-backend/errs"
	"github.com/rs/zerolog"
)

// maxResponseSize caps a single JSON response body.
const maxResponseSize = 10 * 1024 * 1024

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.WriteJSONWithStatus(w, http.StatusOK, data)
}

func (r Responder) WriteJSONWithStatus(w http.ResponseWriter, status int, data any) {
	// Marshal the data first to check size and handle errors
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if len(jsonData) > maxResponseSize {
		r.logger.Error().
			Int("responseSize", len(jsonData)).
			Int("maxSize", maxResponseSize).
			Msg("response too large")
		status = http.StatusInternalServerError
		jsonData, _ = json.Marshal(ErrorResponse{
			Error:  "response too large",
			Kind:   errs.KindOf(nil),
			Status: "error",
		})
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteError maps err onto the error taxonomy. Causes of internal errors are
// logged and never sent to the client.
func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.WriteJSONWithStatus(w, http.StatusInternalServerError, ErrorResponse{
			Error:  "internal server error",
			Kind:   errs.KindOf(err),
			Status: "error",
		})
		return
	}

	response := ErrorResponse{
		Error:  apiErr.Message(),
		Kind:   apiErr.Kind(),
		Status: "error",
		Field:  apiErr.Field,
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Str("kind", apiErr.Kind()).Msg(apiErr.GetFullError())
	} else {
		response.Details = apiErr.Details
		if apiErr.Cause != nil {
			r.logger.Debug().Err(apiErr.Cause).Str("kind", apiErr.Kind()).Msg(apiErr.Message())
		}
	}

	r.WriteJSONWithStatus(w, apiErr.StatusCode, response)
}
