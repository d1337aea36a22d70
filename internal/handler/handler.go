// Package handler exposes the services over JSON/HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"tablekart/internal/listing"
	"tablekart/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// maxBodySize caps JSON request bodies.
const maxBodySize = 1 << 20

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeServiceError maps a service error to its HTTP status. Errors that
// are not domain errors are logged and hidden behind a 500.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	switch {
	case errors.Is(err, listing.ErrUnknownSort):
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "Invalid sort parameter", logger)
		return
	case errors.Is(err, listing.ErrUnknownFilter):
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "Invalid filter parameter", logger)
		return
	}

	de, ok := model.AsDomainError(err)
	if !ok {
		logger.Error().Err(err).Msg("internal error")
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
			Error:   model.ErrCodeInternalError,
			Message: "Internal server error",
		})
		return
	}
	writeError(w, statusFor(de.Code), de.Code, de.Message, logger)
}

// statusFor returns the HTTP status of a domain error code.
func statusFor(code string) int {
	switch code {
	case model.ErrCodeInvalidJSON, model.ErrCodeValidation, model.ErrCodeInvalidQuantity,
		model.ErrCodeEmptyCart, model.ErrCodeVariationNotFound, model.ErrCodeIngredientNotFound:
		return http.StatusBadRequest
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeSubscriptionRequired:
		return http.StatusPaymentRequired
	case model.ErrCodeForbidden, model.ErrCodeRestaurantInactive:
		return http.StatusForbidden
	case model.ErrCodeNotFound, model.ErrCodeRestaurantNotFound, model.ErrCodeProductNotFound, model.ErrCodePlanNotFound:
		return http.StatusNotFound
	case model.ErrCodeProductUnavailable, model.ErrCodeInvalidStatus, model.ErrCodeSlugTaken, model.ErrCodeConflict:
		return http.StatusConflict
	case model.ErrCodeFunctionFailed:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// decodeJSON decodes and validates a request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, logger zerolog.Logger) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "Invalid request body", logger)
		return false
	}

	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[jsonField(fe.Namespace())] = fieldMessage(fe)
			}
			logger.Debug().Interface("fields", fields).Msg("validation failed")
			writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
				Error:   model.ErrCodeValidation,
				Message: "Request validation failed",
				Fields:  fields,
			})
			return false
		}
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, err.Error(), logger)
		return false
	}
	return true
}

// jsonField drops the struct name from a namespace such as
// "ProductRequest.variations[0].name".
func jsonField(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "max":
		return "must be at most " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "url":
		return "must be a valid URL"
	case "fqdn":
		return "must be a valid domain name"
	}
	return "is invalid (" + fe.Tag() + ")"
}

// pathUUID parses the named route variable as a UUID.
func pathUUID(w http.ResponseWriter, r *http.Request, name string, logger zerolog.Logger) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, fmt.Sprintf("Invalid %s format", name), logger)
		return uuid.Nil, false
	}
	return id, true
}

// toggleRequest is the body of the boolean flag endpoints.
type toggleRequest struct {
	Value *bool `json:"value" validate:"required"`
}

// parseListQuery reads the shared list parameters: q, page, pageSize,
// sort, desc, from, to, plus every key of filters present in the URL.
// filters maps a query parameter to its parser.
func parseListQuery(r *http.Request, filters map[string]func(string) (any, error)) (listing.Query, error) {
	values := r.URL.Query()
	q := listing.Query{
		Search:   strings.TrimSpace(values.Get("q")),
		SortBy:   values.Get("sort"),
		SortDesc: values.Get("desc") == "true",
	}

	var err error
	if q.Page, err = intParam(values.Get("page"), 1); err != nil || q.Page > listing.MaxPage {
		return q, fmt.Errorf("invalid page parameter")
	}
	if q.PageSize, err = intParam(values.Get("pageSize"), listing.DefaultPageSize); err != nil {
		return q, fmt.Errorf("invalid pageSize parameter")
	}
	if q.From, err = timeParam(values.Get("from")); err != nil {
		return q, fmt.Errorf("invalid from parameter")
	}
	if q.To, err = timeParam(values.Get("to")); err != nil {
		return q, fmt.Errorf("invalid to parameter")
	}

	for name, parse := range filters {
		raw := values.Get(name)
		if raw == "" {
			continue
		}
		v, err := parse(raw)
		if err != nil {
			return q, fmt.Errorf("invalid %s parameter", name)
		}
		q = q.WithFilter(name, v)
	}

	return q.Normalise(), nil
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// timeParam accepts RFC 3339 timestamps or plain dates.
func timeParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func stringFilter(raw string) (any, error) { return raw, nil }

func boolFilter(raw string) (any, error) { return strconv.ParseBool(raw) }

func uuidFilter(raw string) (any, error) { return uuid.Parse(raw) }

// listOrError parses the list query, writing a 400 when it is malformed.
func listOrError(w http.ResponseWriter, r *http.Request, filters map[string]func(string) (any, error), logger zerolog.Logger) (listing.Query, bool) {
	q, err := parseListQuery(r, filters)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, err.Error(), logger)
		return q, false
	}
	return q, true
}

// csvDelimiter reads ?delimiter=, defaulting to ';'.
func csvDelimiter(r *http.Request) (rune, bool) {
	switch r.URL.Query().Get("delimiter") {
	case "", ";", "semicolon":
		return ';', true
	case ",", "comma":
		return ',', true
	}
	return 0, false
}

// csvHeaders prepares a CSV attachment response.
func csvHeaders(w http.ResponseWriter, name string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-%s.csv"`, name, time.Now().Format(time.DateOnly)))
}
