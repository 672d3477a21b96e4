package http

import (
	"errors"
	"net/http"

	"github.com/eduagent/eduagent/internal/logger"
	"github.com/eduagent/eduagent/internal/service"
	"github.com/eduagent/eduagent/internal/store"
	"github.com/eduagent/eduagent/internal/utils"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrInvalidCredentials:      http.StatusUnauthorized,
	service.ErrInactiveUser:            http.StatusBadRequest,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrForbidden:               http.StatusForbidden,
	service.ErrSelfDeleteForbidden:     http.StatusBadRequest,

	service.ErrValidationUsername: http.StatusUnprocessableEntity,
	service.ErrValidationEmail:    http.StatusUnprocessableEntity,
	service.ErrValidationPassword: http.StatusUnprocessableEntity,
	service.ErrValidationRole:     http.StatusUnprocessableEntity,
	service.ErrValidationAgeGroup: http.StatusUnprocessableEntity,

	service.ErrValidationNoMessages:      http.StatusUnprocessableEntity,
	service.ErrValidationTooManyMessages: http.StatusUnprocessableEntity,
	service.ErrValidationMessageContent:  http.StatusUnprocessableEntity,
	service.ErrValidationMessageRole:     http.StatusUnprocessableEntity,

	ErrMissingCredentials:         http.StatusUnauthorized,
	ErrInvalidAuthorizationHeader: http.StatusUnauthorized,

	store.ErrUsernameAlreadyExists: http.StatusConflict,
	store.ErrEmailAlreadyExists:    http.StatusConflict,
	store.ErrNoUserWasFound:        http.StatusNotFound,

	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingQuery:     http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
	store.ErrScanningRow:        http.StatusInternalServerError,
	store.ErrScanningRows:       http.StatusInternalServerError,
}

// errorCodeMap assigns a stable machine-readable code to each sentinel so
// that clients do not have to parse human-oriented messages.
var errorCodeMap = map[error]string{
	service.ErrInvalidDataProvided:     "invalid_request",
	service.ErrInvalidCredentials:      "invalid_credentials",
	service.ErrInactiveUser:            "inactive_user",
	service.ErrTokenIsExpiredOrInvalid: "token_invalid",
	service.ErrForbidden:               "forbidden",
	service.ErrSelfDeleteForbidden:     "self_delete_forbidden",

	service.ErrValidationUsername: "validation_error",
	service.ErrValidationEmail:    "validation_error",
	service.ErrValidationPassword: "validation_error",
	service.ErrValidationRole:     "validation_error",
	service.ErrValidationAgeGroup: "validation_error",

	service.ErrValidationNoMessages:      "validation_error",
	service.ErrValidationTooManyMessages: "validation_error",
	service.ErrValidationMessageContent:  "validation_error",
	service.ErrValidationMessageRole:     "validation_error",

	ErrMissingCredentials:         "unauthorized",
	ErrInvalidAuthorizationHeader: "unauthorized",

	store.ErrUsernameAlreadyExists: "username_taken",
	store.ErrEmailAlreadyExists:    "email_taken",
	store.ErrNoUserWasFound:        "not_found",
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

func codeFromError(err error) string {
	for target, code := range errorCodeMap {
		if errors.Is(err, target) {
			return code
		}
	}
	return "internal_error"
}

// errorResponse is the JSON error body of every non-2xx response.
// TraceID is only populated on 5xx responses so that a support request can
// be correlated with the server logs.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// writeError maps err to its HTTP status and writes the JSON error body.
// Internal errors never leak their message to the client.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)

	status := statusFromError(err)
	body := errorResponse{
		Code:    codeFromError(err),
		Message: err.Error(),
	}

	if status >= http.StatusInternalServerError {
		log.Err(err).Msg("request failed with internal error")
		body.Message = http.StatusText(status)
		body.TraceID = w.Header().Get(traceIDHeader)
	}

	_, _ = utils.WriteJSON(w, body, status)
}
