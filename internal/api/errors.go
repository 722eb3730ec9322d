package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"gradeflow/internal/apperr"
	"gradeflow/internal/models"
	"gradeflow/internal/util"
)

const maxBodyBytes = 1 << 20

var (
	errMalformedJSON       = errors.New("malformed JSON request body")
	errEvaluationsDisabled = errors.New("evaluations are disabled")
)

type apiError struct {
	Status   int
	Category string
	Code     string
	Message  string
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", errMalformedJSON, err)
	}
	return nil
}

func validateEvaluation(req models.EvaluationRequest) error {
	if strings.TrimSpace(req.Text) == "" || strings.TrimSpace(req.Rubric) == "" {
		return apperr.Validation("start_evaluation", "text and rubric cannot be empty")
	}
	if th := req.Threshold(); th < 0 || th > 100 {
		return apperr.Validation("start_evaluation", "similarity_threshold must be between 0 and 100")
	}
	if !req.CredentialFields.Empty() {
		return apperr.Validation("start_evaluation", "evaluations use server credentials; remove api keys from the request")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrStatus(w http.ResponseWriter, status int, category, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"category": category,
			"code":     code,
			"message":  message,
		},
	})
}

func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := toAPIError(err)
	fields := []any{
		"request_id", RequestIDFromContext(r.Context()),
		"path", r.URL.Path,
		"category", apiErr.Category,
		"code", apiErr.Code,
		"error", err,
	}
	if apiErr.Status >= 500 {
		s.log.Error("request failed", fields...)
	} else {
		s.log.Warn("request rejected", fields...)
	}
	writeErrStatus(w, apiErr.Status, apiErr.Category, apiErr.Code, apiErr.Message)
}

func toAPIError(err error) apiError {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return apiError{
			Status:   http.StatusRequestEntityTooLarge,
			Category: string(apperr.KindValidation),
			Code:     "GF-VAL-4130",
			Message:  fmt.Sprintf("Request body exceeds %d bytes.", maxErr.Limit),
		}
	case errors.Is(err, errMalformedJSON):
		return apiError{
			Status:   http.StatusBadRequest,
			Category: string(apperr.KindValidation),
			Code:     "GF-VAL-4000",
			Message:  "Malformed JSON request body.",
		}
	case errors.Is(err, errEvaluationsDisabled):
		return apiError{
			Status:   http.StatusServiceUnavailable,
			Category: string(apperr.KindConfiguration),
			Code:     "GF-CFG-5030",
			Message:  "Evaluations are disabled. Configure a Temporal address and retry.",
		}
	}

	ae, ok := apperr.As(err)
	if !ok {
		return internalAPIError()
	}
	switch ae.Kind {
	case apperr.KindValidation:
		if ae.NotFound {
			return apiError{Status: http.StatusNotFound, Category: string(ae.Kind), Code: "GF-VAL-4004", Message: innerMessage(ae)}
		}
		return apiError{Status: http.StatusBadRequest, Category: string(ae.Kind), Code: "GF-VAL-4001", Message: innerMessage(ae)}
	case apperr.KindConfiguration:
		return apiError{Status: http.StatusBadRequest, Category: string(ae.Kind), Code: "GF-CFG-4002", Message: innerMessage(ae)}
	case apperr.KindUpstream:
		if ae.Timeout {
			return apiError{
				Status:   http.StatusGatewayTimeout,
				Category: string(ae.Kind),
				Code:     "GF-UP-5040",
				Message:  "Upstream service timed out. Retry shortly.",
			}
		}
		return apiError{Status: http.StatusBadGateway, Category: string(ae.Kind), Code: "GF-UP-5020", Message: upstreamMessage(ae)}
	default:
		return internalAPIError()
	}
}

func internalAPIError() apiError {
	return apiError{
		Status:   http.StatusInternalServerError,
		Category: string(apperr.KindInternal),
		Code:     "GF-INT-5000",
		Message:  "Internal server error. Please retry or check service logs.",
	}
}

func innerMessage(ae *apperr.Error) string {
	if ae.Err != nil {
		return ae.Err.Error()
	}
	return ae.Error()
}

// upstreamMessage carries the remote status and a bounded slice of the body,
// or the cause when there is no body. Transport errors are not echoed; their
// URLs can hold the search key.
func upstreamMessage(ae *apperr.Error) string {
	msg := "Upstream service failed"
	if ae.Status != 0 {
		msg = fmt.Sprintf("%s with status %d", msg, ae.Status)
	}
	if body := strings.TrimSpace(ae.Body); body != "" {
		return msg + ": " + util.TruncateRunes(body, 500)
	}
	var uerr *url.Error
	if ae.Err != nil && !errors.As(ae.Err, &uerr) {
		if cause := strings.TrimSpace(ae.Err.Error()); cause != "" {
			msg += ": " + util.TruncateRunes(cause, 500)
		}
	}
	return msg
}
