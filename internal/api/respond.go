package api

import (
	"encoding/json"
	"net/http"

	apperrors "llc-directory/internal/common/errors"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", map[string]interface{}{"error": err})
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := apperrors.AsStandardError(err)
	status := apperrors.HTTPStatus(stdErr.Code)

	fields := map[string]interface{}{
		"requestId":     RequestID(r.Context()),
		"errorCode":     string(stdErr.Code),
		"errorCategory": apperrors.GetErrorCategory(stdErr.Code),
		"details":       stdErr.Details,
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error(stdErr.Message, fields)
	} else {
		s.logger.Info(stdErr.Message, fields)
	}

	s.writeJSON(w, status, errorBody{Error: errorDetail{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		RequestID: RequestID(r.Context()),
	}})
}
