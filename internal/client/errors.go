package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/raphaelgruber/plagcheck/internal/models"
)

// ErrMalformedResponse indicates a 2xx analysis body whose matrices do not
// line up with the echoed texts.
var ErrMalformedResponse = errors.New("malformed analysis response")

// ServiceError is a non-2xx answer from the scoring service.
// Message holds the body's "error" field and is empty when the body had none.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("service returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("service returned %d: %s", e.StatusCode, e.Message)
}

func newServiceError(status int, body []byte) *ServiceError {
	var eb models.ErrorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return &ServiceError{StatusCode: status}
	}
	return &ServiceError{StatusCode: status, Message: eb.Error}
}

// ServiceMessage extracts the service-provided message from err.
// ok is false for transport failures and for error bodies without a message.
func ServiceMessage(err error) (msg string, ok bool) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) && svcErr.Message != "" {
		return svcErr.Message, true
	}
	return "", false
}

// checkResponse verifies that each model's matrix is square with one row per text.
func checkResponse(resp *models.AnalysisResponse) error {
	n := len(resp.Texts)
	for name, result := range resp.Results {
		if err := result.SimilarityMatrix.CheckShape(n); err != nil {
			return fmt.Errorf("%w: model %s: %v", ErrMalformedResponse, name, err)
		}
	}
	return nil
}
