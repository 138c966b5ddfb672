package quoteapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/quote-builder/src/eventmodels"
	"github.com/jiaming2012/quote-builder/src/quotesession"
	"github.com/jiaming2012/quote-builder/src/referencedata"
)

type errorResponse struct {
	Type string `json:"type"`
	Msg  string `json:"message"`
}

func NewErrorResponse(errType string, message string) *errorResponse {
	return &errorResponse{
		Type: errType,
		Msg:  message,
	}
}

func setResponse(response interface{}, w http.ResponseWriter) error {
	return setResponseWithStatus(http.StatusOK, response, w)
}

func setResponseWithStatus(statusCode int, response interface{}, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		return fmt.Errorf("setResponse: encode: %w", err)
	}

	return nil
}

func setErrorResponse(errType string, statusCode int, err error, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := NewErrorResponse(errType, err.Error())
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		return encodeErr
	}

	return nil
}

// setEngineErrorResponse reports err under the status of the sentinel it wraps.
func setEngineErrorResponse(errType string, err error, w http.ResponseWriter) {
	var webErr *eventmodels.WebError

	switch {
	case errors.Is(err, referencedata.ErrNotFound):
		webErr = eventmodels.NewWebError(http.StatusNotFound, errType, err)
	case errors.Is(err, quotesession.ErrNoSink):
		webErr = eventmodels.NewWebError(http.StatusServiceUnavailable, errType, err)
	default:
		webErr = eventmodels.ToWebError(errType, err)
	}

	if webErr.StatusCode >= http.StatusInternalServerError {
		log.Errorf("%s: %v", errType, err)
	}

	setErrorResponse(webErr.Message, webErr.StatusCode, err, w)
}
