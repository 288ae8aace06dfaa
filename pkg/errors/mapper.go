package errors

import (
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// Mapper maps domain errors to HTTP status codes
type Mapper struct {
	logger zerolog.Logger
}

// NewMapper creates a new error mapper
func NewMapper(logger zerolog.Logger) *Mapper {
	return &Mapper{logger: logger}
}

// MapErrorToHTTP maps an error to HTTP status code and message.
// Internal errors never leak their message to the client.
func (m *Mapper) MapErrorToHTTP(err error) (int, string) {
	if err == nil {
		return fasthttp.StatusOK, ""
	}

	switch TypeOf(err) {
	case ErrorTypeValidation:
		return fasthttp.StatusBadRequest, err.Error()
	case ErrorTypeUnauthorized:
		return fasthttp.StatusUnauthorized, err.Error()
	case ErrorTypeNotFound:
		return fasthttp.StatusNotFound, err.Error()
	case ErrorTypeServiceUnavailable:
		return fasthttp.StatusServiceUnavailable, err.Error()
	}

	m.logger.Error().Err(err).Msg("internal server error")
	return fasthttp.StatusInternalServerError, "internal server error"
}
