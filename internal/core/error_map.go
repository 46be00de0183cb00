package core

import (
	"errors"
	"strings"
)

// CodedError is implemented by domain errors that carry a machine-readable code.
type CodedError interface {
	error
	ErrorCode() string
}

type ErrorInfo struct {
	Code       string
	Message    string
	HTTPStatus int
}

// MapError maps an error to the structured payload the HTTP transport returns.
func MapError(err error, fallbackStatus int) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: "internal_error", Message: "internal server error", HTTPStatus: fallbackStatus}
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	var coded CodedError
	if errors.As(err, &coded) {
		code := coded.ErrorCode()
		switch code {
		case string(ErrorKindValidation):
			return ErrorInfo{Code: code, Message: msg, HTTPStatus: 400}
		case string(ErrorKindNotFound):
			return ErrorInfo{Code: code, Message: msg, HTTPStatus: 404}
		case string(ErrorKindRemote):
			return ErrorInfo{Code: code, Message: msg, HTTPStatus: 502}
		case "method_not_found":
			return ErrorInfo{Code: code, Message: msg, HTTPStatus: 404}
		case "rate_limited":
			return ErrorInfo{Code: code, Message: msg, HTTPStatus: 429}
		case "unauthorized":
			return ErrorInfo{Code: code, Message: msg, HTTPStatus: 401}
		case "idempotency_key_conflict":
			return ErrorInfo{Code: code, Message: msg, HTTPStatus: 409}
		}
	}

	switch {
	case strings.Contains(lower, "tool") && (strings.Contains(lower, "allowlist") || strings.Contains(lower, "denied by policy")):
		return ErrorInfo{Code: "tool_not_allowed", Message: msg, HTTPStatus: 403}
	case strings.Contains(lower, "method not found"), strings.Contains(lower, "unknown tool"):
		return ErrorInfo{Code: "method_not_found", Message: msg, HTTPStatus: 404}
	case strings.Contains(lower, "invalid json"), strings.Contains(lower, "request body must contain a single json object"):
		return ErrorInfo{Code: "invalid_request_schema", Message: msg, HTTPStatus: 400}
	case strings.Contains(lower, "audit") && strings.Contains(lower, "disabled"):
		return ErrorInfo{Code: "audit_disabled", Message: msg, HTTPStatus: 503}
	default:
		code := "internal_error"
		if fallbackStatus >= 400 && fallbackStatus < 500 {
			code = "bad_request"
		}
		return ErrorInfo{Code: code, Message: msg, HTTPStatus: fallbackStatus}
	}
}
