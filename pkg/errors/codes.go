package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal        ErrorCode = "COMMON_001"
	ErrCodeBadRequest      ErrorCode = "COMMON_002"
	ErrCodeNotFound        ErrorCode = "COMMON_005"
	ErrCodeConflict        ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests ErrorCode = "COMMON_007"
	ErrCodeUnavailable     ErrorCode = "COMMON_008"
	ErrCodeTimeout         ErrorCode = "COMMON_009"
	ErrCodeValidation      ErrorCode = "COMMON_010"
	ErrCodeSerialization   ErrorCode = "COMMON_011"
	ErrCodeDatabaseError   ErrorCode = "COMMON_012"
	ErrCodeCacheError      ErrorCode = "COMMON_013"
	ErrCodeNotImplemented  ErrorCode = "COMMON_016"
	ErrCodeRequestCanceled ErrorCode = "COMMON_017"
)

// Aliases used at call sites.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeOK           = ErrorCode("OK")
)

// Hydrogen-bond detection module error codes.
const (
	// ErrCodeInvalidParameters reports a DetectionParameters table that failed
	// load-time validation.
	ErrCodeInvalidParameters ErrorCode = "HBD_001"
	// ErrCodeUnknownPreset reports a preset name that is not registered.
	ErrCodeUnknownPreset ErrorCode = "HBD_002"
	// ErrCodeStructureParse reports a coordinate file that could not be read.
	ErrCodeStructureParse ErrorCode = "HBD_003"
	// ErrCodeUnknownFilter reports an unsupported global filter mode.
	ErrCodeUnknownFilter ErrorCode = "HBD_004"
	// ErrCodeEmptyStructure reports an input without any atoms.
	ErrCodeEmptyStructure ErrorCode = "HBD_005"
	// ErrCodeInvalidJob reports a batch job message that cannot be decoded
	// or names no structure.
	ErrCodeInvalidJob ErrorCode = "HBD_006"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeConflict:        http.StatusConflict,
	ErrCodeTooManyRequests: http.StatusTooManyRequests,
	ErrCodeUnavailable:     http.StatusServiceUnavailable,
	ErrCodeTimeout:         http.StatusGatewayTimeout,
	ErrCodeValidation:      http.StatusUnprocessableEntity,
	ErrCodeSerialization:   http.StatusInternalServerError,
	ErrCodeDatabaseError:   http.StatusInternalServerError,
	ErrCodeCacheError:      http.StatusInternalServerError,
	ErrCodeNotImplemented:  http.StatusNotImplemented,
	ErrCodeRequestCanceled: 499,

	ErrCodeInvalidParameters: http.StatusUnprocessableEntity,
	ErrCodeUnknownPreset:     http.StatusBadRequest,
	ErrCodeStructureParse:    http.StatusBadRequest,
	ErrCodeUnknownFilter:     http.StatusBadRequest,
	ErrCodeEmptyStructure:    http.StatusBadRequest,
	ErrCodeInvalidJob:        http.StatusBadRequest,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:        "internal server error",
	ErrCodeBadRequest:      "bad request",
	ErrCodeNotFound:        "resource not found",
	ErrCodeConflict:        "conflict",
	ErrCodeTooManyRequests: "rate limit exceeded",
	ErrCodeUnavailable:     "service unavailable",
	ErrCodeTimeout:         "request timeout",
	ErrCodeValidation:      "validation failed",
	ErrCodeSerialization:   "serialization failed",
	ErrCodeDatabaseError:   "database error",
	ErrCodeCacheError:      "cache error",
	ErrCodeNotImplemented:  "not implemented",
	ErrCodeRequestCanceled: "request canceled",

	ErrCodeInvalidParameters: "invalid detection parameters",
	ErrCodeUnknownPreset:     "unknown detection preset",
	ErrCodeStructureParse:    "failed to parse structure",
	ErrCodeUnknownFilter:     "unknown occupancy filter",
	ErrCodeEmptyStructure:    "structure contains no atoms",
	ErrCodeInvalidJob:        "invalid batch job",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
