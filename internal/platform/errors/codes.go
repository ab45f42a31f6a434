// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Chart computation errors
	CodeChartInvalidDate  Code = "CHART_INVALID_DATE"
	CodeChartOutOfRange   Code = "CHART_OUT_OF_RANGE"
	CodeChartInvalidHour  Code = "CHART_INVALID_HOUR"
	CodeChartInvalidSex   Code = "CHART_INVALID_SEX"
	CodeChartInvalidInput Code = "CHART_INVALID_INPUT"
	CodeChartInternal     Code = "CHART_INTERNAL"

	// Saved chart errors
	CodeChartNameEmpty Code = "CHART_NAME_EMPTY"

	// Account errors
	CodeAccountInvalidUsername Code = "ACCOUNT_INVALID_USERNAME"
	CodeAccountWeakPassword    Code = "ACCOUNT_WEAK_PASSWORD"
	CodeAccountBadCredentials  Code = "ACCOUNT_BAD_CREDENTIALS"

	// Narrative errors
	CodeNarrativeUnavailable Code = "NARRATIVE_UNAVAILABLE"

	// Storage errors
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"

	// Access errors
	CodeUnauthenticated  Code = "UNAUTHENTICATED"
	CodePermissionDenied Code = "PERMISSION_DENIED"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeChartInvalidDate,
		CodeChartInvalidHour,
		CodeChartInvalidSex,
		CodeChartInvalidInput,
		CodeChartNameEmpty,
		CodeAccountInvalidUsername,
		CodeAccountWeakPassword:
		return codes.InvalidArgument

	// OutOfRange - valid date the lunisolar table does not cover
	case CodeChartOutOfRange:
		return codes.OutOfRange

	case CodeNotFound:
		return codes.NotFound

	case CodeAlreadyExists:
		return codes.AlreadyExists

	case CodeUnauthenticated,
		CodeAccountBadCredentials:
		return codes.Unauthenticated

	case CodePermissionDenied:
		return codes.PermissionDenied

	case CodeNarrativeUnavailable:
		return codes.Unavailable

	default:
		return codes.Internal
	}
}
