package errors

import (
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/protoadapt"
)

// Domain is the error domain reported in ErrorInfo details.
const Domain = "github.com/louisbranch/ziwei"

// Metadata keys the chart message templates read.
const (
	MetaField    = "Field"
	MetaDate     = "Date"
	MetaTime     = "Time"
	MetaResource = "Resource"
)

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Internal message (for logs/telemetry)
	Metadata map[string]string // Additional context for templating
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a simple domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithMetadata creates a domain error with metadata for i18n templating.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// WrapWithMetadata creates a domain error with both metadata and a cause.
func WrapWithMetadata(code Code, message string, metadata map[string]string, cause error) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata, Cause: cause}
}

// InvalidField reports a malformed or missing request field as
// CHART_INVALID_INPUT. cause may be nil.
func InvalidField(field string, cause error) *Error {
	message := field + " is malformed"
	if cause != nil {
		message = field + ": " + cause.Error()
	}
	return &Error{Code: CodeChartInvalidInput, Message: message, Metadata: map[string]string{MetaField: field}, Cause: cause}
}

// NotFound reports a missing resource such as a saved chart or a user.
func NotFound(resource string, cause error) *Error {
	return &Error{Code: CodeNotFound, Message: resource + " not found", Metadata: map[string]string{MetaResource: resource}, Cause: cause}
}

// ToGRPCStatus converts the error to a gRPC status with errdetails. The
// status message keeps the internal message; LocalizedMessage carries the
// user-facing text.
func (e *Error) ToGRPCStatus(locale string, userMessage string) error {
	grpcCode := e.Code.GRPCCode()
	details := []protoadapt.MessageV1{
		&errdetails.ErrorInfo{
			Reason:   string(e.Code),
			Domain:   Domain,
			Metadata: e.Metadata,
		},
		&errdetails.LocalizedMessage{
			Locale:  locale,
			Message: userMessage,
		},
	}
	if field := e.Metadata[MetaField]; field != "" {
		details = append(details, &errdetails.BadRequest{
			FieldViolations: []*errdetails.BadRequest_FieldViolation{{Field: field, Description: userMessage}},
		})
	}
	st, err := status.New(grpcCode, e.Message).WithDetails(details...)
	if err != nil {
		return status.New(grpcCode, e.Message).Err()
	}
	return st.Err()
}
