package status

import "errors"

// Kind classifies what went wrong while reading a connection.
type Kind uint8

const (
	MalformedLine Kind = iota + 1
	MissingRequiredHeader
	LengthOutOfBounds
	ProtocolViolation
	ResourceLimit
)

type HTTPError struct {
	Message string
	Code    Code
	Kind    Kind
}

func NewError(code Code, kind Kind, message string) error {
	return HTTPError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

var (
	ErrBadMethod        = NewError(NotImplemented, MalformedLine, "request method is not supported")
	ErrMalformedLine    = NewError(BadRequest, MalformedLine, "malformed request line")
	ErrLengthRequired   = NewError(LengthRequired, MissingRequiredHeader, "content length is required")
	ErrBadContentLength = NewError(RequestEntityTooLarge, LengthOutOfBounds, "content length is out of bounds")
	ErrBufferOverflow   = NewError(RequestEntityTooLarge, ResourceLimit, "too much unconsumed data")
)

// KindOf extracts the error kind. Zero is returned for errors that didn't originate
// from this package.
func KindOf(err error) Kind {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Kind
	}

	return 0
}

// IsFatal reports whether the connection must be shut down after the error.
func IsFatal(err error) bool {
	switch KindOf(err) {
	case MalformedLine, MissingRequiredHeader, LengthOutOfBounds, ResourceLimit:
		return true
	default:
		return false
	}
}
