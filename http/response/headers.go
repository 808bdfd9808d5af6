package response

import (
	"errors"
	"strconv"

	"github.com/indigo-web/pushwire/http/status"
	"github.com/indigo-web/utils/strcomp"
)

const (
	// MaxDetailLength limits the reason phrase of the status line.
	MaxDetailLength = 63
	// MaxKeyLength limits the key of a response header field. Longer keys are dropped.
	MaxKeyLength = 31
)

var (
	ErrBadCode       = errors.New("status code must be within 100-599")
	ErrDetailTooLong = errors.New("status detail is too long")
)

type field struct {
	key, value string
}

// Headers is the status line and the header fields of an outbound response.
type Headers struct {
	code   int
	detail string
	fields []field
}

// New returns headers with the given status line.
func New(code int, detail string) (*Headers, error) {
	if code < 100 || code > 599 {
		return nil, ErrBadCode
	}

	if len(detail) > MaxDetailLength {
		return nil, ErrDetailTooLong
	}

	return &Headers{
		code:   code,
		detail: detail,
	}, nil
}

// WithCode is the same as New, but takes the reason phrase from the status code itself.
// Codes known to the status package always pass the validation.
func WithCode(code status.Code) *Headers {
	h, err := New(int(code), status.Text(code))
	if err != nil {
		panic("BUG: " + err.Error())
	}

	return h
}

// Set sets the value of the field with the key, compared case-insensitively. A new field
// goes after all the existing ones. Keys longer than MaxKeyLength are silently ignored.
func (h *Headers) Set(key, value string) *Headers {
	if len(key) > MaxKeyLength {
		return h
	}

	for i := range h.fields {
		if strcomp.EqualFold(h.fields[i].key, key) {
			h.fields[i].value = value
			return h
		}
	}

	h.fields = append(h.fields, field{key: key, value: value})
	return h
}

// Get returns the value of the field with the key.
func (h *Headers) Get(key string) (value string, found bool) {
	for _, f := range h.fields {
		if strcomp.EqualFold(f.key, key) {
			return f.value, true
		}
	}

	return "", false
}

// Code returns the status code.
func (h *Headers) Code() int {
	return h.code
}

// Len returns the number of fields.
func (h *Headers) Len() int {
	return len(h.fields)
}

// AppendTo serializes the status line, the fields in the order they were set and the
// terminating empty line.
func (h *Headers) AppendTo(dst []byte) []byte {
	dst = append(dst, "HTTP/1.1 "...)
	dst = strconv.AppendInt(dst, int64(h.code), 10)
	dst = append(dst, ' ')
	dst = append(dst, h.detail...)
	dst = append(dst, "\r\n"...)

	for _, f := range h.fields {
		dst = append(dst, f.key...)
		dst = append(dst, ": "...)
		dst = append(dst, f.value...)
		dst = append(dst, "\r\n"...)
	}

	return append(dst, "\r\n"...)
}

// Writer is the transport side of the connection.
type Writer interface {
	Write([]byte) error
}

// Send writes the serialized headers into w. If h is nil, fallback is written verbatim
// instead.
func Send(w Writer, h *Headers, fallback []byte) error {
	if h == nil {
		return w.Write(fallback)
	}

	return w.Write(h.AppendTo(nil))
}
