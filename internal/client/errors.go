package client

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidEndpoint  = errors.New("invalid endpoint")
	ErrTransport        = errors.New("transport failure")
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrDecode           = errors.New("decode failure")

	// ErrCanceled marks a request abandoned because its context ended before a response arrived.
	ErrCanceled = errors.New("request canceled")
)

// Failure kinds as they appear in logs, metrics, feed state and fetch history.
const (
	KindInvalidEndpoint  = "invalid_endpoint"
	KindTransport        = "transport_failure"
	KindUnexpectedStatus = "unexpected_status"
	KindDecode           = "decode_failure"
	KindCanceled         = "canceled"
	KindUnknown          = "unknown"
)

// StatusError is returned for any response outside 200-299.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d (%s)", e.Code, e.Class())
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// Class buckets the status: 3xx redirect, 4xx client_error, 5xx server_error, else unknown.
func (e *StatusError) Class() string {
	switch {
	case e.Code >= 300 && e.Code <= 399:
		return "redirect"
	case e.Code >= 400 && e.Code <= 499:
		return "client_error"
	case e.Code >= 500 && e.Code <= 599:
		return "server_error"
	default:
		return "unknown"
	}
}

// FailureKind maps an error from FetchUsers to its kind. It returns "" for nil.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidEndpoint):
		return KindInvalidEndpoint
	case errors.Is(err, ErrUnexpectedStatus):
		return KindUnexpectedStatus
	case errors.Is(err, ErrDecode):
		return KindDecode
	case errors.Is(err, ErrCanceled):
		return KindCanceled
	case errors.Is(err, ErrTransport):
		return KindTransport
	default:
		return KindUnknown
	}
}
