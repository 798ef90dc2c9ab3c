package util

import "fmt"

// MyResponseError carries an HTTP status alongside the message so the
// central error handler can map service failures onto the wire contract.
type MyResponseError struct {
	Msg    string
	Status int
}

func (e MyResponseError) Error() string { return e.Msg }

func NewResponseError(status int, format string, args ...interface{}) error {
	return MyResponseError{
		Msg:    fmt.Sprintf(format, args...),
		Status: status,
	}
}
