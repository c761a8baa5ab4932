package fetch

import "github.com/hleb-kastseika/tg-channel-to-rss/internal/util"

type temporaryError struct {
	error error
}

var _ util.Temporary = temporaryError{}

func makeTemporaryError(err error) temporaryError {
	return temporaryError{error: err}
}

func (e temporaryError) Temporary() bool {
	return true
}

func (e temporaryError) Error() string {
	return e.error.Error()
}

func (e temporaryError) Unwrap() error {
	return e.error
}

type unavailableError struct {
	error error
}

var _ util.Unavailable = unavailableError{}

func makeUnavailableError(err error) unavailableError {
	return unavailableError{error: err}
}

func (e unavailableError) Unavailable() bool {
	return true
}

func (e unavailableError) Error() string {
	return e.error.Error()
}

func (e unavailableError) Unwrap() error {
	return e.error
}
