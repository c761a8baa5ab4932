package util

import (
	"errors"
)

// Temporary marks errors caused by transient conditions (network failures,
// remote server errors) which are likely to go away on retry.
type Temporary interface {
	Temporary() bool
}

func IsTemporaryError(err error) bool {
	for err := err; err != nil; err = errors.Unwrap(err) {
		if err, ok := err.(Temporary); ok && err.Temporary() {
			return true
		}
	}
	return false
}

// Unavailable marks errors returned when the upstream service has been
// reached, but refused to provide the requested document.
type Unavailable interface {
	Unavailable() bool
}

func IsUnavailableError(err error) bool {
	for err := err; err != nil; err = errors.Unwrap(err) {
		if err, ok := err.(Unavailable); ok && err.Unavailable() {
			return true
		}
	}
	return false
}

// InvalidInput marks errors caused by malformed client-provided parameters.
type InvalidInput interface {
	InvalidInput() bool
}

func IsInvalidInputError(err error) bool {
	for err := err; err != nil; err = errors.Unwrap(err) {
		if err, ok := err.(InvalidInput); ok && err.InvalidInput() {
			return true
		}
	}
	return false
}
