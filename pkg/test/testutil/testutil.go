// Package testutil provides helpers needed by pkg tests. They can't live in
// pkg/test since it imports the packages under test.
package testutil

import (
	"context"
	"testing"

	logging "github.com/KonishchevDmitry/go-easy-logging"
	"go.uber.org/zap/zaptest"
)

func Context(t *testing.T) context.Context {
	return logging.WithLogger(context.Background(), zaptest.NewLogger(t).Sugar())
}
