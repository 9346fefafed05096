package cmd

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"
)

func nopLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func miniredisServer(t *testing.T) string {
	t.Helper()
	return miniredis.RunT(t).Addr()
}
