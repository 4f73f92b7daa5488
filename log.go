package buddy

import (
	"go.uber.org/zap"
)

var logger = zap.NewNop()

// UseLogger use logger for pools created without WithLogger
func UseLogger(zapLogger *zap.Logger) {
	logger = zapLogger
}
