package log

import (
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Setup builds the service-wide logger. Logs go through otelzap so that
// entries written with Ctx() carry the active trace context.
func Setup() *otelzap.Logger {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		zapLogger = zap.NewNop()
	}
	return otelzap.New(zapLogger, otelzap.WithMinLevel(zap.InfoLevel))
}
