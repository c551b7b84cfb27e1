package logging

import "github.com/rs/zerolog"

// RegistryLogger adapts zerolog.Logger to the actions.Logger interface.
type RegistryLogger struct {
	logger zerolog.Logger
}

// NewRegistryLogger creates a new RegistryLogger wrapping a zerolog.Logger.
func NewRegistryLogger(logger zerolog.Logger) *RegistryLogger {
	return &RegistryLogger{logger: logger}
}

// Debug logs a debug message with optional key-value pairs.
func (l *RegistryLogger) Debug(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(toFields(keysAndValues)).Msg(msg)
}

// Info logs an info message with optional key-value pairs.
func (l *RegistryLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Info().Fields(toFields(keysAndValues)).Msg(msg)
}

// Error logs an error message with optional key-value pairs.
func (l *RegistryLogger) Error(msg string, keysAndValues ...any) {
	l.logger.Error().Fields(toFields(keysAndValues)).Msg(msg)
}

// toFields converts key-value pairs to a map for zerolog. A trailing key
// without a value and non-string keys are dropped.
func toFields(keysAndValues []any) map[string]any {
	fields := make(map[string]any, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	return fields
}
