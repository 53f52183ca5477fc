package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger é a interface para logging
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Sync() error
}

// ZapLogger é a implementação de Logger baseada no zap
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewLogger cria uma nova instância de Logger.
// format "json" gera saída estruturada; qualquer outro valor usa o formato de desenvolvimento.
func NewLogger(level, format string) (Logger, error) {
	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			return nil, err
		}
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &ZapLogger{sugar: z.Sugar()}, nil
}

// NewNop cria um Logger que descarta tudo (útil em testes)
func NewNop() Logger {
	return &ZapLogger{sugar: zap.NewNop().Sugar()}
}

// Info registra uma mensagem de informação
func (l *ZapLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

// Error registra uma mensagem de erro
func (l *ZapLogger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}

// Debug registra uma mensagem de debug
func (l *ZapLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

// Warn registra uma mensagem de aviso
func (l *ZapLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}

// Sync descarrega o buffer do logger
func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}
