package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is a no-op logger until InitLogger runs, so packages can log from tests.
var Log = zap.NewNop()

// InitLogger builds Log for the server mode. "release" gets JSON output at
// info level; anything else is the colored development console.
func InitLogger(mode string) error {
	l, err := build(mode)
	if err != nil {
		return err
	}
	Log = l.With(zap.String("service", "casino"))
	zap.ReplaceGlobals(Log)
	return nil
}

func build(mode string) (*zap.Logger, error) {
	var conf zap.Config
	switch mode {
	case "release":
		conf = zap.NewProductionConfig()
		conf.EncoderConfig.TimeKey = "ts"
		conf.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	case "debug", "test", "":
		conf = zap.NewDevelopmentConfig()
		conf.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("unknown log mode %q", mode)
	}
	conf.OutputPaths = []string{"stdout"}
	return conf.Build()
}

// Session returns a child logger tagged with the session key.
func Session(key string) *zap.Logger {
	return Log.With(zap.String("session", key))
}
