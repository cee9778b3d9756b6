package logger

import (
	"go.uber.org/zap"
)

// Init replaces zap's global logger. Production gets JSON output, everything else the console encoder.
func Init(env string) error {
	var (
		l   *zap.Logger
		err error
	)

	if env == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}

	zap.ReplaceGlobals(l)

	return nil
}
