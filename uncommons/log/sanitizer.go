package log

import (
	"context"
	"fmt"

	"github.com/mystrive/lib-dbconn/uncommons/internal/nilcheck"
)

// SafeError logs err at error level. When production is true only the error
// type is recorded, so driver messages never reach shared log sinks.
func SafeError(logger Logger, ctx context.Context, msg string, err error, production bool) {
	if nilcheck.Interface(logger) || err == nil {
		return
	}

	if !logger.Enabled(LevelError) {
		return
	}

	if production {
		logger.Log(ctx, LevelError, msg, String("error_type", fmt.Sprintf("%T", err)))
		return
	}

	logger.Log(ctx, LevelError, msg, Err(err))
}
