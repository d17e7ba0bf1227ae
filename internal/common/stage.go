package common

import "time"

// Stage runs fn as a named pipeline stage, logging entry and then either
// success or failure with the elapsed time. Errors are returned unchanged.
func Stage[T any](logger *Logger, name string, fn func(*Logger) (T, error)) (T, error) {
	start := time.Now()
	logger.Info().Str("stage", name).Msg("stage started")

	out, err := fn(logger)
	elapsed := time.Since(start)
	if err != nil {
		logger.Error().Str("stage", name).Dur("duration", elapsed).Err(err).Msg("stage failed")
		return out, err
	}

	logger.Info().Str("stage", name).Dur("duration", elapsed).Msg("stage complete")
	return out, nil
}
