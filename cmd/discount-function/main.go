// Command discount-function runs the checkout bundle discount: the function
// input is read from stdin and the discount result written to stdout.
package main

import (
	"encoding/json"
	"io"
	"os"

	"bundle-discount-layer/internal/application/discount"
	"bundle-discount-layer/internal/domain"

	"github.com/rs/zerolog"
)

func main() {
	// stdout carries the result; logs go to stderr
	logger := zerolog.New(os.Stderr).Level(zerolog.WarnLevel).With().Timestamp().Logger()
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if lvl, err := zerolog.ParseLevel(v); err == nil {
			logger = logger.Level(lvl)
		}
	}

	if err := run(os.Stdin, os.Stdout, logger); err != nil {
		logger.Error().Err(err).Msg("Failed to write function result")
		os.Exit(1)
	}
}

func run(in io.Reader, out io.Writer, logger zerolog.Logger) error {
	result := domain.EmptyFunctionResult()

	payload, err := io.ReadAll(in)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read function input")
	} else {
		result = discount.NewFunction(logger).Run(payload)
	}

	return json.NewEncoder(out).Encode(result)
}
