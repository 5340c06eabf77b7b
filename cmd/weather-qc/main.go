// Command weather-qc runs the daily weather observation quality checks over
// one input file and writes the cleaned series and the per-check ledger.
//
// Usage:
//
//	weather-qc --input DataQualityChecking.txt \
//	  --output data_qualitychecked.txt \
//	  --ledger data_failed_check_info.txt
//
// Every flag falls back to its environment variable (INPUT_PATH, OUTPUT_PATH,
// LEDGER_PATH); see internal/config for the rest.
package main

import (
	"log/slog"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("weather-qc failed", "error", err)
		os.Exit(1)
	}
}
