package prep

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/mercato/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0o600
)

// SetupLogging initializes the global logger to write to both stdout and
// logFile. An empty logFile gets a timestamped name. The returned closer
// releases the file.
func SetupLogging(logFile string) (io.Closer, error) {
	if logFile == "" {
		logFile = "prep_" + time.Now().Format("20060102_150405") + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.InitWithWriter(io.MultiWriter(os.Stdout, file)); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return file, nil
}

// ShowHelp prints usage information for the prep tool.
func ShowHelp() {
	os.Stdout.WriteString(`Mercato Snapshot Builder
========================

Reconciles the transfer CSV files once and writes the resolved ledger as a
gzip CSV snapshot that the server loads at start-up.

Usage:
  go run cmd/prep/main.go [options]

Options:
  -data string
        Directory of source CSV files (default "data")
  -out string
        Snapshot to write (default "data/transfers.csv.gz")
  -workers int
        Number of resolution workers (default CPU cores * 2)
  -queue int
        Resolution queue capacity (default 10000)
  -threshold int
        Minimum similarity for approximate matches, 0-100 (default 80)
  -progress int
        Log every n-th record (default 100)
  -unresolved int
        Report the n most frequent unresolved names (default 20)
  -log string
        Log file (default: prep_TIMESTAMP.log)
  -verbose
        Log progress samples at info level
  -help
        Show this help message

Examples:
  # Build with default settings
  go run cmd/prep/main.go

  # Stricter matching with more workers
  go run cmd/prep/main.go -threshold 90 -workers 16
`)
}
