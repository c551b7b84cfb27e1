package logging

import (
	"path/filepath"
	"strings"
	"time"
)

const logStampLayout = "20060102_150405"

// LogFilePath names the log file of one CLI run: <app>.<command>.<stamp>.log,
// stamped in UTC. The command segment is left out when command is empty.
func LogFilePath(logsDir, appName, command string, start time.Time) string {
	parts := []string{appName}
	if command != "" {
		parts = append(parts, command)
	}
	parts = append(parts, start.UTC().Format(logStampLayout), "log")
	return filepath.Join(logsDir, strings.Join(parts, "."))
}
