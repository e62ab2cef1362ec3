package patcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/r2o3/rgskin-pkgfix/internal/logger"
)

// ErrBuildRunning indicates that a build tool is still writing the distribution folders.
var ErrBuildRunning = errors.New("a build is running now")

// processLister returns a snapshot of running processes.
type processLister func() ([]ps.Process, error)

// ensureNoBuildRunning fails when one of the named executables is alive.
// A failure to list processes is logged and does not block the patch.
func ensureNoBuildRunning(ctx context.Context, names []string, list processLister) error {
	if len(names) == 0 {
		return nil
	}

	logger.Debug(ctx, "Checking for a running build")

	processList, err := list()
	if err != nil {
		logger.WarnKV(ctx, "Unable to list processes, skipping build check", "error", err)
		return nil
	}

	wanted := sliceToSet(names)
	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		executable := strings.TrimSuffix(process.Executable(), ".exe")
		if _, ok := wanted[executable]; !ok {
			continue
		}

		return fmt.Errorf("%w: %s (pid %d)", ErrBuildRunning, executable, process.Pid())
	}

	return nil
}

// sliceToSet converts a slice to a set for quick lookups.
func sliceToSet[T comparable](elements []T) map[T]struct{} {
	result := make(map[T]struct{}, len(elements))
	for _, value := range elements {
		result[value] = struct{}{}
	}

	return result
}
