package checks

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// CheckTargets returns the target directories that do not exist on fs.
// A path occupied by a regular file is reported as an error.
func CheckTargets(fs afero.Fs, targets []string) ([]string, error) {
	missing := []string{}
	for _, target := range targets {
		info, err := fs.Stat(target)
		if errors.Is(err, os.ErrNotExist) {
			missing = append(missing, target)
			continue
		}
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("target %s is not a directory", target)
		}
	}
	return missing, nil
}

// FixTargets creates the missing target directories.
func FixTargets(fs afero.Fs, logger *zap.Logger, missing []string) error {
	for _, target := range missing {
		logger.Info("Creating target directory", zap.String("path", target))
		if err := fs.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", target, err)
		}
	}
	return nil
}
