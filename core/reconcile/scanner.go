package reconcile

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Scanner lists the files below a source root.
type Scanner struct {
	fs   afero.Fs
	skip map[string]struct{}
}

// NewScanner creates a scanner over fs. Directories listed in skip (typically
// the entry's target path) are never descended into.
func NewScanner(fs afero.Fs, skip ...string) *Scanner {
	s := &Scanner{fs: fs, skip: make(map[string]struct{}, len(skip))}
	for _, p := range skip {
		if p != "" {
			s.skip[filepath.Clean(p)] = struct{}{}
		}
	}
	return s
}

// ListFiles walks root depth-first with an explicit stack and returns every
// regular file, including symbolic links that resolve to a regular file.
// Symlinked directories are not followed and dangling links are ignored. Any
// directory that cannot be read aborts the walk with a *ScanError.
func (s *Scanner) ListFiles(ctx context.Context, root string) ([]string, error) {
	root = filepath.Clean(root)
	stack := []string{root}
	var files []string

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		infos, err := afero.ReadDir(s.fs, dir)
		if err != nil {
			return nil, &ScanError{Root: root, Dir: dir, Err: err}
		}

		for _, info := range infos {
			path := filepath.Join(dir, info.Name())
			switch {
			case info.IsDir():
				if _, skipped := s.skip[path]; !skipped {
					stack = append(stack, path)
				}
			case info.Mode()&os.ModeSymlink != 0:
				target, err := s.fs.Stat(path)
				if err != nil || !target.Mode().IsRegular() {
					continue
				}
				files = append(files, path)
			case info.Mode().IsRegular():
				files = append(files, path)
			}
		}
	}

	return files, nil
}
