package reconcile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// bytesPerMB is the size unit used by allowedSize bounds.
const bytesPerMB = 1024000

// Rejection reasons reported by AdmissionFilter.
const (
	ReasonNoExtension = "no_extension"
	ReasonTooSmall    = "too_small"
	ReasonTooLarge    = "too_large"
	ReasonNotAllowed  = "extension_not_allowed"
	ReasonIgnored     = "extension_ignored"
	ReasonVanished    = "vanished"
)

// Admission is the verdict for one file.
type Admission struct {
	Allowed bool
	Reason  string
	// Size is the file size in bytes, only known when size bounds were checked.
	Size int64
}

// AdmissionFilter applies the extension and size rules of an entry.
type AdmissionFilter struct {
	fs afero.Fs
}

// NewAdmissionFilter creates a filter that stats files through fs.
func NewAdmissionFilter(fs afero.Fs) *AdmissionFilter {
	return &AdmissionFilter{fs: fs}
}

// Extension returns the extension of path without the dot. Names whose only
// dot is the first character, and names ending in a dot, have none.
func Extension(path string) string {
	base := filepath.Base(path)
	idx := strings.LastIndex(base, ".")
	if idx <= 0 {
		return ""
	}
	return base[idx+1:]
}

// IsAllowed checks path against entry. A file removed between the scan and
// the stat is rejected rather than failing the pass.
func (f *AdmissionFilter) IsAllowed(path string, entry Entry) (Admission, error) {
	ext := Extension(path)
	if ext == "" {
		return Admission{Reason: ReasonNoExtension}, nil
	}

	var size int64
	if len(entry.AllowedSize) > 0 {
		info, err := f.fs.Stat(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return Admission{Reason: ReasonVanished}, nil
			}
			return Admission{}, err
		}
		size = info.Size()
		mb := float64(size / bytesPerMB)

		switch len(entry.AllowedSize) {
		case 1:
			if mb < entry.AllowedSize[0] {
				return Admission{Reason: ReasonTooSmall, Size: size}, nil
			}
		default:
			if mb > entry.AllowedSize[1] {
				return Admission{Reason: ReasonTooLarge, Size: size}, nil
			}
		}
	}

	if len(entry.AllowedExtensions) > 0 && !matchesExtension(entry.AllowedExtensions, ext) {
		return Admission{Reason: ReasonNotAllowed, Size: size}, nil
	}
	if matchesExtension(entry.IgnoredExtensions, ext) {
		return Admission{Reason: ReasonIgnored, Size: size}, nil
	}

	return Admission{Allowed: true, Size: size}, nil
}

// matchesExtension reports whether ext occurs inside any item, ignoring case.
// "mkv" therefore matches both "mkv" and ".mkv" configuration values.
func matchesExtension(items []string, ext string) bool {
	ext = strings.ToLower(ext)
	for _, item := range items {
		if strings.Contains(strings.ToLower(item), ext) {
			return true
		}
	}
	return false
}
