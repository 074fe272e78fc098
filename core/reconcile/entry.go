package reconcile

import (
	"path/filepath"
)

// MediaType is the classification of a media file.
type MediaType string

const (
	// MediaUnknown is returned when the classifier cannot tell.
	MediaUnknown MediaType = ""
	// MediaMovie marks a feature film.
	MediaMovie MediaType = "movie"
	// MediaSeries marks an episode of a series.
	MediaSeries MediaType = "series"
)

// Entry is one organization rule set. Keys keep the camelCase names used by
// existing configuration files.
type Entry struct {
	// Directories are the source roots, scanned concurrently.
	Directories []string `mapstructure:"directories" json:"directories" validate:"required,min=1,dive,required"`

	// TargetPath is the root of the link tree.
	TargetPath string `mapstructure:"targetPath" json:"targetPath" validate:"required"`

	// TargetFormat is the path template rendered for every admitted file.
	TargetFormat string `mapstructure:"targetFormat" json:"targetFormat" validate:"required"`

	// AllowedExtensions, when non-empty, restricts admission to matching extensions.
	AllowedExtensions []string `mapstructure:"allowedExtensions" json:"allowedExtensions,omitempty"`

	// IgnoredExtensions rejects matching extensions even if allowed.
	IgnoredExtensions []string `mapstructure:"ignoredExtensions" json:"ignoredExtensions,omitempty"`

	// AllowedSize holds zero, one (minimum) or two (minimum, maximum) bounds in MB.
	AllowedSize []float64 `mapstructure:"allowedSize" json:"allowedSize,omitempty" validate:"max=2,dive,gte=0"`

	// StrictType restricts the entry to a single media type.
	StrictType MediaType `mapstructure:"strictType" json:"strictType,omitempty" validate:"omitempty,oneof=movie series"`

	// UseHighestQuality lets a higher quality origin replace an existing link.
	UseHighestQuality bool `mapstructure:"useHighestQuality" json:"useHighestQuality"`

	// Enabled disables the entry only when explicitly set to false.
	Enabled *bool `mapstructure:"enabled" json:"enabled,omitempty"`
}

// IsEnabled reports whether the entry should be reconciled.
func (e Entry) IsEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}

// ResolvedDirectories returns the source roots as absolute, cleaned paths.
func (e Entry) ResolvedDirectories() []string {
	dirs := make([]string, 0, len(e.Directories))
	for _, dir := range e.Directories {
		dirs = append(dirs, resolvePath(dir))
	}
	return dirs
}

// ResolvedTargetPath returns the link tree root as an absolute, cleaned path.
func (e Entry) ResolvedTargetPath() string {
	return resolvePath(e.TargetPath)
}

func resolvePath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
