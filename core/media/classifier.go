package media

import (
	"errors"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"medialink/core/reconcile"
)

var (
	seasonEpisodePattern = regexp.MustCompile(`(?i)\bS(\d{1,3})\s?E(\d{1,4})\b`)
	crossEpisodePattern  = regexp.MustCompile(`(?i)\b(\d{1,2})x(\d{2,3})\b`)
	yearPattern          = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
	qualityPattern       = regexp.MustCompile(`(?i)\b(\d{3,4})[pi]\b`)
	uhdPattern           = regexp.MustCompile(`(?i)\b(4k|uhd)\b`)
	seasonDirPattern     = regexp.MustCompile(`(?i)^(season|series|staffel)\s*\d+$|^s\d{1,2}$`)
	separatorPattern     = regexp.MustCompile(`[._]+`)
	spacePattern         = regexp.MustCompile(`\s{2,}`)
)

// ErrEmptyPath is returned when metadata is extracted without a path.
var ErrEmptyPath = errors.New("empty path")

// Classifier derives media metadata from file and folder names.
type Classifier struct{}

// NewClassifier creates a filename based classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// ClassifyType reports whether path looks like an episode or a movie.
func (c *Classifier) ClassifyType(path string) reconcile.MediaType {
	if episodeMarker(cleanName(stem(path))) != nil {
		return reconcile.MediaSeries
	}
	return reconcile.MediaMovie
}

// ExtractMetadata implements reconcile.Classifier. Season and episode are only
// parsed for series; an unknown type is classified first.
func (c *Classifier) ExtractMetadata(path string, t reconcile.MediaType) (reconcile.Metadata, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if t == reconcile.MediaUnknown {
		t = c.ClassifyType(path)
	}

	name := cleanName(stem(path))
	meta := reconcile.Metadata{reconcile.MetaType: string(t)}

	// Episode markers bound the title.
	titleEnd := len(name)
	var loc []int
	if t == reconcile.MediaSeries {
		loc = episodeMarker(name)
	}
	if loc != nil {
		season, _ := strconv.Atoi(name[loc[2]:loc[3]])
		episode, _ := strconv.Atoi(name[loc[4]:loc[5]])
		meta[reconcile.MetaSeason] = season
		meta[reconcile.MetaEpisode] = episode
		titleEnd = loc[0]
	}

	if year, idx, ok := findYear(name); ok {
		meta[reconcile.MetaYear] = year
		if idx < titleEnd {
			titleEnd = idx
		}
	} else if year, _, ok := findYear(cleanName(showDir(path))); ok {
		meta[reconcile.MetaYear] = year
	}

	if q, idx, ok := findQuality(name); ok {
		meta[reconcile.MetaQuality] = q
		if idx < titleEnd {
			titleEnd = idx
		}
	}

	title := trimTitle(name[:titleEnd])
	if title == "" && loc != nil {
		dir := cleanName(showDir(path))
		if year, idx, ok := findYear(dir); ok {
			meta[reconcile.MetaYear] = year
			dir = dir[:idx]
		}
		title = trimTitle(dir)
	}
	if title == "" {
		title = trimTitle(name)
	}
	meta[reconcile.MetaTitle] = title

	return meta, nil
}

func episodeMarker(name string) []int {
	if loc := seasonEpisodePattern.FindStringSubmatchIndex(name); loc != nil {
		return loc
	}
	return crossEpisodePattern.FindStringSubmatchIndex(name)
}

func stem(path string) string {
	base := filepath.Base(path)
	if ext := reconcile.Extension(base); ext != "" {
		return strings.TrimSuffix(base, "."+ext)
	}
	return base
}

// showDir returns the closest parent directory that is not a season folder.
func showDir(path string) string {
	dir := filepath.Dir(path)
	for i := 0; i < 2; i++ {
		base := filepath.Base(dir)
		if !seasonDirPattern.MatchString(strings.TrimSpace(base)) {
			return base
		}
		dir = filepath.Dir(dir)
	}
	return filepath.Base(dir)
}

func cleanName(s string) string {
	s = separatorPattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

// findYear returns the first year that does not open the name, so titles such
// as "1917" survive.
func findYear(name string) (int, int, bool) {
	for _, m := range yearPattern.FindAllStringSubmatchIndex(name, -1) {
		if m[0] == 0 {
			continue
		}
		year, _ := strconv.Atoi(name[m[2]:m[3]])
		return year, m[0], true
	}
	return 0, 0, false
}

func findQuality(name string) (string, int, bool) {
	if m := qualityPattern.FindStringSubmatchIndex(name); m != nil {
		return name[m[2]:m[3]] + "p", m[0], true
	}
	if m := uhdPattern.FindStringIndex(name); m != nil {
		return "2160p", m[0], true
	}
	return "", 0, false
}

func trimTitle(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "-([{ "))
}
