// Package media classifies media files from their names. Episodes are
// recognized by "S01E02" or "1x02" markers; everything else is a movie. The
// extracted metadata carries title, year, season, episode and quality keys.
package media
