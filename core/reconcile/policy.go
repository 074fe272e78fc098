package reconcile

import (
	"medialink/core/utils"
)

// ShouldLink decides what to do with a candidate link given the record that
// currently owns its destination, if any.
func ShouldLink(entry Entry, existing *LinkRecord, origin string, meta Metadata) Decision {
	if existing == nil {
		return DecisionCreate
	}
	if existing.Origin == origin {
		return DecisionNoop
	}
	if !entry.UseHighestQuality {
		return DecisionNoop
	}
	rawNew, ok := meta.Quality()
	if !ok {
		return DecisionNoop
	}
	newQ, newValid := ParseQuality(rawNew)

	rawOld, hasOld := existing.Metadata.Quality()
	if !hasOld {
		if newValid {
			return DecisionOverride
		}
		return DecisionNoop
	}
	oldQ, oldValid := ParseQuality(rawOld)
	if newValid && oldValid && newQ > oldQ {
		return DecisionOverride
	}
	return DecisionNoop
}

// ParseQuality reduces a quality value to an integer. Strings keep only their
// digits ("1080p" is 1080); numbers must be integral.
func ParseQuality(v any) (int, bool) {
	if s, ok := v.(string); ok {
		return utils.ToInt(utils.DigitsOnly(s))
	}
	return utils.ToInt(v)
}
