package grove

import "strings"

// Annotation keyword sets, matched case-insensitively as substrings. The
// vocabulary mixes the field-survey terms found in production census sheets
// with their English equivalents.
var (
	deceasedKeywords = []string{"mati", "tumbang", "dead", "fallen"}
	vacantKeywords   = []string{"kosong", "vacant", "empty"}
	juvenileKeywords = []string{"sisip", "interplant", "young"}
	eligibleKeywords = []string{"utama", "tamb", "pokok", "main", "suppl"}
)

// Segment assigns the lifecycle category for a record from its annotation
// and raw index value. The priority order is fixed:
//
//  1. Zero or absent index value wins over any label (physical safety net:
//     a position the sensor saw nothing at cannot hold a live stand).
//  2. Death/fallen keyword.
//  3. Vacancy keyword.
//  4. Young/interplanted keyword.
//  5. Main/supplementary planting keyword.
//  6. Default: eligible.
//
// The mapping is total and deterministic.
func Segment(note string, value *float64) Category {
	if value == nil || *value == 0 {
		return CategoryVacant
	}

	n := strings.ToLower(strings.TrimSpace(note))
	switch {
	case matchesAny(n, deceasedKeywords):
		return CategoryDeceased
	case matchesAny(n, vacantKeywords):
		return CategoryVacant
	case matchesAny(n, juvenileKeywords):
		return CategoryJuvenile
	case matchesAny(n, eligibleKeywords):
		return CategoryEligible
	}
	return CategoryEligible
}

func matchesAny(note string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(note, kw) {
			return true
		}
	}
	return false
}

// SegmentAll categorizes every record in place and marks deceased records
// as pathogen sources.
func SegmentAll(records []*Record) {
	for _, r := range records {
		r.Category = Segment(r.Note, r.Value)
		r.Source = r.Category == CategoryDeceased
	}
}
