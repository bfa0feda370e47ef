package triage

// Segment maps an age in years to its life-stage bucket. Intervals are
// closed and the mapping is total: anything at or above 18 is adult, and
// out-of-range low values still land in infant (validation upstream
// rejects negative ages before they get here).
func Segment(age int) AgeSegment {
	switch {
	case age <= 1:
		return SegmentInfant
	case age <= 5:
		return SegmentEarlyChildhood
	case age <= 12:
		return SegmentSchoolAge
	case age <= 17:
		return SegmentAdolescent
	default:
		return SegmentAdult
	}
}
