package risk

const (
	nadirHighMinMgDL         = 1.0
	nadirIntermediateMinMgDL = 0.4
)

// FollowUpGroup classifies the first-year creatinine nadir (SCN1).
// A missing, non-finite or negative reading is Undefined.
func FollowUpGroup(nadir *Reading) Group {
	if nadir == nil {
		return Undefined
	}

	// classified on mass alone, the molar side may overflow
	v := nadir.Normalize().Mass
	if !isFinite(v) {
		return Undefined
	}

	switch {
	case v >= nadirHighMinMgDL:
		return High
	case v >= nadirIntermediateMinMgDL:
		return Intermediate
	case v >= 0:
		return Low
	default:
		return Undefined
	}
}
