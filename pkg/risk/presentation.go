package risk

const (
	// creatinine above this many µmol/L, measured after 72h of life, scores
	creatinineCutoffUmolL = 150.0

	creatininePoints      = 2
	failureToThrivePoints = 2
	vurPoints             = 1
	dysplasiaPoints       = 1

	// MaxPresentationScore is the highest possible PURK score.
	MaxPresentationScore = creatininePoints + failureToThrivePoints + vurPoints + dysplasiaPoints

	presentationHighMin         = 4
	presentationIntermediateMin = 2
)

// Observations are the findings available at presentation.
type Observations struct {
	// Creatinine72h is the serum creatinine measured more than 72 hours
	// after birth. Nil means unknown and scores nothing.
	Creatinine72h *Reading `json:"creatinine_72h,omitempty" yaml:"creatinine72h,omitempty"`

	FailureToThrive bool `json:"failure_to_thrive" yaml:"failureToThrive"`
	HighGradeVUR    bool `json:"high_grade_vur" yaml:"highGradeVUR"`
	RenalDysplasia  bool `json:"renal_dysplasia" yaml:"renalDysplasia"`
}

// Points is the per-criterion breakdown of the PURK score.
type Points struct {
	Creatinine      int `json:"creatinine" yaml:"creatinine"`
	FailureToThrive int `json:"failure_to_thrive" yaml:"failureToThrive"`
	HighGradeVUR    int `json:"high_grade_vur" yaml:"highGradeVUR"`
	RenalDysplasia  int `json:"renal_dysplasia" yaml:"renalDysplasia"`
}

// Total sums all criteria.
func (p Points) Total() int {
	return p.Creatinine + p.FailureToThrive + p.HighGradeVUR + p.RenalDysplasia
}

// PresentationPoints scores each presentation criterion independently.
func PresentationPoints(o Observations) Points {
	var p Points

	// NaN compares false, so an unusable reading scores like a normal one.
	if o.Creatinine72h != nil && o.Creatinine72h.Normalize().Molar > creatinineCutoffUmolL {
		p.Creatinine = creatininePoints
	}
	if o.FailureToThrive {
		p.FailureToThrive = failureToThrivePoints
	}
	if o.HighGradeVUR {
		p.HighGradeVUR = vurPoints
	}
	if o.RenalDysplasia {
		p.RenalDysplasia = dysplasiaPoints
	}

	return p
}

// PresentationScore returns the PURK score, an integer in [0, 6].
func PresentationScore(o Observations) int {
	return PresentationPoints(o).Total()
}

// PresentationGroup maps a PURK score to its risk group.
func PresentationGroup(score int) Group {
	switch {
	case score >= presentationHighMin:
		return High
	case score >= presentationIntermediateMin:
		return Intermediate
	default:
		return Low
	}
}
