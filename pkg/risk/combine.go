package risk

// combined is indexed [follow-up][presentation]. The follow-up value
// dominates: a High presentation with a Low nadir is only Intermediate.
var combined = [High + 1][High + 1]Group{
	Low: {
		Low:          Low,
		Intermediate: Low,
		High:         Intermediate,
	},
	Intermediate: {
		Low:          Intermediate,
		Intermediate: Intermediate,
		High:         High,
	},
	High: {
		Low:          High,
		Intermediate: High,
		High:         High,
	},
}

// Combine returns the PURK+ group for a PURK and SCN1 pair. It is Undefined
// until both groups are known.
func Combine(presentation, followUp Group) Group {
	if !presentation.Defined() || !followUp.Defined() {
		return Undefined
	}
	return combined[followUp][presentation]
}

// MatrixCell is one entry of the PURK+ table.
type MatrixCell struct {
	FollowUp     Group `json:"scn1" yaml:"scn1"`
	Presentation Group `json:"purk" yaml:"purk"`
	Combined     Group `json:"purk_plus" yaml:"purkPlus"`
}

// Matrix lists all nine cells, follow-up major, both axes ascending.
func Matrix() []MatrixCell {
	cells := make([]MatrixCell, 0, len(Groups())*len(Groups()))
	for _, f := range Groups() {
		for _, p := range Groups() {
			cells = append(cells, MatrixCell{
				FollowUp:     f,
				Presentation: p,
				Combined:     Combine(p, f),
			})
		}
	}
	return cells
}
