package risk

import "log/slog"

// Input is everything needed for a full PURK+ evaluation.
type Input struct {
	Observations `yaml:",inline"`

	// Nadir is the lowest creatinine recorded during the first year of life.
	Nadir *Reading `json:"nadir,omitempty" yaml:"nadir,omitempty"`
}

// Assessment is the result of Evaluate, including intermediate values.
type Assessment struct {
	Points       Points `json:"points" yaml:"points"`
	Score        int    `json:"score" yaml:"score"`
	Presentation Group  `json:"purk" yaml:"purk"`
	FollowUp     Group  `json:"scn1" yaml:"scn1"`
	Combined     Group  `json:"purk_plus" yaml:"purkPlus"`

	// Normalized readings, nil when absent or not finite.
	Creatinine72h *Concentration `json:"creatinine_72h,omitempty" yaml:"creatinine72h,omitempty"`
	Nadir         *Concentration `json:"nadir,omitempty" yaml:"nadir,omitempty"`
}

// Evaluate runs the whole pipeline on in.
func Evaluate(in Input) Assessment {
	points := PresentationPoints(in.Observations)
	score := points.Total()
	purk := PresentationGroup(score)
	scn1 := FollowUpGroup(in.Nadir)

	a := Assessment{
		Points:        points,
		Score:         score,
		Presentation:  purk,
		FollowUp:      scn1,
		Combined:      Combine(purk, scn1),
		Creatinine72h: normalized(in.Creatinine72h),
		Nadir:         normalized(in.Nadir),
	}

	slog.Debug("evaluated",
		"score", a.Score,
		"purk", a.Presentation,
		"scn1", a.FollowUp,
		"purk_plus", a.Combined,
	)
	return a
}

func normalized(r *Reading) *Concentration {
	if r == nil {
		return nil
	}
	c := r.Normalize()
	if !c.Finite() {
		return nil
	}
	return &c
}
