package evaluation

// Projection is the display view of one category impact: where a metric
// stands now and where it would land if the recommendation is followed.
type Projection struct {
	Metric  Metric `json:"metric"`
	Current int    `json:"current"`
	Gain    int    `json:"gain"`
	// Target is Current+Gain clamped to [0,100]. Gain itself is never clamped.
	Target int `json:"target"`
}

// ProjectedScore returns current+gain bounded to the displayable score range.
func ProjectedScore(current, gain int) int {
	target := current + gain
	if target > 100 {
		return 100
	}
	if target < 0 {
		return 0
	}
	return target
}

// Projections resolves every category impact of rec against the current metrics.
func (r *Result) Projections(rec Recommendation) []Projection {
	out := make([]Projection, 0, len(rec.CategoryImpacts))
	for _, impact := range rec.CategoryImpacts {
		current, _ := r.Metrics.Get(impact.Category)
		out = append(out, Projection{
			Metric:  impact.Category,
			Current: current,
			Gain:    impact.Gain,
			Target:  ProjectedScore(current, impact.Gain),
		})
	}
	return out
}

// ProjectedOverall is the overall score after applying rec, clamped the same way.
func (r *Result) ProjectedOverall(rec Recommendation) int {
	return ProjectedScore(r.OverallScore, rec.OverallGain)
}
