package models

// GradeThreshold maps an inclusive numeric range to a letter grade.
type GradeThreshold struct {
	ID       string  `db:"id" json:"id"`
	ScaleID  string  `db:"scale_id" json:"scale_id"`
	Grade    string  `db:"grade" json:"grade"`
	MinScore float64 `db:"min_score" json:"min_score"`
	MaxScore float64 `db:"max_score" json:"max_score"`
}

// GradingScale is an ordered set of thresholds for one course. Thresholds are
// kept sorted by descending MinScore.
type GradingScale struct {
	ID         string           `db:"id" json:"id"`
	CourseID   string           `db:"course_id" json:"course_id"`
	Name       string           `db:"name" json:"name"`
	Thresholds []GradeThreshold `json:"thresholds"`
}

// Resolve returns the first threshold whose inclusive [min,max] range
// contains the grade, or nil when the scale has a gap or no thresholds.
func (s *GradingScale) Resolve(grade float64) *GradeThreshold {
	if s == nil {
		return nil
	}
	for i := range s.Thresholds {
		t := &s.Thresholds[i]
		if grade >= t.MinScore && grade <= t.MaxScore {
			return t
		}
	}
	return nil
}
