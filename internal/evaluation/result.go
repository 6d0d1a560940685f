// Package evaluation holds the portfolio evaluation contract returned by the
// model: grade, overall score, the six metric dimensions and recommendations.
package evaluation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Grade is a letter band for the overall score. S is best.
type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Grades lists every grade from best to worst.
var Grades = []Grade{GradeS, GradeA, GradeB, GradeC, GradeD, GradeF}

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Metric names one of the six scoring dimensions.
type Metric string

const (
	MetricDocumentation Metric = "documentation"
	MetricActivity      Metric = "activity"
	MetricOrganization  Metric = "organization"
	MetricEngagement    Metric = "engagement"
	MetricDepth         Metric = "depth"
	MetricImpact        Metric = "impact"
)

// AllMetrics lists the canonical dimensions in display order.
var AllMetrics = []Metric{
	MetricDocumentation,
	MetricActivity,
	MetricOrganization,
	MetricEngagement,
	MetricDepth,
	MetricImpact,
}

// IsMetric reports whether name is one of the six canonical dimensions.
func IsMetric(name string) bool {
	for _, m := range AllMetrics {
		if string(m) == name {
			return true
		}
	}
	return false
}

type Metrics struct {
	Documentation int `json:"documentation" validate:"min=0,max=100"`
	Activity      int `json:"activity" validate:"min=0,max=100"`
	Organization  int `json:"organization" validate:"min=0,max=100"`
	Engagement    int `json:"engagement" validate:"min=0,max=100"`
	Depth         int `json:"depth" validate:"min=0,max=100"`
	Impact        int `json:"impact" validate:"min=0,max=100"`
}

// Get returns the score for metric.
func (m Metrics) Get(metric Metric) (int, bool) {
	switch metric {
	case MetricDocumentation:
		return m.Documentation, true
	case MetricActivity:
		return m.Activity, true
	case MetricOrganization:
		return m.Organization, true
	case MetricEngagement:
		return m.Engagement, true
	case MetricDepth:
		return m.Depth, true
	case MetricImpact:
		return m.Impact, true
	default:
		return 0, false
	}
}

type CategoryImpact struct {
	Category Metric `json:"category" validate:"required,metric"`
	Gain     int    `json:"gain"`
}

type Recommendation struct {
	Category        string           `json:"category"`
	Title           string           `json:"title"`
	Action          string           `json:"action"`
	Priority        Priority         `json:"priority" validate:"required,oneof=High Medium Low"`
	OverallGain     int              `json:"overallGain"`
	CategoryImpacts []CategoryImpact `json:"categoryImpacts" validate:"dive"`
}

// Result is the structured evaluation of one profile.
type Result struct {
	Grade           Grade            `json:"grade" validate:"required,oneof=S A B C D F"`
	OverallScore    int              `json:"overallScore" validate:"min=0,max=100"`
	Metrics         Metrics          `json:"metrics"`
	Summary         string           `json:"summary"`
	Strengths       []string         `json:"strengths"`
	Weaknesses      []string         `json:"weaknesses"`
	Recommendations []Recommendation `json:"recommendations" validate:"dive"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("metric", func(fl validator.FieldLevel) bool {
		return IsMetric(fl.Field().String())
	})
	return v
}

// Validate checks the semantic rules of r: grade and priority
// enumerations, score ranges and impact categories.
func (r *Result) Validate() error {
	if r == nil {
		return fmt.Errorf("evaluation result is nil")
	}

	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid evaluation: %s", strings.Join(problems, "; "))
}
