package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spigell/gitrecruiter/internal/evaluation"
	"github.com/spigell/gitrecruiter/internal/github"
	"github.com/spigell/gitrecruiter/internal/session"
)

// Report is the machine-readable form of a finished search.
type Report struct {
	Handle     string                 `json:"handle"`
	Profile    *github.Profile        `json:"profile,omitempty"`
	Evaluation *evaluation.Result     `json:"evaluation,omitempty"`
	Roadmap    []RoadmapItem          `json:"roadmap,omitempty"`
	Languages  []github.LanguageShare `json:"languages,omitempty"`
	TopStarred []github.Repository    `json:"topStarred,omitempty"`
	Error      *ReportError           `json:"error,omitempty"`
}

// RoadmapItem pairs a recommendation with its clamped projections.
type RoadmapItem struct {
	Title            string                  `json:"title"`
	ProjectedOverall int                     `json:"projectedOverall"`
	Projections      []evaluation.Projection `json:"projections"`
}

type ReportError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// NewReport builds the report for snap. Only finished sessions have one.
func NewReport(snap session.Snapshot) (*Report, error) {
	report := &Report{Handle: snap.Handle, Profile: snap.Profile}

	switch snap.Status {
	case session.StatusSuccess:
	case session.StatusError:
		report.Error = reportError(snap.Err)
		return report, nil
	default:
		return nil, fmt.Errorf("%w: session is %s", ErrNothingToRender, snap.Status)
	}

	report.Evaluation = snap.Result
	for _, rec := range snap.Result.Recommendations {
		report.Roadmap = append(report.Roadmap, RoadmapItem{
			Title:            rec.Title,
			ProjectedOverall: snap.Result.ProjectedOverall(rec),
			Projections:      snap.Result.Projections(rec),
		})
	}
	report.Languages = github.LanguageBreakdown(snap.Repositories, topLanguages)
	report.TopStarred = github.TopStarred(snap.Repositories, topStarred)

	return report, nil
}

// JSON writes the report of snap as indented JSON.
func JSON(w io.Writer, snap session.Snapshot) error {
	report, err := NewReport(snap)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
