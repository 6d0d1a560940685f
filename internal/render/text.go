// Package render prints an evaluated session for the terminal or as JSON.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spigell/gitrecruiter/internal/evaluation"
	"github.com/spigell/gitrecruiter/internal/github"
	"github.com/spigell/gitrecruiter/internal/session"
)

const (
	topLanguages = 6
	topStarred   = 5
	barWidth     = 20
)

var (
	heading = color.New(color.FgCyan, color.Bold)
	accent  = color.New(color.FgMagenta, color.Bold)
	good    = color.New(color.FgGreen)
	bad     = color.New(color.FgRed)
	dim     = color.New(color.FgHiBlack)
)

// ErrNothingToRender is returned for sessions that hold neither a result nor an error.
var ErrNothingToRender = errors.New("nothing to render")

// Text writes a human-readable report of snap to w.
func Text(w io.Writer, snap session.Snapshot) error {
	switch snap.Status {
	case session.StatusError:
		_, err := bad.Fprintf(w, "%s\n", snap.Err)
		return err
	case session.StatusSuccess:
	default:
		return fmt.Errorf("%w: session is %s", ErrNothingToRender, snap.Status)
	}

	p := &printer{w: w}
	p.profile(snap.Profile)
	p.score(snap.Result)
	p.roadmap(snap.Result)
	p.overview(snap.Repositories)
	return p.err
}

// printer remembers the first write error so sections can be written without
// checking after every line.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) section(name string) {
	if p.err != nil {
		return
	}
	_, p.err = heading.Fprintf(p.w, "\n%s\n", strings.ToUpper(name))
}

func (p *printer) table(rows [][]string) {
	if p.err != nil {
		return
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		if _, p.err = fmt.Fprintln(tw, strings.Join(row, "\t")); p.err != nil {
			return
		}
	}
	p.err = tw.Flush()
}

func (p *printer) profile(profile *github.Profile) {
	if profile == nil {
		return
	}

	p.section("Profile")
	p.printf("%s (@%s)\n", accent.Sprint(profile.DisplayName()), profile.Login)
	if profile.Bio != "" {
		p.printf("%s\n", profile.Bio)
	}
	p.printf("%s  |  %s followers  |  %s following  |  %s public repos\n",
		profile.DisplayLocation(),
		CompactNumber(profile.Followers),
		CompactNumber(profile.Following),
		CompactNumber(profile.PublicRepos),
	)
	if !profile.CreatedAt.IsZero() {
		p.printf("%s\n", dim.Sprintf("member since %s", profile.CreatedAt.Format("Jan 2006")))
	}
	if profile.HTMLURL != "" {
		p.printf("%s\n", dim.Sprint(profile.HTMLURL))
	}
}

func (p *printer) score(result *evaluation.Result) {
	p.section("Hireability")
	p.printf("Grade %s  Overall %d/100\n", accent.Sprint(result.Grade), result.OverallScore)
	if result.Summary != "" {
		p.printf("%s\n", result.Summary)
	}

	rows := make([][]string, 0, len(evaluation.AllMetrics))
	for _, m := range evaluation.AllMetrics {
		score, _ := result.Metrics.Get(m)
		rows = append(rows, []string{MetricLabel(m), fmt.Sprintf("%3d", score), bar(score)})
	}
	p.printf("\n")
	p.table(rows)

	p.list("Strengths", "+", good, result.Strengths)
	p.list("Weaknesses", "-", bad, result.Weaknesses)
}

func (p *printer) list(name, marker string, c *color.Color, items []string) {
	if len(items) == 0 {
		return
	}
	p.section(name)
	for _, item := range items {
		p.printf("%s %s\n", c.Sprint(marker), item)
	}
}

func (p *printer) roadmap(result *evaluation.Result) {
	if len(result.Recommendations) == 0 {
		return
	}

	p.section("Roadmap")
	for i, rec := range result.Recommendations {
		p.printf("\n%d. %s [%s] %s\n", i+1, accent.Sprint(rec.Title), rec.Priority, dim.Sprint(rec.Category))
		p.printf("   %s\n", rec.Action)
		p.printf("   overall %d -> %d (%s)\n",
			result.OverallScore, result.ProjectedOverall(rec), signed(rec.OverallGain))

		projections := result.Projections(rec)
		if len(projections) == 0 {
			continue
		}

		rows := make([][]string, 0, len(projections))
		for _, proj := range projections {
			rows = append(rows, []string{
				"  ",
				MetricLabel(proj.Metric),
				fmt.Sprintf("%d -> %d", proj.Current, proj.Target),
				good.Sprint(signed(proj.Gain)),
			})
		}
		p.table(rows)
	}
}

func (p *printer) overview(repos []github.Repository) {
	if len(repos) == 0 {
		return
	}

	p.section("Portfolio")

	if langs := github.LanguageBreakdown(repos, topLanguages); len(langs) > 0 {
		parts := make([]string, 0, len(langs))
		for _, l := range langs {
			parts = append(parts, fmt.Sprintf("%s (%d)", l.Language, l.Count))
		}
		p.printf("Languages: %s\n", strings.Join(parts, ", "))
	}

	top := github.TopStarred(repos, topStarred)
	rows := make([][]string, 0, len(top))
	for _, r := range top {
		lang := r.Language
		if lang == "" {
			lang = "-"
		}
		rows = append(rows, []string{r.Name, lang, CompactNumber(r.Stars) + " stars", CompactNumber(r.Forks) + " forks"})
	}
	p.table(rows)
}

// MetricLabel is the display name of a metric.
func MetricLabel(m evaluation.Metric) string {
	// A Caser is stateful and must not be shared.
	return cases.Title(language.English).String(string(m))
}

func bar(score int) string {
	filled := evaluation.ProjectedScore(score, 0) * barWidth / 100
	return good.Sprint(strings.Repeat("#", filled)) + dim.Sprint(strings.Repeat(".", barWidth-filled))
}

func signed(n int) string {
	if n >= 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}
