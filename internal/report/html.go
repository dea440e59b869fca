package report

import (
	_ "embed"
	"fmt"
	"html/template"
	"os"

	"github.com/desertwitch/offload/internal/schema"
	"github.com/dustin/go-humanize"
)

//go:embed report.html.tmpl
var htmlTemplate string

//nolint:gochecknoglobals
var reportTemplate = template.Must(template.New("report").Parse(htmlTemplate))

type htmlGroup struct {
	Status schema.Status
	Class  string
	Rows   []Row
}

type htmlData struct {
	Run         Run
	Summary     Summary
	Date        string
	Finished    string
	Transferred string
	Header      []string
	Groups      []htmlGroup
}

func statusClass(s schema.Status) string {
	switch s {
	case schema.StatusSuccessful:
		return "text-success"
	case schema.StatusSkipped:
		return "text-info"
	case schema.StatusFailed:
		return "text-failed"
	case schema.StatusNotStarted:
		return "text-muted"
	default:
		return ""
	}
}

// groupRows groups rows by status in [schema.Statuses] order, keeping the
// processing order within each group. Empty groups are left out.
func groupRows(rows []Row) []htmlGroup {
	groups := make([]htmlGroup, 0, len(schema.Statuses))

	for _, status := range schema.Statuses {
		g := htmlGroup{Status: status, Class: statusClass(status)}
		for _, r := range rows {
			if r.Status == status {
				g.Rows = append(g.Rows, r)
			}
		}
		if len(g.Rows) > 0 {
			groups = append(groups, g)
		}
	}

	return groups
}

func writeHTML(path string, run Run, summary Summary, rows []Row) error {
	data := htmlData{
		Run:         run,
		Summary:     summary,
		Date:        run.Started.Format("2006-01-02 15:04"),
		Finished:    summary.Finished.Format("2006-01-02 15:04"),
		Transferred: humanize.Bytes(uint64(max(summary.BytesTransferred, 0))), //nolint:gosec
		Header:      Header,
		Groups:      groupRows(rows),
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("(report-html) failed to create: %w", err)
	}

	if err := reportTemplate.Execute(f, data); err != nil {
		f.Close()

		return fmt.Errorf("(report-html) failed to render: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("(report-html) failed to close: %w", err)
	}

	return nil
}
