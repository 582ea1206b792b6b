package deliver

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"jobscout-engine/internal/pipeline"
)

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>JobScout report {{.Generated}}</title>
<style>
body { font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; background: #1a1a1a; color: #e0e0e0; padding: 20px; }
.container { max-width: 960px; margin: 0 auto; }
h1 { color: #00d4aa; }
.summary { background: #2a2a2a; padding: 16px; border-radius: 8px; margin-bottom: 24px; }
.job { background: #2a2a2a; border-left: 4px solid #00d4aa; margin: 16px 0; padding: 16px; border-radius: 8px; }
.title { color: #00d4aa; font-size: 1.3em; font-weight: bold; }
.meta { color: #888; margin: 8px 0; }
.score { background: #00d4aa; color: #1a1a1a; padding: 2px 8px; border-radius: 4px; font-weight: bold; }
.dryrun { background: #ff6b35; color: white; padding: 8px; border-radius: 4px; text-align: center; }
a { color: #00d4aa; }
</style>
</head>
<body>
<div class="container">
<h1>JobScout report</h1>
{{if .DryRun}}<div class="dryrun">DRY RUN - preview only</div>{{end}}
<div class="summary">
<p><strong>Generated:</strong> {{.Generated}}</p>
<p><strong>Scraped:</strong> {{.Summary.TotalScraped}} | <strong>Qualified:</strong> {{.Summary.Qualified}} | <strong>New:</strong> {{.Summary.New}}</p>
</div>
{{range .Jobs}}
<div class="job">
<div class="title">{{.Title}}</div>
<div class="meta">{{.Company}} | {{.Location}} | {{.Source}} | <span class="score">{{.Score}}</span></div>
<div><a href="{{.URL}}">View job</a></div>
</div>
{{end}}
</div>
</body>
</html>
`))

// WriteHTMLReport renders the run into a timestamped report file in dir
// and returns the path.
func WriteHTMLReport(dir string, out pipeline.Outcome) (string, error) {
	name := fmt.Sprintf("job_report_%s.html", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data := struct {
		Generated string
		DryRun    bool
		Summary   pipeline.Summary
		Jobs      any
	}{
		Generated: time.Now().Format("January 2, 2006 at 3:04 PM"),
		DryRun:    out.Summary.DryRun,
		Summary:   out.Summary,
		Jobs:      out.Jobs,
	}

	if err := reportTmpl.Execute(f, data); err != nil {
		return "", err
	}
	return path, nil
}
