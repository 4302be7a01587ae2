// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/daily-scholar/pkg/types"
)

// reportTmpl renders the daily digest. Summary and translation fields
// arrive as pre-cleaned HTML fragments, hence the template.HTML casts in
// renderData below.
var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: 'Segoe UI', Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; color: #333; }
h1 { color: #2c3e50; border-bottom: 3px solid #3498db; padding-bottom: 10px; }
.date { color: #7f8c8d; font-size: 14px; margin-bottom: 30px; }
.paper { border: 1px solid #e0e0e0; border-radius: 8px; padding: 20px; margin-bottom: 25px; }
.rank { display: inline-block; background: #3498db; color: #fff; border-radius: 4px; padding: 2px 10px; font-weight: bold; margin-right: 8px; }
.title { font-size: 18px; font-weight: bold; color: #2c3e50; }
.title a { color: inherit; text-decoration: none; }
.meta { color: #7f8c8d; font-size: 13px; margin: 8px 0; }
.tags { margin: 10px 0; }
.tag { display: inline-block; background: #ecf0f1; color: #2c3e50; border-radius: 12px; padding: 3px 12px; font-size: 12px; margin: 0 6px 6px 0; }
.summary { margin: 12px 0; line-height: 1.6; }
.summary h2 { font-size: 15px; color: #2c3e50; margin: 12px 0 6px; }
.summary h3 { font-size: 14px; color: #34495e; margin: 10px 0 4px; }
.translation { background: #f8f9fa; border-left: 4px solid #3498db; padding: 12px 16px; margin: 12px 0; line-height: 1.7; font-size: 14px; }
.footer { color: #95a5a6; font-size: 12px; margin-top: 30px; border-top: 1px solid #e0e0e0; padding-top: 12px; }
</style>
</head>
<body>
<h1>Daily AI Paper Digest</h1>
<div class="date">{{.Date}} · {{len .Papers}} papers</div>
{{range .Papers}}<div class="paper">
<div class="title"><span class="rank">#{{.Rank}}</span><a href="{{.SourceURL}}">{{.Title}}</a></div>
<div class="meta">{{.Classification}} · submitted {{.Submitted}} · score {{printf "%.2f" .Score}}</div>
<div class="tags">{{range .Tags}}<span class="tag">{{.}}</span>{{end}}</div>
<div class="summary">{{.Summary}}</div>
<div class="translation">{{.Translation}}</div>
</div>
{{end}}<div class="footer">Generated {{.Generated}} UTC</div>
</body>
</html>
`))

type renderPaper struct {
	Rank           int
	Title          string
	SourceURL      string
	Classification string
	Tags           []string
	Submitted      string
	Score          float64
	Summary        template.HTML
	Translation    template.HTML
}

type renderData struct {
	Date      string
	Generated string
	Papers    []renderPaper
}

// RenderHTML produces the digest body for the target day.
func RenderHTML(target time.Time, now time.Time, results []types.AnalysisResult) (string, error) {
	data := renderData{
		Date:      target.UTC().Format("2006-01-02"),
		Generated: now.UTC().Format("2006-01-02 15:04:05"),
	}
	for i, r := range results {
		data.Papers = append(data.Papers, renderPaper{
			Rank:           i + 1,
			Title:          r.Title,
			SourceURL:      r.SourceURL,
			Classification: r.Classification,
			Tags:           r.Tags,
			Submitted:      r.SubmittedAt.UTC().Format("2006-01-02"),
			Score:          r.Score,
			Summary:        template.HTML(r.Summary),
			Translation:    template.HTML(r.Translation),
		})
	}

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return buf.String(), nil
}

// WriteHTMLReport renders the digest and stores a timestamped copy under
// reports/. Returns the rendered body and the path written.
func (a *Assembler) WriteHTMLReport(target time.Time, now time.Time, results []types.AnalysisResult) (body string, path string, err error) {
	body, err = RenderHTML(target, now, results)
	if err != nil {
		return "", "", err
	}

	path = filepath.Join(a.dataDir, "reports", fmt.Sprintf("report_%s.html", now.UTC().Format("20060102_150405")))
	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*.tmp")
	if err != nil {
		return "", "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(body); err != nil {
		tmp.Close()
		return "", "", fmt.Errorf("writing report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", "", fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", "", fmt.Errorf("renaming report into place: %w", err)
	}
	return body, path, nil
}
