package export

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// ProofPacketHTML renders a single self-contained document meant for
// printing or sharing as evidence, never for machine parsing. Missing data
// degrades to placeholder sections.
func ProofPacketHTML(packet WeekPacket) string {
	var buf bytes.Buffer
	if err := proofTemplate.Execute(&buf, packet); err != nil {
		return "<!doctype html><html><body><p>proof packet unavailable</p></body></html>"
	}
	return buf.String()
}

var proofTemplate = template.Must(template.New("proof").Funcs(template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("$%.2f", v) },
	"hours": func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"signed": func(v float64) string {
		return fmt.Sprintf("%+.1f", v)
	},
	"datetime": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
	"ref":      func(kind string) string { return refLabel(kind) },
	"orDash": func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	},
}).Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Flat-Rate Proof Packet</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, Segoe UI, Roboto, Helvetica, Arial, sans-serif; margin: 18px; color: #111; }
    .card { border: 1px solid #e5e5e5; border-radius: 14px; padding: 14px; margin-bottom: 14px; }
    h1 { margin: 0 0 10px 0; font-size: 20px; }
    h2 { margin: 0 0 10px 0; font-size: 16px; }
    .grid { display: grid; grid-template-columns: 1fr 1fr; gap: 10px; }
    .k { color: #666; font-size: 12px; margin-bottom: 4px; }
    .v { font-size: 14px; font-weight: 600; }
    table { width: 100%; border-collapse: collapse; font-size: 12px; }
    th, td { border-bottom: 1px solid #eee; padding: 8px; vertical-align: top; }
    th { text-align: left; background: #fafafa; }
    .num { text-align: right; }
    .mono { font-family: ui-monospace, SFMono-Regular, Menlo, Monaco, Consolas, monospace; }
    img.proof { width: 100%; max-height: 520px; object-fit: contain; border: 1px solid #ddd; border-radius: 12px; }
    .muted { color: #666; }
    @media print { .card { break-inside: avoid; } }
  </style>
</head>
<body>
  <h1>Flat-Rate Proof Packet</h1>
  <div class="card">
    <div class="grid">
      <div><div class="k">Week</div><div class="v mono">{{.WeekStart}} &rarr; {{.WeekEnd}}</div></div>
      <div><div class="k">Generated</div><div class="v mono">{{datetime .GeneratedAt}}</div></div>
      <div><div class="k">Logged Hours</div><div class="v">{{hours .Totals.Hours}}</div></div>
      <div><div class="k">Logged $</div><div class="v">{{money .Totals.Dollars}}</div></div>
      <div><div class="k">Entries</div><div class="v">{{.Totals.Count}}</div></div>
      <div><div class="k">Payroll Flagged Hours</div><div class="v">{{hours .FlaggedHours}}</div></div>
      <div><div class="k">Difference (Flagged - Logged)</div><div class="v">{{signed .Delta}}</div></div>
    </div>
  </div>

  <div class="card">
    <h2>Payroll Sheet Photo</h2>
    {{if .PhotoSrc}}<img class="proof" src="{{.PhotoSrc}}" alt="payroll sheet" />{{else}}<div class="muted">No payroll photo saved for this week.</div>{{end}}
  </div>

  <div class="card">
    <h2>Entries</h2>
    <table>
      <thead>
        <tr>
          <th>Date</th><th>Time</th><th>Ref</th><th>VIN8</th><th>Type</th>
          <th class="num">Hours</th><th class="num">Rate</th><th class="num">$</th><th>Notes</th>
        </tr>
      </thead>
      <tbody>
        {{range .Entries}}
        <tr>
          <td>{{.DayKey}}</td>
          <td>{{datetime .CreatedAt}}</td>
          <td>{{ref .RefKind}}: {{.RefValue}}</td>
          <td>{{orDash .VIN8}}</td>
          <td>{{.WorkType}}</td>
          <td class="num">{{hours .Hours}}</td>
          <td class="num">{{money .Rate}}</td>
          <td class="num">{{money .Earnings}}</td>
          <td>{{.Notes}}</td>
        </tr>
        {{else}}
        <tr><td colspan="9" class="muted">No entries for this week.</td></tr>
        {{end}}
      </tbody>
    </table>
  </div>
</body>
</html>
`))
