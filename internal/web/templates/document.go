// Package templates renders the HTML views served to browsers.
package templates

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/a-h/templ"
)

const pageStyle = `body{font-family:system-ui,sans-serif;margin:2rem;color:#1f2937}` +
	`table{border-collapse:collapse}td,th{border:1px solid #d1d5db;padding:.25rem .5rem;text-align:left}` +
	`th{background:#f3f4f6;color:#6b7280;font-weight:normal}` +
	`.alert{border:1px solid #fca5a5;background:#fef2f2;padding:1rem;border-radius:.25rem}` +
	`.muted{color:#6b7280}`

// DocumentParams is the data behind DocumentPage.
type DocumentParams struct {
	ID        string
	CreatedAt time.Time
	Rows      [][]string
}

// DocumentPage renders a stored document as an HTML table, one row per CSV
// line. Rows may have different widths.
func DocumentPage(p DocumentParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := "Document " + p.ID
		if err := openPage(w, title); err != nil {
			return err
		}

		width := 0
		for _, row := range p.Rows {
			width = max(width, len(row))
		}

		var err error
		write := func(s string) {
			if err == nil {
				_, err = io.WriteString(w, s)
			}
		}

		write(`<h1>` + templ.EscapeString(title) + `</h1>`)
		if !p.CreatedAt.IsZero() {
			write(`<p class="muted">Created ` + templ.EscapeString(p.CreatedAt.UTC().Format(time.RFC3339)) + `</p>`)
		}
		write(fmt.Sprintf(`<p class="muted">%d rows</p>`, len(p.Rows)))

		if len(p.Rows) > 0 {
			write(`<table><thead><tr><th>#</th>`)
			for i := range width {
				write(`<th>` + strconv.Itoa(i+1) + `</th>`)
			}
			write(`</tr></thead><tbody>`)
			for i, row := range p.Rows {
				write(`<tr><th>` + strconv.Itoa(i+1) + `</th>`)
				for _, field := range row {
					write(`<td>` + templ.EscapeString(field) + `</td>`)
				}
				for range width - len(row) {
					write(`<td></td>`)
				}
				write(`</tr>`)
			}
			write(`</tbody></table>`)
		}
		if err != nil {
			return err
		}

		return closePage(w)
	})
}

// ErrorPage renders a user-facing error with its support code.
func ErrorPage(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := openPage(w, "Error"); err != nil {
			return err
		}
		body := `<div class="alert" role="alert"><strong>` + templ.EscapeString(message) + `</strong>`
		if action != "" {
			body += `<p>` + templ.EscapeString(action) + `</p>`
		}
		body += `<p class="muted">Code: ` + templ.EscapeString(code) + `</p></div>`
		if _, err := io.WriteString(w, body); err != nil {
			return err
		}
		return closePage(w)
	})
}

func openPage(w io.Writer, title string) error {
	_, err := io.WriteString(w, `<!doctype html><html lang="en"><head><meta charset="utf-8">`+
		`<title>`+templ.EscapeString(title)+`</title><style>`+pageStyle+`</style></head><body>`)
	return err
}

func closePage(w io.Writer) error {
	_, err := io.WriteString(w, `</body></html>`)
	return err
}
