// Package box renders calculation results as text tables.
package box

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/machbase/neo-calc/mods/calc"
)

var Formats = []string{"box", "csv", "md", "html", "tsv"}

var Styles = []string{"default", "bold", "double", "light", "round"}

type Encoder struct {
	writer table.Writer
	rownum int64

	Output          io.Writer
	Format          string
	Style           string
	SeparateColumns bool
	DrawBorder      bool
	Colored         bool
	Rownum          bool
	Heading         bool
	Precision       int
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		Output:          w,
		Format:          "box",
		Style:           "default",
		SeparateColumns: true,
		DrawBorder:      true,
		Rownum:          true,
		Heading:         true,
		Precision:       -1,
	}
}

func (ex *Encoder) ContentType() string {
	switch ex.Format {
	case "csv":
		return "text/csv"
	case "md":
		return "text/markdown"
	case "html":
		return "text/html"
	case "tsv":
		return "text/tab-separated-values"
	default:
		return "plain/text"
	}
}

func (ex *Encoder) Open() error {
	if !validFormat(ex.Format) {
		return fmt.Errorf("unknown format %q", ex.Format)
	}
	ex.writer = table.NewWriter()
	ex.writer.SetOutputMirror(ex.Output)

	style := table.StyleDefault
	switch ex.Style {
	case "bold":
		style = table.StyleBold
	case "double":
		style = table.StyleDouble
	case "light":
		style = table.StyleLight
	case "round":
		style = table.StyleRounded
	default:
		style = table.StyleDefault
	}
	if ex.Colored {
		style.Color = table.ColorOptionsBright
	}
	style.Options.SeparateColumns = ex.SeparateColumns
	style.Options.DrawBorder = ex.DrawBorder
	ex.writer.SetStyle(style)

	if ex.Heading {
		header := table.Row{"EXPR", "POSTFIX", "RESULT", "ERROR"}
		if ex.Rownum {
			header = append(table.Row{"ROWNUM"}, header...)
		}
		ex.writer.AppendHeader(header)
	}
	return nil
}

func validFormat(f string) bool {
	for _, s := range Formats {
		if s == f {
			return true
		}
	}
	return false
}

func (ex *Encoder) Close() {
	if ex.writer.Length() > 0 {
		ex.render()
		ex.writer.ResetRows()
	}
}

func (ex *Encoder) render() {
	switch ex.Format {
	case "csv":
		ex.writer.RenderCSV()
	case "md":
		ex.writer.RenderMarkdown()
	case "html":
		ex.writer.RenderHTML()
	case "tsv":
		ex.writer.RenderTSV()
	default:
		ex.writer.Render()
	}
}

func (ex *Encoder) AddResult(r calc.Result) {
	var result, reason string
	if r.Err != nil {
		reason = r.Err.Error()
	} else {
		result = ex.formatValue(r.Value)
	}
	ex.rownum++
	row := table.Row{r.Expr, r.Postfix, result, reason}
	if ex.Rownum {
		row = append(table.Row{ex.rownum}, row...)
	}
	ex.writer.AppendRow(row)
}

func (ex *Encoder) AddResults(results []calc.Result) {
	for _, r := range results {
		ex.AddResult(r)
	}
}

func (ex *Encoder) formatValue(v float64) string {
	if ex.Precision < 0 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', ex.Precision, 64)
}
