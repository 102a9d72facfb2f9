package output

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/helixlab/pkg/core"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SequenceLineWidth is how many symbols a rendered sequence line holds.
const SequenceLineWidth = 60

// FormatHeader returns a Markdown header.
func FormatHeader(level int, text string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue returns a Markdown list item for a key/value pair.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s:** %s", key, value)
}

// FormatCodeBlock wraps content in a fenced code block.
func FormatCodeBlock(lang, content string) string {
	return "```" + lang + "\n" + strings.TrimRight(content, "\n") + "\n```"
}

// Title converts a snake_case or lower-case label to Title Case.
func Title(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}

// Table prints rows under headers: a light box table in text mode and a
// Markdown table otherwise.
func (r *Renderer) Table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		r.Muted("(0 rows)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	t.AppendHeader(header)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, v := range row {
			tr[i] = v
		}
		t.AppendRow(tr)
	}

	if r.EffectiveMode() == ModeText {
		t.SetStyle(table.StyleLight)
		t.Render()
		return
	}
	t.RenderMarkdown()
}

// KeyValue prints a labeled value in the effective mode.
func (r *Renderer) KeyValue(key, value string) {
	if r.EffectiveMode() == ModeText {
		r.Printf("  %s %s\n", r.styles.Muted.Render(key+":"), value)
		return
	}
	r.Println(FormatKeyValue(key, value))
}

// Sequence prints symbols wrapped at SequenceLineWidth with a 0-based
// position column. In text mode symbols are colored and edited positions
// highlighted; otherwise the sequence is a plain code block.
func (r *Renderer) Sequence(symbols []core.Symbol, edited []bool) {
	text := r.EffectiveMode() == ModeText
	var b strings.Builder
	for start := 0; start < len(symbols); start += SequenceLineWidth {
		end := min(start+SequenceLineWidth, len(symbols))
		fmt.Fprintf(&b, "%6d  ", start)
		for i := start; i < end; i++ {
			if text {
				b.WriteString(r.styles.Symbol(symbols[i], i < len(edited) && edited[i]))
			} else {
				b.WriteString(symbols[i].String())
			}
		}
		b.WriteByte('\n')
	}
	if len(symbols) == 0 {
		b.WriteString("(empty)\n")
	}

	if text {
		r.Printf("%s", b.String())
		return
	}
	r.Println(FormatCodeBlock("", b.String()))
}
