package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Format renders a single diagnostic as "file:line:column: Kind: message",
// optionally colorizing the Kind tag. It lives in internal/diag so
// cmd/lumen and the shell can both call it without duplicating the format
// string.
func Format(d *Diagnostic, colorize bool) string {
	kind := d.Kind.String()
	if colorize {
		kind = colorForKind(d.Kind).Sprint(kind)
	}
	return fmt.Sprintf("%s: %s: %s", d.Pos, kind, d.Message)
}

// FormatAll renders a batch of diagnostics, one per line.
func FormatAll(ds []*Diagnostic, colorize bool) string {
	var sb strings.Builder
	for _, d := range ds {
		sb.WriteString(Format(d, colorize))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func colorForKind(k Kind) *color.Color {
	switch k {
	case Syntax:
		return color.New(color.FgYellow, color.Bold)
	case Validation:
		return color.New(color.FgMagenta, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}
