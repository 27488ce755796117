package ui

import (
	"strings"

	"github.com/idilsaglam/tada/internal/model"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Success, Error, Pending string
	Low, Medium, High                             string
	BoxUnchecked, BoxChecked                      string
	CornerTL, CornerTR, CornerBL, CornerBR        string
	H, V                                          string
	SymDone, SymUnchecked                         string
}

var current = classic()

func classic() Theme {
	return Theme{
		Title: bold, Muted: fgGray, Accent: fgBlue,
		Success: fgGreen, Error: fgRed, Pending: fgYellow,
		Low: fgGray, Medium: fgYellow, High: fgRed,
		BoxUnchecked: "☐", BoxChecked: "☑",
		CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
		H: "─", V: "│",
		SymDone: "✔", SymUnchecked: "•",
	}
}

func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Title: "\033[95m", // bright magenta
			Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Error: fgRed, Pending: "\033[93m",
			Low: "\033[96m", Medium: "\033[93m", High: fgMagenta,
			BoxUnchecked: "◻", BoxChecked: "◼",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
			SymDone: "✔", SymUnchecked: "•",
		}
	case "mono":
		current = Theme{
			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			SymDone: "x", SymUnchecked: "-",
		}
	default: // classic
		current = classic()
	}
}

// Expose what renderers need
func Current() Theme { return current }

// PriorityColor picks the palette entry for p.
func (t Theme) PriorityColor(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return t.High
	case model.PriorityMedium:
		return t.Medium
	default:
		return t.Low
	}
}

// PriorityBadge renders a fixed-width tag such as "[high]  ".
func PriorityBadge(p model.Priority) string {
	tag := "[" + string(p) + "]"
	if pad := len("[medium]") - len(tag); pad > 0 {
		tag += strings.Repeat(" ", pad)
	}
	return C(current.PriorityColor(p), tag)
}
