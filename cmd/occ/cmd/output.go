package cmd

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/corey/occ/internal/adapters/socket"
	"github.com/corey/occ/internal/domain/convert"
)

// ANSI color codes for terminal output.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorGray    = "\033[90m"
)

// colors is a set of escape codes, empty when output is not a terminal.
type colors struct {
	reset, bold, cyan, magenta, green, yellow, gray string
}

func palette(enabled bool) colors {
	if !enabled {
		return colors{}
	}
	return colors{
		reset:   colorReset,
		bold:    colorBold,
		cyan:    colorCyan,
		magenta: colorMagenta,
		green:   colorGreen,
		yellow:  colorYellow,
		gray:    colorGray,
	}
}

// formatConversions lists every conversion with its stages.
//
//	⚡ 14 conversions
//	  s2t     Simplified Chinese to Traditional Chinese
//	          st-phrases-characters
func formatConversions(color bool) string {
	c := palette(color)
	convs := convert.Conversions()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s⚡ %d conversions%s\n", c.bold, len(convs), c.reset)
	for _, conv := range convs {
		fmt.Fprintf(&sb, "  %s%-6s%s  %s\n", c.cyan, conv, c.reset, conv.Description())
		stages := make([]string, 0, len(conv.Stages()))
		for _, s := range conv.Stages() {
			stages = append(stages, s.String())
		}
		fmt.Fprintf(&sb, "          %s%s%s\n", c.gray, strings.Join(stages, " → "), c.reset)
	}
	return sb.String()
}

// formatScan renders a stage-by-stage trace.
//
//	⚡ s2tw │ 3 substitutions │ Xms
//	  st-phrases-characters
//	    [2-4] 里面 → 裏面
//	  terms: 汉 里面
//	  → 漢語裡面
func formatScan(res *socket.ScanResult, color bool) string {
	c := palette(color)
	total := 0
	for _, st := range res.Stages {
		total += len(st.Hits)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s⚡ %s%s │ %d substitutions", c.bold, res.Conversion, c.reset, total)
	if res.Elapsed != "" {
		fmt.Fprintf(&sb, " │ %s", res.Elapsed)
	}
	sb.WriteString("\n")
	for _, st := range res.Stages {
		fmt.Fprintf(&sb, "  %s%s%s\n", c.magenta, st.Stage, c.reset)
		width := 0
		for _, h := range st.Hits {
			width = max(width, uniseg.StringWidth(h.Source))
		}
		for _, h := range st.Hits {
			pad := strings.Repeat(" ", width-uniseg.StringWidth(h.Source))
			fmt.Fprintf(&sb, "    %s[%d-%d]%s %s%s → %s%s%s\n",
				c.gray, h.Start, h.End, c.reset, h.Source, pad, c.green, h.Target, c.reset)
		}
	}
	if len(res.Terms) > 0 {
		fmt.Fprintf(&sb, "  terms: %s%s%s\n", c.yellow, strings.Join(res.Terms, " "), c.reset)
	}
	fmt.Fprintf(&sb, "  → %s\n", res.Output)
	return sb.String()
}

// formatDictionaries renders the dictionary table.
func formatDictionaries(res *socket.DictionariesResult, color bool) string {
	c := palette(color)
	loaded := 0
	for _, d := range res.Dictionaries {
		if d.Loaded {
			loaded++
		}
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s⚡ %d/%d dictionaries loaded%s\n", c.bold, loaded, res.Count, c.reset)
	for _, d := range res.Dictionaries {
		if !d.Loaded {
			fmt.Fprintf(&sb, "  %s%-22s  -%s\n", c.gray, d.Name, c.reset)
			continue
		}
		fmt.Fprintf(&sb, "  %s%-22s%s  %7d", c.cyan, d.Name, c.reset, d.Pairs)
		if d.Source != "" {
			fmt.Fprintf(&sb, "  %s%s%s", c.gray, d.Source, c.reset)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatReload summarizes an import or reload.
func formatReload(res *socket.ReloadResult, color bool) string {
	c := palette(color)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s⚡ %d dictionaries, %d pairs%s │ %dms\n",
		c.bold, len(res.Reloaded), res.Pairs, c.reset, res.ElapsedMs)
	for _, name := range res.Reloaded {
		fmt.Fprintf(&sb, "  %s%s%s\n", c.cyan, name, c.reset)
	}
	return sb.String()
}

// formatHealth formats a HealthResult for terminal display.
func formatHealth(h *socket.HealthResult, color bool) string {
	c := palette(color)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s⚡ occ daemon%s\n", c.bold, c.reset)
	fmt.Fprintf(&sb, "  Status:        %s%s%s\n", c.green, h.Status, c.reset)
	fmt.Fprintf(&sb, "  Dictionaries:  %d\n", h.Dictionaries)
	fmt.Fprintf(&sb, "  Pairs:         %d\n", h.Pairs)
	fmt.Fprintf(&sb, "  Stages built:  %d\n", h.Stages)
	fmt.Fprintf(&sb, "  Uptime:        %s\n", h.Uptime)
	return sb.String()
}
