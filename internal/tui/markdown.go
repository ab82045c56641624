package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Renderers are cached by style and wrap width. WithAutoStyle is avoided because
	// its terminal queries can block.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	style := markdownStyle()
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	r := mdRenderers[key]
	if r == nil {
		cfg := markdownStyleConfig(style)
		zero := uint(0)
		cfg.Document.Margin = &zero
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(cfg),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			mdRendererMu.Unlock()
			return md
		}
		mdRenderers[key] = rr
		r = rr
	}
	mdRendererMu.Unlock()

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func markdownStyle() string {
	if v := themeOverride(); v != "" {
		return v
	}
	if bg, ok := colorFGBGBackground(); ok {
		if bg >= 7 {
			return "light"
		}
		return "dark"
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func markdownStyleConfig(style string) ansi.StyleConfig {
	var cfg ansi.StyleConfig
	if style == "light" {
		cfg = styles.LightStyleConfig
	} else {
		cfg = styles.DarkStyleConfig
	}

	pick := func(c lipgloss.AdaptiveColor) *string {
		s := c.Dark
		if style == "light" {
			s = c.Light
		}
		return &s
	}
	yes := true
	no := false

	// Headings and text follow the board's surface color; links use the accent.
	cfg.Text.Color = pick(colorSurfaceFg)
	cfg.Heading.Color = pick(colorSurfaceFg)
	cfg.H1.Color = pick(colorSurfaceFg)
	cfg.H2.Color = pick(colorSurfaceFg)
	cfg.H3.Color = pick(colorSurfaceFg)
	cfg.Link.Color = pick(colorAccent)
	cfg.Link.Underline = &yes
	cfg.LinkText.Color = pick(colorAccent)
	cfg.Code.Color = pick(colorSurfaceFg)
	cfg.Strong.Color = nil
	cfg.Emph.Color = nil
	cfg.BlockQuote.Faint = &no
	return cfg
}
