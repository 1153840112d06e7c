package markup

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// palette maps color codes to the host's RGB values.
var palette = map[rune]lipgloss.Color{
	'0': "#000000", '1': "#0000AA", '2': "#00AA00", '3': "#00AAAA",
	'4': "#AA0000", '5': "#AA00AA", '6': "#FFAA00", '7': "#AAAAAA",
	'8': "#555555", '9': "#5555FF", 'a': "#55FF55", 'b': "#55FFFF",
	'c': "#FF5555", 'd': "#FF55FF", 'e': "#FFFF55", 'f': "#FFFFFF",
}

// Renderer turns translated text into terminal output.
type Renderer struct {
	r *lipgloss.Renderer
}

// NewRenderer wraps a lipgloss renderer; nil means the default stdout renderer.
func NewRenderer(r *lipgloss.Renderer) *Renderer {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &Renderer{r: r}
}

// Render converts escape codes into terminal styles. Color codes reset
// formatting, "r" resets everything, "k" (obfuscated) is ignored.
func (rd *Renderer) Render(s string) string {
	var (
		out   strings.Builder
		seg   strings.Builder
		style = rd.r.NewStyle()
	)
	flush := func() {
		if seg.Len() == 0 {
			return
		}
		// Render line by line so lipgloss does not pad lines to a common width.
		lines := strings.Split(seg.String(), "\n")
		for i, ln := range lines {
			if i > 0 {
				out.WriteByte('\n')
			}
			if ln != "" {
				out.WriteString(style.Render(ln))
			}
		}
		seg.Reset()
	}

	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		if rs[i] != Escape || i+1 >= len(rs) || !IsCode(rs[i+1]) {
			seg.WriteRune(rs[i])
			continue
		}
		flush()
		code := toLower(rs[i+1])
		i++
		if c, ok := palette[code]; ok {
			style = rd.r.NewStyle().Foreground(c)
			continue
		}
		switch code {
		case 'l':
			style = style.Bold(true)
		case 'm':
			style = style.Strikethrough(true)
		case 'n':
			style = style.Underline(true)
		case 'o':
			style = style.Italic(true)
		case 'r':
			style = rd.r.NewStyle()
		}
	}
	flush()
	return out.String()
}
