package formatter

import (
	"github.com/charmbracelet/lipgloss"
)

// DefaultPalette colors headers and match markers for terminal output.
var DefaultPalette = NewPalette("#7D56F4", "#04B575", "#FF0000", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
//
// The zero value renders plain text.
type Palette struct {
	styled bool
	title  lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	help   lipgloss.Style
}

func NewPalette(t, s, e, h string) *Palette {
	return &Palette{
		styled: true,
		title:  NewBold(t),
		ok:     NewBold(s),
		err:    NewBold(e),
		help:   NewEm(h),
	}
}

// PlainPalette renders every role unstyled.
func PlainPalette() *Palette {
	return &Palette{}
}

// render applies the style picked by pick; a nil or plain palette returns text as is.
func (p *Palette) render(pick func(*Palette) lipgloss.Style, text string) string {
	if p == nil || !p.styled {
		return text
	}
	return pick(p).Render(text)
}

func (p *Palette) Title(text string) string {
	return p.render(func(p *Palette) lipgloss.Style { return p.title }, text)
}

func (p *Palette) OK(text string) string {
	return p.render(func(p *Palette) lipgloss.Style { return p.ok }, text)
}

func (p *Palette) Err(text string) string {
	return p.render(func(p *Palette) lipgloss.Style { return p.err }, text)
}

func (p *Palette) Help(text string) string {
	return p.render(func(p *Palette) lipgloss.Style { return p.help }, text)
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
