package display

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// ledRamp goes from dim to full brightness.
var ledRamp = []lipgloss.Color{"52", "88", "124", "160", "166", "202", "208", "214", "220"}

var panelStyle = lipgloss.NewStyle().
	Background(lipgloss.Color("232")).
	Padding(0, 1)

// Terminal emulates a one-row LED matrix in the terminal, one column per character.
// Each frame redraws the same line.
type Terminal struct {
	out        io.Writer
	width      int
	buffer     []rune
	offset     int
	brightness float64
}

// NewTerminal creates a Terminal writing frames to out.
func NewTerminal(out io.Writer, width int) *Terminal {
	return &Terminal{out: out, width: width}
}

func (t *Terminal) Clear() {
	t.buffer = nil
	t.offset = 0
}

func (t *Terminal) WriteString(text string, brightness float64) int {
	t.buffer = append(t.buffer, []rune(text)...)
	t.brightness = brightness
	return utf8.RuneCountInString(text)
}

func (t *Terminal) Scroll() {
	if len(t.buffer) == 0 {
		return
	}
	t.offset = (t.offset + 1) % len(t.buffer)
}

func (t *Terminal) Show() error {
	_, err := fmt.Fprint(t.out, "\r"+t.Frame())
	return err
}

// Frame renders the visible window without writing it.
func (t *Terminal) Frame() string {
	window := make([]rune, 0, t.width)
	for i := 0; i < t.width; i++ {
		idx := t.offset + i
		if idx < len(t.buffer) {
			window = append(window, t.buffer[idx])
		} else {
			window = append(window, ' ')
		}
	}

	led := lipgloss.NewStyle().
		Foreground(ledColor(t.brightness)).
		Bold(t.brightness >= 0.5)
	return panelStyle.Render(led.Render(string(window)))
}

// Visible returns the characters currently in the window, trailing blanks trimmed.
func (t *Terminal) Visible() string {
	end := min(t.offset+t.width, len(t.buffer))
	if t.offset >= end {
		return ""
	}
	return strings.TrimRight(string(t.buffer[t.offset:end]), " ")
}

func ledColor(brightness float64) lipgloss.Color {
	idx := int(brightness*float64(len(ledRamp)-1) + 0.5)
	idx = max(0, min(idx, len(ledRamp)-1))
	return ledRamp[idx]
}

// Plain writes each text once as a line, for logs and pipes where redraws make no sense.
type Plain struct {
	out     io.Writer
	text    string
	pending bool
}

// NewPlain creates a Plain driver writing to out.
func NewPlain(out io.Writer) *Plain {
	return &Plain{out: out}
}

func (p *Plain) Clear() {
	p.text = ""
	p.pending = false
}

func (p *Plain) WriteString(text string, _ float64) int {
	p.text += text
	p.pending = true
	return utf8.RuneCountInString(text)
}

func (p *Plain) Show() error {
	if !p.pending {
		return nil
	}
	p.pending = false
	_, err := fmt.Fprintln(p.out, p.text)
	return err
}

func (p *Plain) Scroll() {}
