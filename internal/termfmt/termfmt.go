// Terminal styling for the migration summary.  The Style/Escape shape follows @shabbyrobe's
// termfmt (https://github.com/shabbyrobe/golib, MIT), cut down to what a summary table needs:
// bold text and the 16 basic colours, plus a global switch for when stdout isn't a terminal.
package termfmt

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type Escape interface {
	Wrap(out string) string
}

func With(escs ...Escape) Style { return (Style{}).With(escs...) }
func Bold() Style                { return (Style{}).Bold() }
func Fg(c C16Name) Style         { return (Style{}).Fg(c) }

type Style struct {
	escapes []Escape
	v       any
}

var _ fmt.Formatter = Style{}

func (c Style) With(escs ...Escape) Style {
	c.escapes = append(c.escapes[:len(c.escapes):len(c.escapes)], escs...)
	return c
}

func (c Style) Bold() Style         { return c.With(BoldEscape{}) }
func (c Style) Fg(n C16Name) Style  { return c.With(C16Color{Name: n}) }
func (c Style) Bg(n C16Name) Style  { return c.With(C16Color{Name: n, Bg: true}) }
func (c Style) Sprint(v any) string { return fmt.Sprint(c.V(v)) }

func (c Style) V(v any) Style {
	c.v = v
	return c
}

func (c Style) Format(f fmt.State, verb rune) {
	v := printable(fmt.Sprintf(buildValueFormat(f, verb), c.v))
	if enabled {
		for i := len(c.escapes) - 1; i >= 0; i-- {
			v = c.escapes[i].Wrap(v)
		}
	}
	f.Write([]byte(v))
}

func buildValueFormat(f fmt.State, verb rune) string {
	s := "%"
	for _, flag := range " +-0#" {
		if f.Flag(int(flag)) {
			s += string(flag)
		}
	}
	if width, ok := f.Width(); ok {
		s += strconv.Itoa(width)
	}
	if prec, ok := f.Precision(); ok {
		s += "." + strconv.Itoa(prec)
	}
	return s + string(verb)
}

type BoldEscape struct{}

func (BoldEscape) Wrap(v string) string { return fmt.Sprintf("\x1b[1m%s\x1b[0m", v) }

type C16Name uint8

const (
	DefaultColor C16Name = iota

	Black
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	LightGrey

	DarkGrey
	LightRed
	LightGreen
	LightYellow
	LightBlue
	LightMagenta
	LightCyan
	White
)

type C16Color struct {
	Name C16Name
	Bg   bool
}

func (c C16Color) Wrap(out string) string {
	var cv uint8
	if c.Name == DefaultColor {
		cv = 39
	} else {
		// Our enum starts at one, adjust so it starts at 0:
		cv = uint8(c.Name) - 1

		// the lower 8 colours run from 30 to 37, the upper 8 from 90 to 97.
		if c.Name < DarkGrey {
			cv += 30
		} else {
			cv += 90
		}
	}

	if c.Bg {
		cv += 10
	}

	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", cv, out)
}

var enabled = true

// SetEnabled turns escapes on or off for every Style.  With escapes off, styles print their value
// verbatim.
func SetEnabled(on bool) { enabled = on }

func Enabled() bool { return enabled }

func printable(v string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsGraphic(r) || r == '\n' {
			return r
		}
		return -1
	}, v)
}
