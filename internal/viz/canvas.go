// Package viz renders the simulation in the terminal: a Braille-dot
// canvas for body positions and a bubbletea live view around it.
package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille patterns pack a 2x4 dot block into one rune starting at
// U+2800. Dot bit layout:
//
//	1 4
//	2 5
//	3 6
//	7 8
var dotMask = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

const brailleBase = 0x2800

// Canvas is a character grid addressed in sub-pixel coordinates:
// (Width*2) x (Height*4) dots. Each cell carries at most one color;
// the last Set wins.
type Canvas struct {
	Width, Height int
	cells         []rune
	colors        []string
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		cells:  make([]rune, w*h),
		colors: make([]string, w*h),
	}
	c.Clear()
	return c
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = brailleBase
		c.colors[i] = ""
	}
}

// Set lights the dot at sub-pixel (x, y) with an optional hex color.
// Out-of-bounds coordinates are ignored.
func (c *Canvas) Set(x, y int, color string) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	i := row*c.Width + col
	c.cells[i] |= dotMask[y%4][x%2]
	if color != "" {
		c.colors[i] = color
	}
}

// Blot lights a small square of dots centered on (x, y), for bodies
// that should stand out from single-dot asteroids.
func (c *Canvas) Blot(x, y, r int, color string) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			c.Set(x+dx, y+dy, color)
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.Height; row++ {
		var runColor string
		var run []rune
		flush := func() {
			if len(run) == 0 {
				return
			}
			if runColor == "" {
				b.WriteString(string(run))
			} else {
				b.WriteString(lipgloss.NewStyle().
					Foreground(lipgloss.Color(runColor)).
					Render(string(run)))
			}
			run = run[:0]
		}
		for col := 0; col < c.Width; col++ {
			i := row*c.Width + col
			if c.colors[i] != runColor {
				flush()
				runColor = c.colors[i]
			}
			run = append(run, c.cells[i])
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}
