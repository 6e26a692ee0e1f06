package viz

import (
	"strings"
	"testing"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(4, 2)

	// Top-left dot of the first cell is bit 0x01.
	c.Set(0, 0, "")
	lines := strings.Split(strings.TrimRight(c.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("line count = %d, want 2", len(lines))
	}
	if []rune(lines[0])[0] != rune(brailleBase|0x01) {
		t.Errorf("cell rune = %U, want %U", []rune(lines[0])[0], rune(brailleBase|0x01))
	}

	// Bottom-right dot of the same cell is bit 0x80.
	c.Set(1, 3, "")
	lines = strings.Split(c.String(), "\n")
	if []rune(lines[0])[0] != rune(brailleBase|0x01|0x80) {
		t.Errorf("cell rune = %U after second dot", []rune(lines[0])[0])
	}
}

func TestCanvasOutOfBounds(t *testing.T) {
	c := NewCanvas(2, 2)
	before := c.String()

	c.Set(-1, 0, "")
	c.Set(0, -5, "")
	c.Set(100, 0, "")
	c.Set(0, 100, "")

	if c.String() != before {
		t.Fatal("out-of-bounds Set modified the canvas")
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(3, 3)
	blank := c.String()

	c.Blot(3, 6, 1, "")
	if c.String() == blank {
		t.Fatal("Blot left the canvas blank")
	}
	c.Clear()
	if c.String() != blank {
		t.Fatal("Clear did not restore the blank canvas")
	}
}

func TestCanvasEmptyIsBraille(t *testing.T) {
	c := NewCanvas(2, 1)
	line := strings.TrimRight(c.String(), "\n")
	for _, r := range line {
		if r != rune(brailleBase) {
			t.Fatalf("empty cell = %U, want %U", r, rune(brailleBase))
		}
	}
}
