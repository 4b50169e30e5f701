package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 || s.Height() != 24 {
		t.Fatalf("dimensions = %dx%d, expected 80x24", s.Width(), s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := s.GetCell(x, y); c != blankCell {
				t.Fatalf("new screen should be blank, got %+v at (%d, %d)", c, x, y)
			}
		}
	}
}

func TestNewScreenNegativeSize(t *testing.T) {
	s := NewScreen(-3, -1)
	if s.Width() != 0 || s.Height() != 0 {
		t.Errorf("negative sizes should clamp to zero, got %dx%d", s.Width(), s.Height())
	}
	if s.String() != "" {
		t.Errorf("empty screen should render empty, got %q", s.String())
	}
}

func TestScreenSetGetColored(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetColored(5, 5, '$', ColorCoin)
	if c := s.GetCell(5, 5); c.Rune != '$' || c.Color != ColorCoin {
		t.Errorf("GetCell(5, 5) = %+v, expected '$' in coin color", c)
	}

	// Out of bounds is ignored
	s.Set(-1, 0, 'A')
	s.Set(100, 0, 'A')
	s.Set(0, 100, 'A')

	if s.Get(-1, 0) != ' ' || s.Get(100, 0) != ' ' {
		t.Error("out of bounds Get should return space")
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(4, 4)
	s.DrawRect(NewRect(0, 0, 4, 4), 'X', ColorRed)
	s.Clear()

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if s.GetCell(x, y) != blankCell {
				t.Errorf("after Clear, expected blank at (%d, %d), got %+v", x, y, s.GetCell(x, y))
			}
		}
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawText(2, 1, "Coins")

	for i, ch := range "Coins" {
		if s.Get(2+i, 1) != ch {
			t.Errorf("DrawText: expected %q at (%d, 1), got %q", ch, 2+i, s.Get(2+i, 1))
		}
	}

	// Clipped at the right boundary
	s.DrawText(18, 0, "Hello")
	if s.Get(18, 0) != 'H' || s.Get(19, 0) != 'e' {
		t.Error("text should be clipped at right boundary")
	}
}

func TestScreenDrawTextMultibyte(t *testing.T) {
	s := NewScreen(10, 1)
	s.DrawText(0, 0, "●$●")

	if s.Get(0, 0) != '●' || s.Get(1, 0) != '$' || s.Get(2, 0) != '●' {
		t.Errorf("multibyte runes should occupy one cell each, row = %q", s.Row(0))
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawTextCentered(2, "Hi", ColorReward)

	x := (20 - 2) / 2
	if s.Get(x, 2) != 'H' || s.Get(x+1, 2) != 'i' {
		t.Errorf("DrawTextCentered: text not at expected position, row = %q", s.Row(2))
	}
	if s.GetCell(x, 2).Color != ColorReward {
		t.Error("DrawTextCentered should apply the color")
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawBox(NewRect(1, 1, 5, 4), ColorAd)

	corners := map[[2]int]rune{
		{1, 1}: '┌',
		{5, 1}: '┐',
		{1, 4}: '└',
		{5, 4}: '┘',
	}
	for pos, want := range corners {
		if got := s.Get(pos[0], pos[1]); got != want {
			t.Errorf("corner at %v = %q, expected %q", pos, got, want)
		}
	}
	for x := 2; x < 5; x++ {
		if s.Get(x, 1) != '─' || s.Get(x, 4) != '─' {
			t.Errorf("horizontal edges should be '─' at x=%d", x)
		}
	}
	for y := 2; y < 4; y++ {
		if s.Get(1, y) != '│' || s.Get(5, y) != '│' {
			t.Errorf("vertical edges should be '│' at y=%d", y)
		}
	}
}

func TestScreenDrawBoxTooSmall(t *testing.T) {
	s := NewScreen(5, 5)
	s.DrawBox(NewRect(1, 1, 1, 1), ColorAd)

	if s.Get(1, 1) != ' ' {
		t.Error("degenerate box should draw nothing")
	}
}

func TestScreenDrawProgress(t *testing.T) {
	tests := []struct {
		fraction float64
		filled   int
	}{
		{0, 0},
		{0.5, 5},
		{1, 10},
		{1.7, 10},
		{-0.2, 0},
	}

	for _, tt := range tests {
		s := NewScreen(10, 1)
		s.DrawProgress(0, 0, 10, tt.fraction, ColorReward, ColorGray)

		got := strings.Count(s.Row(0), "█")
		if got != tt.filled {
			t.Errorf("DrawProgress(%v): filled = %d, expected %d", tt.fraction, got, tt.filled)
		}
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(5, 3)
	s.DrawText(0, 0, "AAAAA")
	s.DrawText(0, 1, "BBBBB")
	s.DrawText(0, 2, "CCCCC")

	expected := "AAAAA\nBBBBB\nCCCCC"
	if result := s.String(); result != expected {
		t.Errorf("String() = %q, expected %q", result, expected)
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawText(0, 0, "Hello")

	s.Resize(8, 4)
	if s.Width() != 8 || s.Height() != 4 {
		t.Fatalf("after resize, dimensions should be 8x4, got %dx%d", s.Width(), s.Height())
	}
	if row := s.Row(0); row != "        " {
		t.Errorf("resize should clear content, row 0 = %q", row)
	}
}

func TestScreenRow(t *testing.T) {
	s := NewScreen(10, 5)
	s.DrawText(0, 2, "Test")

	row := s.Row(2)
	if !strings.HasPrefix(row, "Test") || len(row) != 10 {
		t.Errorf("Row(2) = %q, expected 'Test' padded to 10", row)
	}
	if out := s.Row(-1); out != "          " {
		t.Errorf("out of bounds row should be spaces, got %q", out)
	}
}

func TestRectCentered(t *testing.T) {
	r := NewRect(0, 0, 20, 10).Centered(6, 4)
	if r.X != 7 || r.Y != 3 || r.W != 6 || r.H != 4 {
		t.Errorf("Centered = %+v, expected {7 3 6 4}", r)
	}
	if r.Right() != 13 || r.Bottom() != 7 {
		t.Errorf("Right, Bottom = %d, %d; expected 13, 7", r.Right(), r.Bottom())
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-2, 0, 5) != 0 || Clamp(9, 0, 5) != 5 || Clamp(3, 0, 5) != 3 {
		t.Error("Clamp should restrict values to [min, max]")
	}
	if ClampF(1.5, 0, 1) != 1 || ClampF(-0.1, 0, 1) != 0 {
		t.Error("ClampF should restrict values to [min, max]")
	}
}

func TestActionString(t *testing.T) {
	if ActionShowAd.String() != "ShowAd" {
		t.Errorf("ActionShowAd.String() = %q", ActionShowAd.String())
	}
	if Action(999).String() != "Unknown" {
		t.Error("unknown action should stringify as Unknown")
	}
}
