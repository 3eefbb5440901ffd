package core

import "testing"

func TestCoordEqual(t *testing.T) {
	a := Coord{Col: 3, Row: 7}
	b := Coord{Col: 3, Row: 7}
	c := Coord{Col: 7, Row: 3}

	if !a.Equal(b) {
		t.Errorf("expected %v to equal %v", a, b)
	}
	if a.Equal(c) {
		t.Errorf("expected %v to differ from %v", a, c)
	}
}

func TestCoordOffset(t *testing.T) {
	tests := []struct {
		name   string
		start  Coord
		dc, dr int
		want   Coord
		ok     bool
	}{
		{"right", Coord{Col: 1, Row: 1}, 1, 0, Coord{Col: 2, Row: 1}, true},
		{"up", Coord{Col: 1, Row: 1}, 0, -1, Coord{Col: 1, Row: 0}, true},
		{"left of origin", Coord{}, -1, 0, Coord{}, false},
		{"above origin", Coord{}, 0, -1, Coord{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.start.Offset(tt.dc, tt.dr)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
