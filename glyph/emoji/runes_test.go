package emoji

import "testing"

func TestRuneClasses(t *testing.T) {
	tests := []struct {
		name         string
		r            rune
		emoji        bool
		presentation bool
	}{
		{"grinning face", 0x1F600, true, true},
		{"red heart", 0x2764, true, false},
		{"copyright", 0x00A9, true, false},
		{"registered", 0x00AE, true, false},
		{"ordinal indicator between them", 0x00AA, false, false},
		{"upper blade scissors", 0x2701, false, false},
		{"black scissors", 0x2702, true, false},
		{"check mark button", 0x2705, true, true},
		{"sparkles", 0x2728, true, true},
		{"white flag", 0x1F3F3, true, false},
		{"black flag", 0x1F3F4, true, true},
		{"mahjong red dragon", 0x1F004, true, true},
		{"mahjong east wind", 0x1F000, false, false},
		{"joker", 0x1F0CF, true, true},
		{"playing card ace", 0x1F0A1, false, false},
		{"thermometer", 0x1F321, true, false},
		{"unassigned pictograph", 0x1F6FD, false, false},
		{"melting face", 0x1FAE0, true, true},
		{"latin letter", 'a', false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEmoji(tt.r); got != tt.emoji {
				t.Errorf("IsEmoji(%U) = %v, want %v", tt.r, got, tt.emoji)
			}
			if got := IsPresentation(tt.r); got != tt.presentation {
				t.Errorf("IsPresentation(%U) = %v, want %v", tt.r, got, tt.presentation)
			}
			if got := IsTextDefault(tt.r); got != (tt.emoji && !tt.presentation) {
				t.Errorf("IsTextDefault(%U) = %v", tt.r, got)
			}
		})
	}
}

func TestRuneTablesDisjoint(t *testing.T) {
	for _, rt := range []struct {
		lo, hi rune
	}{{0x00A0, 0x3300}, {0x1F000, 0x1FB00}} {
		for r := rt.lo; r < rt.hi; r++ {
			if IsPresentation(r) && IsTextDefault(r) {
				t.Fatalf("%U is in both presentation and text-default tables", r)
			}
		}
	}
}
