package memoji

import (
	"image/color"
	"testing"
)

func TestRGBA_Color(t *testing.T) {
	tests := []struct {
		name string
		c    RGBA
		want color.NRGBA
	}{
		{"opaque black", Black, color.NRGBA{0, 0, 0, 255}},
		{"opaque white", White, color.NRGBA{255, 255, 255, 255}},
		{"transparent", Transparent, color.NRGBA{0, 0, 0, 0}},
		{"50% alpha red", RGBA2(1, 0, 0, 0.5), color.NRGBA{255, 0, 0, 128}},
		{"out of range", RGBA2(2, -1, 0.5, 1), color.NRGBA{255, 0, 128, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Color(); got != tt.want {
				t.Errorf("Color() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRGBA_Premul8(t *testing.T) {
	tests := []struct {
		name       string
		c          RGBA
		r, g, b, a uint8
	}{
		{"opaque", Hex("#336699"), 0x33, 0x66, 0x99, 0xff},
		{"half blue", RGBA2(0, 0, 1, 0.5), 0, 0, 128, 128},
		{"transparent white", RGBA2(1, 1, 1, 0), 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b, a := tt.c.Premul8()
			if r != tt.r || g != tt.g || b != tt.b || a != tt.a {
				t.Errorf("Premul8() = (%d, %d, %d, %d), want (%d, %d, %d, %d)", r, g, b, a, tt.r, tt.g, tt.b, tt.a)
			}
		})
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#FFF", "#FFFFFFFF"},
		{"f00", "#FF0000FF"},
		{"#0F08", "#00FF0088"},
		{"1e90ff", "#1E90FFFF"},
		{"#8E8E93", "#8E8E93FF"},
		{" #11223344 ", "#11223344"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseHex(tt.in)
			if err != nil {
				t.Fatalf("ParseHex(%q) error: %v", tt.in, err)
			}
			if got := c.String(); got != tt.want {
				t.Errorf("ParseHex(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseHex_Invalid(t *testing.T) {
	for _, in := range []string{"", "#", "12", "12345", "#GGGGGG", "1234567", "#12345z"} {
		if _, err := ParseHex(in); err == nil {
			t.Errorf("ParseHex(%q) succeeded, want error", in)
		}
		if got := Hex(in); got != Black {
			t.Errorf("Hex(%q) = %v, want black", in, got)
		}
	}
}

func TestFromColor(t *testing.T) {
	c := FromColor(color.NRGBA{R: 255, G: 0, B: 0, A: 128})
	if got := c.String(); got != "#FF000080" {
		t.Errorf("FromColor(NRGBA) = %s, want #FF000080", got)
	}

	// Premultiplied input is un-premultiplied.
	c = FromColor(color.RGBA{R: 128, G: 0, B: 0, A: 128})
	if got := c.String(); got != "#FF000080" {
		t.Errorf("FromColor(RGBA) = %s, want #FF000080", got)
	}
}

func TestRGBA_IsOpaque(t *testing.T) {
	if !Gray.IsOpaque() {
		t.Error("Gray should be opaque")
	}
	if RGBA2(1, 1, 1, 0.99).IsOpaque() {
		t.Error("alpha 0.99 should not be opaque")
	}
}

func TestDefaultBackground(t *testing.T) {
	if got := DefaultBackground.String(); got != "#8E8E93FF" {
		t.Errorf("DefaultBackground = %s, want #8E8E93FF", got)
	}
}
