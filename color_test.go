package chromaview

import "testing"

func TestRGB_Complement(t *testing.T) {
	tests := []struct {
		name string
		in   RGB
		want RGB
	}{
		{"black to white", RGB{0, 0, 0}, RGB{255, 255, 255}},
		{"lime to fuchsia", RGB{0, 255, 0}, RGB{255, 0, 255}},
		{"red to aqua", RGB{255, 0, 0}, RGB{0, 255, 255}},
		{"mid gray", RGB{100, 150, 200}, RGB{155, 105, 55}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Complement(); got != tt.want {
				t.Errorf("Complement(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRGB_ComplementIsInvolution(t *testing.T) {
	c := RGB{12, 200, 99}
	if got := c.Complement().Complement(); got != c {
		t.Errorf("double complement = %v, want %v", got, c)
	}
}

func TestPalette_NameLookupRoundtrip(t *testing.T) {
	for _, pc := range Palette {
		if got := PaletteName(pc.RGB); got != pc.Name {
			t.Errorf("PaletteName(%v) = %q, want %q", pc.RGB, got, pc.Name)
		}
		rgb, ok := PaletteLookup(pc.Name)
		if !ok || rgb != pc.RGB {
			t.Errorf("PaletteLookup(%q) = %v, %v, want %v, true", pc.Name, rgb, ok, pc.RGB)
		}
	}
}

func TestPalette_ClosedUnderComplement(t *testing.T) {
	// Every palette color's complement is also in the palette, which is why
	// the watermark ink of any generated image stays recognizable.
	for _, pc := range Palette {
		if PaletteName(pc.RGB.Complement()) == "" {
			t.Errorf("complement of %s (%v) is not a palette color", pc.Name, pc.RGB.Complement())
		}
	}
}

func TestPalette_UnknownLookups(t *testing.T) {
	if name := PaletteName(RGB{1, 2, 3}); name != "" {
		t.Errorf("PaletteName = %q, want empty", name)
	}
	if _, ok := PaletteLookup("mauve"); ok {
		t.Error("PaletteLookup found a color that is not in the palette")
	}
}
