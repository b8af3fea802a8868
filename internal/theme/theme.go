// Package theme defines the light and dark board palettes as hex colors.
package theme

// Palette holds the hex colors used to render one presentation mode.
type Palette struct {
	Name       string
	Background string
	Foreground string
	Surface    string
	Muted      string
	Dim        string
	Accent     string
	Success    string
	Danger     string
	Badge      string
	Highlight  string
}

// Light mirrors a gray-50 page with white cards.
var Light = Palette{
	Name:       "light",
	Background: "#F9FAFB",
	Foreground: "#111827",
	Surface:    "#FFFFFF",
	Muted:      "#6B7280",
	Dim:        "#D1D5DB",
	Accent:     "#3B82F6",
	Success:    "#22C55E",
	Danger:     "#EF4444",
	Badge:      "#F3F4F6",
	Highlight:  "#DBEAFE",
}

// Dark mirrors a gray-900 page with gray-800 cards.
var Dark = Palette{
	Name:       "dark",
	Background: "#111827",
	Foreground: "#F3F4F6",
	Surface:    "#1F2937",
	Muted:      "#9CA3AF",
	Dim:        "#4B5563",
	Accent:     "#60A5FA",
	Success:    "#4ADE80",
	Danger:     "#F87171",
	Badge:      "#374151",
	Highlight:  "#1E3A8A",
}

// For returns the palette for the dark flag.
func For(dark bool) Palette {
	if dark {
		return Dark
	}
	return Light
}

// All lists every palette in display order.
func All() []Palette {
	return []Palette{Light, Dark}
}

// Swatches returns the palette's named colors in display order.
func (p Palette) Swatches() [][2]string {
	return [][2]string{
		{"background", p.Background},
		{"foreground", p.Foreground},
		{"surface", p.Surface},
		{"muted", p.Muted},
		{"dim", p.Dim},
		{"accent", p.Accent},
		{"success", p.Success},
		{"danger", p.Danger},
		{"badge", p.Badge},
		{"highlight", p.Highlight},
	}
}
