package subtitles

// Style holds the caption styling attributes written into the track's
// style table. Colors use the ASS &HAABBGGRR notation.
type Style struct {
	Font            string `yaml:"font"`
	Size            int    `yaml:"size"`
	PrimaryColour   string `yaml:"primary_colour"`
	SecondaryColour string `yaml:"secondary_colour"`
	OutlineColour   string `yaml:"outline_colour"`
	BackColour      string `yaml:"back_colour"`
	Bold            int    `yaml:"bold"`
	Italic          int    `yaml:"italic"`
	BorderStyle     int    `yaml:"border_style"`
	Outline         int    `yaml:"outline"`
	Shadow          int    `yaml:"shadow"`
	Alignment       int    `yaml:"alignment"`
	MarginL         int    `yaml:"margin_l"`
	MarginR         int    `yaml:"margin_r"`
	MarginV         int    `yaml:"margin_v"`
	Encoding        int    `yaml:"encoding"`
}

// StyleTable maps style names to styles. A "default" entry must always be
// present; config loading guarantees it.
type StyleTable map[string]Style

// DefaultName is the style every lookup falls back to.
const DefaultName = "default"

// DefaultStyles returns the built-in caption theme: bold bottom-centered
// white text with an opaque box, sized for a 1080x1920 playfield.
func DefaultStyles() StyleTable {
	return StyleTable{
		DefaultName: {
			Font:            "Arial Black",
			Size:            48,
			PrimaryColour:   "&H00FFFFFF",
			SecondaryColour: "&H000000FF",
			OutlineColour:   "&H00000000",
			BackColour:      "&H80000000",
			Bold:            1,
			Italic:          0,
			BorderStyle:     3,
			Outline:         3,
			Shadow:          0,
			Alignment:       2,
			MarginL:         80,
			MarginR:         80,
			MarginV:         60,
			Encoding:        1,
		},
	}
}

// Resolve returns the named style, falling back to "default" for unknown
// names. The permissive fallback is intentional: a bad style name degrades
// the look of the captions, it does not fail the render.
func (t StyleTable) Resolve(name string) Style {
	if s, ok := t[name]; ok {
		return s
	}
	return t[DefaultName]
}
