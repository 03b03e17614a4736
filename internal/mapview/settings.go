package mapview

import "strings"

const (
	DefaultTileURL         = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	DefaultAttribution     = "&copy; OpenStreetMap contributors"
	DefaultFlagURLTemplate = "https://flagcdn.com/24x18/{code}.png"
	DefaultPolylineColor   = "blue"
	DefaultZoom            = 2

	flagCodePlaceholder = "{code}"
)

// Icons are the marker image paths served from the application's static
// root.
type Icons struct {
	IconURL       string `json:"icon_url" yaml:"icon_url"`
	IconRetinaURL string `json:"icon_retina_url" yaml:"icon_retina_url"`
	ShadowURL     string `json:"shadow_url" yaml:"shadow_url"`
}

// Settings describe the map widget. They are configuration, not behaviour.
type Settings struct {
	Center          LatLng `json:"center" yaml:"center"`
	Zoom            int    `json:"zoom" yaml:"zoom"`
	TileURL         string `json:"tile_url" yaml:"tile_url"`
	Attribution     string `json:"attribution" yaml:"attribution"`
	FlagURLTemplate string `json:"-" yaml:"flag_url_template"`
	PolylineColor   string `json:"polyline_color" yaml:"polyline_color"`
	Icons           Icons  `json:"icons" yaml:"icons"`
}

func DefaultSettings() Settings {
	return Settings{
		Center:          LatLng{20, 0},
		Zoom:            DefaultZoom,
		TileURL:         DefaultTileURL,
		Attribution:     DefaultAttribution,
		FlagURLTemplate: DefaultFlagURLTemplate,
		PolylineColor:   DefaultPolylineColor,
		Icons: Icons{
			IconURL:       "/marker-icon.png",
			IconRetinaURL: "/marker-icon-2x.png",
			ShadowURL:     "/marker-shadow.png",
		},
	}
}

// FlagURL interpolates a lowercased country code into the flag template.
// It returns "" for an empty code.
func (s Settings) FlagURL(countryCode string) string {
	if countryCode == "" {
		return ""
	}
	tmpl := s.FlagURLTemplate
	if tmpl == "" {
		tmpl = DefaultFlagURLTemplate
	}
	return strings.ReplaceAll(tmpl, flagCodePlaceholder, strings.ToLower(countryCode))
}
