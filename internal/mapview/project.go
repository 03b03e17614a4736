// Package mapview derives renderable map artifacts from a hop sequence.
//
// Markers need usable coordinates. The polyline keeps one vertex per hop,
// so its length always matches the path.
package mapview

import (
	"visual_traceroute/tracemap/internal/hop"
	"visual_traceroute/tracemap/internal/session"
)

type LatLng [2]float64

// Vertex is a polyline point. Missing coordinates encode as null.
type Vertex [2]*float64

type Marker struct {
	Index     int    `json:"index"`
	Position  LatLng `json:"position"`
	Popup     Popup  `json:"popup"`
	PopupHTML string `json:"popup_html"`
}

type Polyline struct {
	Positions []Vertex `json:"positions"`
	Visible   bool     `json:"visible"`
	Color     string   `json:"color"`
}

// View is everything the map widget needs to render a session.
type View struct {
	Target   string         `json:"target"`
	Status   session.Status `json:"status"`
	Loading  bool           `json:"loading"`
	Message  string         `json:"message,omitempty"`
	HopCount int            `json:"hop_count"`
	Markers  []Marker       `json:"markers"`
	Polyline Polyline       `json:"polyline"`
	Map      Settings       `json:"map"`
}

// HasCoordinates is the marker inclusion rule: both coordinates present
// and non-zero. A zero on either axis usually means "unresolved".
func HasCoordinates(h hop.Hop) bool {
	return h.Lat != nil && h.Lon != nil && *h.Lat != 0 && *h.Lon != 0
}

// Markers returns one marker per hop with usable coordinates, in path
// order.
func Markers(hops []hop.Hop, settings Settings) []Marker {
	markers := make([]Marker, 0, len(hops))
	for i, h := range hops {
		if !HasCoordinates(h) {
			continue
		}
		popup := newPopup(h, settings)
		markers = append(markers, Marker{
			Index:     i,
			Position:  LatLng{*h.Lat, *h.Lon},
			Popup:     popup,
			PopupHTML: popup.HTML(),
		})
	}
	return markers
}

// PolylineVertices returns one vertex per hop, including hops without
// coordinates. The map widget skips invalid segments itself.
func PolylineVertices(hops []hop.Hop) []Vertex {
	vertices := make([]Vertex, 0, len(hops))
	for _, h := range hops {
		vertices = append(vertices, Vertex{h.Lat, h.Lon})
	}
	return vertices
}

// PolylineVisible reports whether a connecting line should be drawn.
func PolylineVisible(vertices []Vertex) bool {
	return len(vertices) > 1
}

// Project derives the full view for a session.
func Project(s session.Session, settings Settings) View {
	vertices := PolylineVertices(s.Hops)

	return View{
		Target:   s.Target,
		Status:   s.Status,
		Loading:  s.Status == session.StatusLoading,
		Message:  s.Message(),
		HopCount: len(s.Hops),
		Markers:  Markers(s.Hops, settings),
		Polyline: Polyline{
			Positions: vertices,
			Visible:   PolylineVisible(vertices),
			Color:     settings.PolylineColor,
		},
		Map: settings,
	}
}
