package mapview

import (
	"bytes"
	"html/template"
	"strconv"

	"visual_traceroute/tracemap/internal/hop"
)

const latencyUnknown = "N/A"

var popupTemplate = template.Must(template.New("popup").Parse(
	`<div><strong>IP:</strong> {{.IP}}<br />` +
		`<strong>Country:</strong> {{.Country}}` +
		`{{if .FlagURL}}<img src="{{.FlagURL}}" alt="{{.CountryCode}}" style="margin-left: 4px; vertical-align: middle" />{{end}}<br />` +
		`<strong>ISP:</strong> {{.ISP}}<br />` +
		`<strong>Latency:</strong> {{.Latency}}</div>`))

// Popup is the detail shown for one marker. Absent fields are blank.
type Popup struct {
	IP          string `json:"ip"`
	Country     string `json:"country"`
	CountryCode string `json:"country_code,omitempty"`
	FlagURL     string `json:"flag_url,omitempty"`
	ISP         string `json:"isp"`
	Latency     string `json:"latency"`
}

func newPopup(h hop.Hop, settings Settings) Popup {
	code := hop.Text(h.CountryCode)
	return Popup{
		IP:          hop.Text(h.IP),
		Country:     hop.Text(h.Country),
		CountryCode: code,
		FlagURL:     settings.FlagURL(code),
		ISP:         hop.Text(h.ISP),
		Latency:     Latency(h.Ping),
	}
}

// Latency formats a ping as "<ping> ms". Absent or zero pings read "N/A".
func Latency(ping *float64) string {
	if ping == nil || *ping == 0 {
		return latencyUnknown
	}
	return strconv.FormatFloat(*ping, 'f', -1, 64) + " ms"
}

// HTML renders the popup fragment with every field escaped.
func (p Popup) HTML() string {
	var buf bytes.Buffer
	if err := popupTemplate.Execute(&buf, p); err != nil {
		return ""
	}
	return buf.String()
}
