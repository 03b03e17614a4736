package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"visual_traceroute/tracemap/internal/hop"
	"visual_traceroute/tracemap/internal/mapview"
	"visual_traceroute/tracemap/internal/session"
)

// writeText prints one row per hop in path order. Hops without usable
// coordinates are listed with "-" in place of a position.
func writeText(w io.Writer, view mapview.View, s session.Session) error {
	fmt.Fprintf(w, "target:  %s\n", view.Target)
	fmt.Fprintf(w, "status:  %s\n", view.Status)
	if view.Message != "" {
		fmt.Fprintf(w, "message: %s\n", view.Message)
	}
	if view.HopCount == 0 {
		return nil
	}

	line := "not drawn"
	if view.Polyline.Visible {
		line = "drawn"
	}
	fmt.Fprintf(w, "hops:    %d (%d on map, path %s)\n\n", view.HopCount, len(view.Markers), line)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tIP\tCOUNTRY\tISP\tLATENCY\tPOSITION")
	for i, h := range s.Hops {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			dash(hop.Text(h.IP)),
			dash(country(h)),
			dash(hop.Text(h.ISP)),
			mapview.Latency(h.Ping),
			position(h),
		)
	}
	return tw.Flush()
}

func country(h hop.Hop) string {
	name, code := hop.Text(h.Country), hop.Text(h.CountryCode)
	switch {
	case name != "" && code != "":
		return fmt.Sprintf("%s (%s)", name, strings.ToUpper(code))
	case name != "":
		return name
	default:
		return code
	}
}

func position(h hop.Hop) string {
	if !mapview.HasCoordinates(h) {
		return "-"
	}
	return fmt.Sprintf("%g,%g", *h.Lat, *h.Lon)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
