package domain

import (
	"encoding/json"
	"html"
)

// Zone is a named region from the static catalog. Geometry is opaque to the
// engine and passed through to map renderers as-is.
type Zone struct {
	Name     string          `json:"name"`
	Geometry json.RawMessage `json:"geometry,omitempty"`
}

// Shelter is a relief shelter location shown alongside the zones.
type Shelter struct {
	Name string  `json:"name"`
	Type string  `json:"type"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`

	// Address is filled by reverse geocoding when it is enabled.
	Address string `json:"address,omitempty"`
}

// ZoneStyle is the polygon styling handed to the map widget.
type ZoneStyle struct {
	FillColor   string  `json:"fillColor"`
	Color       string  `json:"color"`
	Weight      int     `json:"weight"`
	FillOpacity float64 `json:"fillOpacity"`
}

var idleZoneStyle = ZoneStyle{FillColor: "lightblue", Color: "gray", Weight: 1, FillOpacity: 0.2}

// ZoneView is everything a map renderer needs for one zone.
type ZoneView struct {
	Zone           Zone           `json:"zone"`
	Alert          *Alert         `json:"alert,omitempty"`
	Classification Classification `json:"classification"`
	Style          ZoneStyle      `json:"style"`
	Popup          string         `json:"popup"`
}

// BuildZoneViews correlates every catalog zone with the alert store and
// returns one view per zone in catalog order.
func BuildZoneViews(zones []Zone, alerts []Alert) []ZoneView {
	views := make([]ZoneView, 0, len(zones))
	for _, z := range zones {
		views = append(views, BuildZoneView(z, alerts))
	}
	return views
}

// BuildZoneView styles a single zone from its active alert, if any.
func BuildZoneView(zone Zone, alerts []Alert) ZoneView {
	view := ZoneView{
		Zone:           zone,
		Classification: classUnknown,
		Style:          idleZoneStyle,
		Popup:          "<b>" + html.EscapeString(zone.Name) + "</b>",
	}

	alert, ok := FindAlertForZone(zone.Name, alerts)
	if !ok {
		return view
	}

	c := Classify(string(alert.Severity))
	view.Alert = &alert
	view.Classification = c
	view.Style = ZoneStyle{FillColor: c.Color, Color: "black", Weight: 2, FillOpacity: 0.6}
	view.Popup += "<br/>⚠️ " + html.EscapeString(string(alert.Severity)) + " Alert<br/>" + html.EscapeString(alert.Message)
	return view
}

// UnknownZoneAlerts returns alerts whose zone matches no catalog entry.
// Such alerts are kept and exported but never rendered on the map.
func UnknownZoneAlerts(zones []Zone, alerts []Alert) []Alert {
	known := make(map[string]struct{}, len(zones))
	for _, z := range zones {
		known[normalizeZoneName(z.Name)] = struct{}{}
	}
	var out []Alert
	for _, a := range alerts {
		if _, ok := known[normalizeZoneName(a.Zone)]; !ok {
			out = append(out, a)
		}
	}
	return out
}
