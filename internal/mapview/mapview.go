// Package mapview builds plain map view models from normalized datasets:
// one marker layer per dataset, a center point and a dataset switcher.
// Rendering is left to whatever consumes the JSON.
package mapview

import (
	"fmt"
	"strconv"

	"github.com/KaramelBytes/poimap-cli/internal/geodata"
)

const (
	// DefaultZoom frames a city.
	DefaultZoom = 11
	// DefaultColorScale names the continuous scale applied to ColorValue.
	DefaultColorScale = "Viridis"
	colorBarTitle     = "Cost"
)

// Marker is one point of a layer.
type Marker struct {
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Size       float64 `json:"size"`
	ColorValue float64 `json:"color_value"`
	Hover      string  `json:"hover"`
}

// Layer is the marker trace of a single dataset.
type Layer struct {
	Title         string               `json:"title"`
	Dataset       string               `json:"dataset"`
	ColorScale    string               `json:"color_scale"`
	ColorBarTitle string               `json:"color_bar_title"`
	Center        *geodata.Coordinates `json:"center,omitempty"`
	Markers       []Marker             `json:"markers"`
}

// SwitchOption selects one layer; Visible has one entry per layer.
type SwitchOption struct {
	Label   string               `json:"label"`
	Visible []bool               `json:"visible"`
	Center  *geodata.Coordinates `json:"center,omitempty"`
}

// View is a complete map: layers, initial camera and switcher.
type View struct {
	Center   geodata.Coordinates `json:"center"`
	Zoom     int                 `json:"zoom"`
	Layers   []Layer             `json:"layers"`
	Switcher []SwitchOption      `json:"switcher"`
}

// LayerTitle is the trace title for a dataset named name.
func LayerTitle(name string) string { return name + " - Points" }

// HoverText labels a point: name, cost and coordinates.
func HoverText(p geodata.Point) string {
	return fmt.Sprintf("%s — cost %s (%.5f, %.5f)", p.Name, strconv.FormatFloat(p.Cost, 'g', 6, 64), p.Lat, p.Lon)
}

// BuildLayer turns ds into a marker layer sized and colored by cost.
func BuildLayer(ds *geodata.Dataset) Layer {
	l := Layer{
		Title:         LayerTitle(ds.Name),
		Dataset:       ds.Name,
		ColorScale:    DefaultColorScale,
		ColorBarTitle: colorBarTitle,
		Markers:       make([]Marker, len(ds.Points)),
	}
	if c, ok := geodata.Center(ds); ok {
		l.Center = &c
	}
	sizes := geodata.MapSizes(ds.Costs())
	for i, p := range ds.Points {
		l.Markers[i] = Marker{Lat: p.Lat, Lon: p.Lon, Size: sizes[i], ColorValue: p.Cost, Hover: HoverText(p)}
	}
	return l
}

// BuildView assembles layers into a view. Only the first layer starts
// visible and the camera starts on the first layer that has points.
func BuildView(layers ...Layer) View {
	v := View{Zoom: DefaultZoom, Layers: layers, Switcher: make([]SwitchOption, len(layers))}
	centered := false
	for i, l := range layers {
		mask := make([]bool, len(layers))
		mask[i] = true
		v.Switcher[i] = SwitchOption{Label: l.Dataset, Visible: mask, Center: l.Center}
		if !centered && l.Center != nil {
			v.Center = *l.Center
			centered = true
		}
	}
	return v
}

// VisibleLayers reports the layers shown by switcher option i.
func (v View) VisibleLayers(i int) []Layer {
	if i < 0 || i >= len(v.Switcher) {
		return nil
	}
	var out []Layer
	for j, on := range v.Switcher[i].Visible {
		if on {
			out = append(out, v.Layers[j])
		}
	}
	return out
}
