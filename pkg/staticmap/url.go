package staticmap

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
)

// GroupColors is the marker/path palette, cycled by group index.
var GroupColors = []string{
	"red", "blue", "green", "yellow", "purple", "orange", "pink",
	"brown", "gray", "cyan", "magenta", "lime", "navy", "teal",
	"olive", "maroon", "aqua", "fuchsia", "silver", "black",
}

// colorHex maps palette names to the hex form path parameters require.
var colorHex = map[string]string{
	"red":     "FF0000",
	"blue":    "0000FF",
	"green":   "00FF00",
	"yellow":  "FFFF00",
	"purple":  "800080",
	"orange":  "FFA500",
	"pink":    "FFC0CB",
	"brown":   "A52A2A",
	"gray":    "808080",
	"cyan":    "00FFFF",
	"magenta": "FF00FF",
	"lime":    "00FF00",
	"navy":    "000080",
	"teal":    "008080",
	"olive":   "808000",
	"maroon":  "800000",
	"aqua":    "00FFFF",
	"fuchsia": "FF00FF",
	"silver":  "C0C0C0",
	"black":   "000000",
}

// ColorForGroup returns the palette color for a group index, cycling past the
// palette size.
func ColorForGroup(idx int) string {
	return GroupColors[idx%len(GroupColors)]
}

// ColorHex returns the hex code (without leading #) for a palette color name,
// defaulting to red for unknown names.
func ColorHex(name string) string {
	if hex, ok := colorHex[name]; ok {
		return hex
	}
	return "FF0000"
}

// HideLabelStyles turns off points of interest, transit stations, and
// administrative/road labels so delivery markers stand out.
var HideLabelStyles = []string{
	"feature:poi|visibility:off",
	"feature:transit|visibility:off",
	"feature:administrative|element:labels|visibility:off",
	"feature:road|element:labels|visibility:off",
}

// HidePOIStyles turns off only points of interest and transit, keeping road
// labels for route maps.
var HidePOIStyles = []string{
	"feature:poi|visibility:off",
	"feature:transit|visibility:off",
}

// Marker is a single colored map marker.
type Marker struct {
	Color string // palette name, or "0xRRGGBB"
	Size  string // "small", "mid", or empty for default
	Lat   float64
	Lng   float64
}

// Path is a colored polyline joining the stops of one delivery group.
type Path struct {
	Color  string // hex without prefix; rendered as 0x{Color}FF
	Weight int
	Line   *geom.LineString // XY = (lng, lat)
}

// NewLine builds a path line from (lat, lng) pairs.
func NewLine(latlngs [][2]float64) *geom.LineString {
	flat := make([]float64, 0, len(latlngs)*2)
	for _, ll := range latlngs {
		flat = append(flat, ll[1], ll[0]) // X = lng, Y = lat
	}
	return geom.NewLineStringFlat(geom.XY, flat)
}

// Request describes one static map. Zero-valued fields are omitted from the
// URL.
type Request struct {
	Center  string
	Zoom    int
	Size    string // "500x386"
	Scale   int
	MapType string
	Styles  []string
	Markers []Marker
	Paths   []Path
}

// encode renders the request in the Static Maps parameter format. Parameter
// order is fixed so URLs are deterministic and length checks are stable.
func (r Request) encode(baseURL, key string) string {
	var b strings.Builder
	b.WriteString(baseURL)
	b.WriteByte('?')

	params := make([]string, 0, 8)
	if r.Center != "" {
		params = append(params, "center="+url.QueryEscape(r.Center))
	}
	if r.Zoom > 0 {
		params = append(params, "zoom="+strconv.Itoa(r.Zoom))
	}
	if r.Size != "" {
		params = append(params, "size="+r.Size)
	}
	if r.Scale > 0 {
		params = append(params, "scale="+strconv.Itoa(r.Scale))
	}
	if r.MapType != "" {
		params = append(params, "maptype="+r.MapType)
	}
	b.WriteString(strings.Join(params, "&"))

	for _, s := range r.Styles {
		b.WriteString("&style=")
		b.WriteString(s)
	}
	for _, m := range r.Markers {
		b.WriteString("&markers=")
		b.WriteString(m.param())
	}
	for _, p := range r.Paths {
		b.WriteString("&path=")
		b.WriteString(p.param())
	}

	b.WriteString("&key=")
	b.WriteString(key)
	return b.String()
}

func (m Marker) param() string {
	var parts []string
	if m.Color != "" {
		parts = append(parts, "color:"+m.Color)
	}
	if m.Size != "" {
		parts = append(parts, "size:"+m.Size)
	}
	parts = append(parts, formatLatLng(m.Lat, m.Lng))
	return strings.Join(parts, "|")
}

func (p Path) param() string {
	weight := p.Weight
	if weight == 0 {
		weight = 5
	}
	parts := []string{
		fmt.Sprintf("color:0x%sFF", p.Color),
		fmt.Sprintf("weight:%d", weight),
	}
	if p.Line != nil {
		for i := 0; i < p.Line.NumCoords(); i++ {
			c := p.Line.Coord(i)
			parts = append(parts, formatLatLng(c.Y(), c.X()))
		}
	}
	return strings.Join(parts, "|")
}

func formatLatLng(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}
