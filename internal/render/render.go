// Package render composes static-map requests for the delivery overview map
// and the per-group route maps.
package render

import (
	"github.com/tdic-outreach/mealroute/internal/cluster"
	"github.com/tdic-outreach/mealroute/internal/groups"
	"github.com/tdic-outreach/mealroute/internal/model"
	"github.com/tdic-outreach/mealroute/pkg/staticmap"
)

// routePartCount is how many maps a too-long route request is split into.
const routePartCount = 3

// Overview builds the all-deliveries map request: one small colored marker
// per stop, colored by group, with POI and label clutter hidden. The result
// is fetched at API size and resized to letter for printing.
func Overview(deliveries []model.Delivery, assignment cluster.Assignment) staticmap.Request {
	req := staticmap.Request{
		Size:    "500x386",
		MapType: "roadmap",
		Styles:  staticmap.HideLabelStyles,
	}
	for i, d := range deliveries {
		req.Markers = append(req.Markers, staticmap.Marker{
			Color: staticmap.ColorForGroup(assignment[i]),
			Size:  "small",
			Lat:   d.Latitude,
			Lng:   d.Longitude,
		})
	}
	return req
}

// RoutePart is one route map request plus the filename suffix it should be
// saved under ("" for a single whole map, "_part1" etc. when split).
type RoutePart struct {
	Request staticmap.Request
	Suffix  string
}

// Routes builds route map requests for the given groups: a path joining each
// multi-stop group and a mid-size marker for singleton groups. When the
// request URL would exceed the Static Maps limit the groups are split across
// three maps, keeping each group's palette color stable.
func Routes(grouped []groups.Group, urlLen func(staticmap.Request) int) []RoutePart {
	whole := routeRequest(grouped, 0)
	if urlLen(whole) <= staticmap.MaxURLLen {
		return []RoutePart{{Request: whole}}
	}

	chunkSize := len(grouped)/routePartCount + 1
	var parts []RoutePart
	for chunk := 0; chunk < routePartCount; chunk++ {
		start := chunk * chunkSize
		if start >= len(grouped) {
			break
		}
		end := min(start+chunkSize, len(grouped))
		parts = append(parts, RoutePart{
			Request: routeRequest(grouped[start:end], start),
			Suffix:  "_part" + string(rune('1'+chunk)),
		})
	}
	return parts
}

func routeRequest(grouped []groups.Group, colorOffset int) staticmap.Request {
	req := staticmap.Request{
		Size:    "2048x2048",
		Scale:   2,
		MapType: "roadmap",
		Styles:  staticmap.HidePOIStyles,
	}

	for i, g := range grouped {
		color := staticmap.ColorForGroup(i + colorOffset)
		hex := staticmap.ColorHex(color)

		if len(g.Deliveries) == 1 {
			d := g.Deliveries[0]
			req.Markers = append(req.Markers, staticmap.Marker{
				Color: "0x" + hex,
				Size:  "mid",
				Lat:   d.Latitude,
				Lng:   d.Longitude,
			})
			continue
		}

		req.Paths = append(req.Paths, staticmap.Path{
			Color:  hex,
			Weight: 5,
			Line:   staticmap.NewLine(latLngs(g.Deliveries)),
		})
	}
	return req
}

func latLngs(deliveries []model.GroupedDelivery) [][2]float64 {
	out := make([][2]float64, len(deliveries))
	for i, d := range deliveries {
		out[i] = [2]float64{d.Latitude, d.Longitude}
	}
	return out
}
