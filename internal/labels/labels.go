// Package labels generates the printable delivery handout PDF: one page per
// stop with the recipient details, a location map, and navigation QR codes.
package labels

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
	"github.com/rotisserie/eris"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/tdic-outreach/mealroute/internal/model"
	"github.com/tdic-outreach/mealroute/pkg/staticmap"
)

const (
	appleMapsBase  = "https://maps.apple.com/?daddr="
	googleMapsBase = "https://www.google.com/maps/place/"

	qrPixels    = 256
	labelMapPx  = "500x500"
	defaultZoom = 15
)

// MapFetcher fetches static map image bytes. Satisfied by *staticmap.Client.
type MapFetcher interface {
	FetchPNG(ctx context.Context, req staticmap.Request) ([]byte, error)
}

// Options configure label generation.
type Options struct {
	// OutputDir receives the PDF plus its img/, qr/ and summary artifacts.
	OutputDir string
	// Zoom for the per-stop location map. Defaults to 15.
	Zoom int
	// EventName and OrgName appear in the page header.
	EventName string
	OrgName   string
}

// Generator builds the labels PDF for a grouped delivery list.
type Generator struct {
	maps    MapFetcher
	opts    Options
	version string
}

// NewGenerator creates a label generator. Each generator carries a short
// version stamp printed on every page so reprints can be told apart.
func NewGenerator(maps MapFetcher, opts Options) *Generator {
	if opts.Zoom <= 0 {
		opts.Zoom = defaultZoom
	}
	return &Generator{
		maps:    maps,
		opts:    opts,
		version: uuid.NewString()[:8],
	}
}

// Version returns the stamp printed on every generated page.
func (g *Generator) Version() string { return g.version }

// Generate renders one PDF page per delivery, in group order, and returns the
// PDF path. Map images and QR codes are written under the output directory so
// a failed run can be inspected.
func (g *Generator) Generate(ctx context.Context, grouped []model.GroupedDelivery) (string, error) {
	imgDir := filepath.Join(g.opts.OutputDir, "img")
	qrDir := filepath.Join(g.opts.OutputDir, "qr")
	for _, dir := range []string{imgDir, qrDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", eris.Wrap(err, "labels: create build dir")
		}
	}

	pages := make([]page, 0, len(grouped))
	stopsInGroup := map[string]int{}
	for _, d := range grouped {
		stopsInGroup[d.Group]++
	}
	stopSoFar := map[string]int{}

	for _, d := range grouped {
		stopSoFar[d.Group]++
		p := page{
			delivery:   d,
			stop:       stopSoFar[d.Group],
			groupStops: stopsInGroup[d.Group],
			phone:      formatPhone(d.Phone),
		}

		var err error
		if p.mapPath, err = g.fetchMap(ctx, imgDir, d); err != nil {
			zap.L().Warn("label map fetch failed, page will omit map",
				zap.String("id", d.ID),
				zap.Error(err))
		}
		if p.appleQR, p.googleQR, err = writeQRCodes(qrDir, d); err != nil {
			return "", err
		}
		pages = append(pages, p)
	}

	pdfPath := filepath.Join(g.opts.OutputDir, "delivery_labels.pdf")
	if err := g.writePDF(pdfPath, pages); err != nil {
		return "", err
	}
	if err := g.writeSummary(filepath.Join(g.opts.OutputDir, "labels_summary.csv"), pages); err != nil {
		return "", err
	}

	zap.L().Info("labels generated",
		zap.Int("pages", len(pages)),
		zap.String("version", g.version),
		zap.String("pdf", pdfPath))
	return pdfPath, nil
}

type page struct {
	delivery   model.GroupedDelivery
	stop       int
	groupStops int
	phone      string
	mapPath    string
	appleQR    string
	googleQR   string
}

func (g *Generator) fetchMap(ctx context.Context, imgDir string, d model.GroupedDelivery) (string, error) {
	req := staticmap.Request{
		Center:  d.FullAddress(),
		Zoom:    g.opts.Zoom,
		Size:    labelMapPx,
		MapType: "roadmap",
		Markers: []staticmap.Marker{{Color: "red", Lat: d.Latitude, Lng: d.Longitude}},
	}
	body, err := g.maps.FetchPNG(ctx, req)
	if err != nil {
		return "", err
	}

	path := filepath.Join(imgDir, "map_"+d.ID+".png")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", eris.Wrap(err, "labels: write map image")
	}
	return path, nil
}

func writeQRCodes(qrDir string, d model.GroupedDelivery) (apple, google string, err error) {
	apple = filepath.Join(qrDir, "apple_"+d.ID+".png")
	google = filepath.Join(qrDir, "google_"+d.ID+".png")

	if err = qrcode.WriteFile(appleMapsBase+d.MapsQuery(), qrcode.Low, qrPixels, apple); err != nil {
		return "", "", eris.Wrap(err, "labels: apple qr")
	}
	if err = qrcode.WriteFile(googleMapsBase+d.MapsQuery(), qrcode.Low, qrPixels, google); err != nil {
		return "", "", eris.Wrap(err, "labels: google qr")
	}
	return apple, google, nil
}

func (g *Generator) writeSummary(path string, pages []page) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "labels: create summary")
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Group", "Stop", "ID", "Name", "Address", "Phone", "Meals", "Version"}); err != nil {
		return eris.Wrap(err, "labels: write summary header")
	}
	for _, p := range pages {
		d := p.delivery
		row := []string{
			d.Group,
			fmt.Sprintf("%d/%d", p.stop, p.groupStops),
			d.ID,
			d.Name(),
			d.FullAddress(),
			p.phone,
			d.Meals,
			g.version,
		}
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "labels: write summary row")
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "labels: flush summary")
}

// formatPhone renders a US number in national format, falling back to the raw
// roster value when it does not parse.
func formatPhone(raw string) string {
	if raw == "" {
		return ""
	}
	num, err := phonenumbers.Parse(raw, "US")
	if err != nil {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.NATIONAL)
}
