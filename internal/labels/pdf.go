package labels

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/rotisserie/eris"
)

// Letter page in millimeters with the margins used below.
const (
	pageMargin = 12.0
	bodyWidth  = 215.9 - 2*pageMargin

	mapSizeMM = 90.0
	qrSizeMM  = 32.0
)

func (g *Generator) writePDF(path string, pages []page) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)

	for _, p := range pages {
		g.renderPage(pdf, p)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return eris.Wrap(err, "labels: write pdf")
	}
	return nil
}

func (g *Generator) renderPage(pdf *fpdf.Fpdf, p page) {
	d := p.delivery
	pdf.AddPage()

	// Header line: event on the left, organization on the right.
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(80, 80, 80)
	pdf.CellFormat(bodyWidth/2, 6, g.opts.EventName, "", 0, "L", false, 0, "")
	pdf.CellFormat(bodyWidth/2, 6, g.opts.OrgName, "", 1, "R", false, 0, "")
	pdf.SetDrawColor(120, 120, 120)
	pdf.Line(pageMargin, pdf.GetY()+1, pageMargin+bodyWidth, pdf.GetY()+1)
	pdf.Ln(5)

	// Group banner.
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(0, 0, 0)
	banner := fmt.Sprintf("GROUP %s  -  STOP %d OF %d", d.Group, p.stop, p.groupStops)
	pdf.CellFormat(bodyWidth, 11, banner, "1", 1, "C", false, 0, "")
	pdf.Ln(3)

	textWidth := bodyWidth - mapSizeMM - 6
	topY := pdf.GetY()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(textWidth, 7, d.Name(), "", "L", false)

	pdf.SetFont("Helvetica", "", 12)
	addr := d.Address
	if d.Apartment != "" {
		addr += ", " + d.Apartment
	}
	pdf.MultiCell(textWidth, 6, addr, "", "L", false)
	pdf.MultiCell(textWidth, 6, strings.TrimSpace(d.City+", "+d.State+" "+d.Zip), "", "L", false)
	pdf.Ln(2)

	if p.phone != "" {
		pdf.CellFormat(textWidth, 6, "Phone: "+p.phone, "", 1, "L", false, 0, "")
	}
	if d.Language != "" {
		pdf.CellFormat(textWidth, 6, "Language: "+d.Language, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 14)
	meals := fmt.Sprintf("%s MEALS", d.Meals)
	if d.Boxes != "" {
		meals = fmt.Sprintf("BOX x%s  -  %s", d.Boxes, meals)
	}
	pdf.CellFormat(textWidth, 8, meals, "1", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	for _, note := range []string{d.Notes, d.Comments} {
		if note != "" {
			pdf.MultiCell(textWidth, 5, note, "", "L", false)
		}
	}

	// Location map, pinned to the right of the text column.
	if p.mapPath != "" {
		pdf.ImageOptions(p.mapPath, pageMargin+bodyWidth-mapSizeMM, topY, mapSizeMM, mapSizeMM,
			false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	// QR row near the bottom.
	qrY := 279.4 - pageMargin - qrSizeMM - 8
	pdf.SetXY(pageMargin, qrY-6)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(qrSizeMM, 5, "Apple Maps", "", 0, "C", false, 0, "")
	pdf.SetX(pageMargin + qrSizeMM + 10)
	pdf.CellFormat(qrSizeMM, 5, "Google Maps", "", 1, "C", false, 0, "")
	pdf.ImageOptions(p.appleQR, pageMargin, qrY, qrSizeMM, qrSizeMM,
		false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.ImageOptions(p.googleQR, pageMargin+qrSizeMM+10, qrY, qrSizeMM, qrSizeMM,
		false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	// Version stamp.
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(150, 150, 150)
	pdf.SetXY(pageMargin, 279.4-pageMargin)
	pdf.CellFormat(bodyWidth, 4, "v"+g.version, "", 0, "R", false, 0, "")
}
