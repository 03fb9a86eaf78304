package usecase

import (
	"bytes"
	"fmt"

	"venue-booking/internal/data/entity"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// renderReceipt builds a one page PDF for the booking with a QR code of its id.
// venue may be nil when the venue has since been deleted.
func renderReceipt(b *entity.Booking, venue *entity.Venue) ([]byte, error) {
	qrPNG, err := qrcode.Encode(b.ID.String(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode booking QR: %w", err)
	}

	venueName := "(deleted venue)"
	location := ""
	if venue != nil {
		venueName = venue.Name
		location = venue.Location
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Booking Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	rows := []struct{ label, value string }{
		{"Booking ID", b.ID.String()},
		{b.VenueType.Label(), venueName},
		{"Location", location},
		{"Date", b.Date.Format(entity.DateLayout)},
		{"Time", b.Time},
		{"Duration", fmt.Sprintf("%d hour(s)", b.Duration)},
		{"Guests", fmt.Sprintf("%d", b.Guests)},
		{"Customer", b.CustomerName},
		{"Email", b.CustomerEmail},
		{"Phone", b.CustomerPhone},
		{"Total", fmt.Sprintf("%.2f", b.TotalPrice)},
		{"Status", string(b.Status)},
	}
	for _, row := range rows {
		pdf.CellFormat(40, 8, row.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, row.value, "", 1, "L", false, 0, "")
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 20, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
