// Package boardingpass renders the printable form of a reservation's
// credential.
package boardingpass

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Domenick1991/busreservation/internal/domain"
	"github.com/boombuler/barcode/qr"
	"github.com/phpdave11/gofpdf"
	"github.com/phpdave11/gofpdf/contrib/barcode"
)

const (
	timeFormat = "2006-01-02 15:04 MST"
	// qrSize is the side of the printed QR code in mm.
	qrSize = 50.0
)

// Render returns a one-page A5 PDF with the trip details and the credential
// to be presented at boarding, both as a QR code and as text.
func Render(r *domain.Reservation, d *domain.Departure) ([]byte, error) {
	if r == nil || d == nil {
		return nil, fmt.Errorf("boarding pass: reservation and departure are required")
	}

	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetTitle("Boarding pass", false)
	pdf.SetAuthor("busreservation", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOARDING PASS")
	pdf.Ln(12)

	route := d.Route
	if r.RouteOverride != "" {
		route = r.RouteOverride
	}

	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		fmt.Sprintf("Reservation : #%d", r.ID),
		fmt.Sprintf("Passenger   : %s", safe(r.PassengerName, fmt.Sprintf("user %d", r.UserID))),
		fmt.Sprintf("Bus         : %s", safe(d.BusNumber, "-")),
		fmt.Sprintf("Route       : %s", safe(route, "-")),
		fmt.Sprintf("Seat        : %d", r.SeatNumber),
		fmt.Sprintf("Departure   : %s", r.DepartureTime.Format(timeFormat)),
		fmt.Sprintf("Board before: %s", r.ValidUntil.Format(timeFormat)),
		fmt.Sprintf("Status      : %s", strings.ToUpper(string(r.Status))),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pageW, _ := pdf.GetPageSize()
	y := pdf.GetY()
	key := barcode.RegisterQR(pdf, r.Credential, qr.M, qr.Auto)
	barcode.Barcode(pdf, key, (pageW-qrSize)/2, y, qrSize, qrSize, false)
	pdf.SetY(y + qrSize + 4)

	// Printed credential for scanners that cannot read the code.
	pdf.SetFont("Courier", "B", 9)
	pdf.MultiCell(0, 5, r.Credential, "1", "C", false)

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "Present this pass to the conductor. Boarding after the time above refunds the ticket price only; the deposit is retained.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("boarding pass: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename is the suggested download name for a reservation's pass.
func Filename(r *domain.Reservation) string {
	return fmt.Sprintf("boarding-pass-%d-seat-%d.pdf", r.ID, r.SeatNumber)
}

func safe(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
