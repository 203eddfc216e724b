package services

import (
	"bytes"
	"context"
	"fmt"

	"busbooking/internal/domain/models"
	"busbooking/internal/utils"

	"github.com/phpdave11/gofpdf"
	"go.uber.org/zap"
)

// DocsService renders the e-ticket PDF for a reservation code.
type DocsService struct {
	Issuer ReservationIssuer
	Log    *zap.Logger
	Loader func(ctx context.Context, code string) (models.BookingView, error)
	Now    func() string
}

func (s DocsService) GenerateETicket(ctx context.Context, code string) ([]byte, string, error) {
	v, err := s.load(ctx, code)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.Log, utils.RequestIDFrom(ctx), "docs", "generate_eticket", "e-ticket rendered", zap.String("pnr", v.PNR))
	return buildETicketPDF(v, s.printedAt())
}

func (s DocsService) load(ctx context.Context, code string) (models.BookingView, error) {
	if s.Loader != nil {
		return s.Loader(ctx, code)
	}
	return s.Issuer.Lookup(ctx, code)
}

func (s DocsService) printedAt() string {
	if s.Now != nil {
		return s.Now()
	}
	return utils.FormatDateTime(utils.NowUTC())
}

func buildETicketPDF(v models.BookingView, printedAt string) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket "+v.PNR, false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "PNR: "+v.PNR)
	pdf.Ln(10)

	// Core fonts are cp1252; the arrow in the route label is not encodable.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Passenger      : %s", utils.Safe(v.Name, "Guest")),
		fmt.Sprintf("Route          : %s", utils.Safe(asciiRoute(v.Route), "-")),
		fmt.Sprintf("Bus            : %s", utils.Safe(v.BusNumber, "-")),
		fmt.Sprintf("Seat           : %d", v.SeatNumber),
		fmt.Sprintf("Departure      : %s %s", utils.DisplayDate(v.DepartureDate), utils.Safe(v.DepartureTime, "-")),
		fmt.Sprintf("Fare           : %s", utils.FormatRupees(v.Fare)),
		fmt.Sprintf("Status         : %s", v.Status),
		fmt.Sprintf("Booked on      : %s", utils.FormatDateTime(v.BookingDate)),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, tr(line))
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "This e-ticket is valid for one passenger (one seat). Please show it with a photo ID at boarding.", "", "", false)
	pdf.Ln(2)
	pdf.Cell(0, 6, "Printed: "+printedAt)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("render e-ticket: %w", err)
	}

	filename := fmt.Sprintf("ETICKET_%s_%s.pdf", v.PNR, utils.SafeFilenamePart(v.Name))
	return buf.Bytes(), filename, nil
}

func asciiRoute(route string) string {
	out := make([]rune, 0, len(route))
	for _, r := range route {
		if r == '→' {
			out = append(out, '-', '>')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
