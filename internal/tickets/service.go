package tickets

import (
	"bytes"
	"context"
	"fmt"

	"stagedoor/internal/bookings"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// Service renders downloadable PDF tickets for confirmed bookings
type Service interface {
	RenderTicketPDF(ctx context.Context, ticketCode string) ([]byte, error)
}

type service struct {
	bookingService bookings.Service
}

func NewService(bookingService bookings.Service) Service {
	return &service{bookingService: bookingService}
}

// RenderTicketPDF looks the booking up by door code and renders the ticket.
// Refunded bookings have no valid ticket.
func (s *service) RenderTicketPDF(ctx context.Context, ticketCode string) ([]byte, error) {
	booking, err := s.bookingService.GetByTicketCode(ctx, ticketCode)
	if err != nil {
		return nil, err
	}
	if booking.IsRefunded() {
		return nil, fmt.Errorf("ticket %s was refunded: %w", ticketCode, errRefundedTicket)
	}
	if booking.Show == nil || booking.Show.Experience == nil {
		return nil, fmt.Errorf("booking %s is missing show details", booking.ID)
	}

	qrPNG, err := qrcode.Encode(booking.TicketCode, qrcode.Medium, 512)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	return buildTicketPDF(booking, qrPNG)
}

func buildTicketPDF(booking *bookings.Booking, qrPNG []byte) ([]byte, error) {
	show := booking.Show

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 24)
	pdf.CellFormat(0, 12, show.Experience.Title, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, "Admission Ticket", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// QR code, centered
	imgOpts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	imgName := fmt.Sprintf("qr_%s", booking.TicketCode)
	pdf.RegisterImageOptionsReader(imgName, imgOpts, bytes.NewReader(qrPNG))
	qrX := (210.0 - 90.0) / 2
	pdf.ImageOptions(imgName, qrX, pdf.GetY(), 90, 90, false, imgOpts, 0, "")
	pdf.Ln(94)

	// Door code under the QR
	pdf.SetFont("Arial", "B", 28)
	pdf.CellFormat(0, 12, booking.TicketCode, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.5)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(8)

	// Detail rows
	writeRow := func(label, value string) {
		pdf.SetFont("Arial", "", 12)
		pdf.SetX(30)
		pdf.CellFormat(45, 8, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 12)
		pdf.MultiCell(105, 8, value, "", "L", false)
	}

	writeRow("Guest", booking.CustomerName)
	writeRow("Date", show.ShowDate.Format("Monday, January 2, 2006"))
	writeRow("Showtime", show.ShowTime)
	if show.DoorsTime != "" {
		writeRow("Doors", show.DoorsTime)
	}
	venue := show.VenueName
	if show.VenueAddress != "" {
		venue += ", " + show.VenueAddress
	}
	venue += fmt.Sprintf(", %s, %s", show.VenueCity, show.VenueState)
	writeRow("Venue", venue)
	writeRow("Tickets", fmt.Sprintf("%d", booking.TicketCount))
	writeRow("Total", fmt.Sprintf("$%d.%02d", booking.TotalCents/100, booking.TotalCents%100))

	if show.VenueNotes != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 10)
		pdf.SetX(30)
		pdf.MultiCell(150, 5, show.VenueNotes, "", "L", false)
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, "Present this ticket or your door code at entry.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render ticket PDF: %w", err)
	}
	return buf.Bytes(), nil
}
