package campus

import (
	"context"
	"fmt"

	"github.com/skip2/go-qrcode"
)

const ticketSize = 256

// TicketPayload is the text encoded in a registration's QR ticket. Organizers
// scan it at the door and look the registration up by id.
func TicketPayload(r *Registration) string {
	return fmt.Sprintf("campusevents:registration:%s:event:%s:student:%s", r.ID, r.EventID, r.StudentID)
}

// Ticket renders a PNG QR code for a registration.
func (s *Service) Ticket(ctx context.Context, regID string) ([]byte, error) {
	const failMsg = "Error generating ticket"
	r, err := s.store.GetRegistration(ctx, regID)
	if err != nil {
		return nil, internal(failMsg, err)
	}
	if r == nil {
		return nil, ErrRegistrationNotFound
	}
	if r.Status == StatusCancelled {
		return nil, invalid("Registration was cancelled")
	}
	png, err := qrcode.Encode(TicketPayload(r), qrcode.Medium, ticketSize)
	if err != nil {
		return nil, internal(failMsg, err)
	}
	return png, nil
}
