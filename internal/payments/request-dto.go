package payments

// CreateAuthorizationRequest is the checkout payload. The unit price is
// echoed by the storefront UI and re-verified against the show's effective
// price server-side.
type CreateAuthorizationRequest struct {
	ShowID            string `json:"show_id" binding:"required,uuid"`
	ExperienceSlug    string `json:"experience_slug" binding:"required"`
	CustomerName      string `json:"customer_name" binding:"required,min=1,max=255"`
	CustomerEmail     string `json:"customer_email" binding:"omitempty,email"`
	CustomerPhone     string `json:"customer_phone" binding:"omitempty,max=30"`
	ContactPreference string `json:"contact_preference" binding:"omitempty,oneof=email sms both"`
	TicketCount       int    `json:"ticket_count" binding:"required,min=1,max=20"`
	UnitPriceCents    int64  `json:"unit_price_cents" binding:"required,min=0"`
}
