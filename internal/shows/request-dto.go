package shows

// CreateShowRequest is the admin payload for scheduling a show
type CreateShowRequest struct {
	ExperienceSlug string `json:"experience_slug" binding:"required"`
	ShowDate       string `json:"show_date" binding:"required,datetime=2006-01-02"`
	ShowTime       string `json:"show_time" binding:"required"`
	DoorsTime      string `json:"doors_time" binding:"omitempty"`
	VenueName      string `json:"venue_name" binding:"required,min=2,max=255"`
	VenueAddress   string `json:"venue_address" binding:"omitempty,max=255"`
	VenueCity      string `json:"venue_city" binding:"omitempty,max=100"`
	VenueState     string `json:"venue_state" binding:"omitempty,max=50"`
	VenueNotes     string `json:"venue_notes" binding:"omitempty,max=2000"`
	PriceCents     *int64 `json:"price_cents" binding:"omitempty,min=0"`
	AvailableSeats int    `json:"available_seats" binding:"required,min=1,max=1000"`
}

// ListShowsQuery filters the public upcoming-shows listing
type ListShowsQuery struct {
	Experience      string `form:"experience"`
	IncludeSoldOut  bool   `form:"include_sold_out"`
}
