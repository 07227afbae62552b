package shows

import "time"

// ShowResponse is the public representation of a show
type ShowResponse struct {
	ID              string `json:"id"`
	ExperienceSlug  string `json:"experience_slug,omitempty"`
	ExperienceTitle string `json:"experience_title,omitempty"`
	ShowDate        string `json:"show_date"`
	ShowTime        string `json:"show_time"`
	DoorsTime       string `json:"doors_time,omitempty"`
	VenueName       string `json:"venue_name"`
	VenueAddress    string `json:"venue_address,omitempty"`
	VenueCity       string `json:"venue_city"`
	VenueState      string `json:"venue_state"`
	VenueNotes      string `json:"venue_notes,omitempty"`
	PriceCents      int64  `json:"price_cents"`
	AvailableSeats  int    `json:"available_seats"`
	Status          string `json:"status"`
}

// ToResponse converts a Show (with its experience preloaded, when available)
// into the public shape.
func (s *Show) ToResponse() ShowResponse {
	resp := ShowResponse{
		ID:             s.ID.String(),
		ShowDate:       s.ShowDate.Format("2006-01-02"),
		ShowTime:       s.ShowTime,
		DoorsTime:      s.DoorsTime,
		VenueName:      s.VenueName,
		VenueAddress:   s.VenueAddress,
		VenueCity:      s.VenueCity,
		VenueState:     s.VenueState,
		VenueNotes:     s.VenueNotes,
		PriceCents:     s.EffectivePriceCents(),
		AvailableSeats: s.AvailableSeats,
		Status:         s.Status.String(),
	}
	if s.Experience != nil {
		resp.ExperienceSlug = s.Experience.Slug
		resp.ExperienceTitle = s.Experience.Title
	}
	return resp
}

// ListShowsResponse wraps the upcoming-show listing
type ListShowsResponse struct {
	Experience string         `json:"experience,omitempty"`
	Shows      []ShowResponse `json:"shows"`
	FetchedAt  time.Time      `json:"fetched_at"`
}
