package experiences

// DefaultCatalog returns the seed catalog of bookable experiences. The
// storefront treats these rows as read-only after seeding.
func DefaultCatalog() []Experience {
	return []Experience{
		{
			Slug:        "secret-ballads",
			Title:       "Secret Ballads",
			Subtitle:    "An after-hours songwriter salon",
			Description: "An intimate songwriter salon featuring classic ballads, forgotten gems, and personal stories, performed up close. Limited to 10 seats.",
			PriceCents:  7500,
			ImageURL:    "/images/secret-ballads.jpg",
		},
		{
			Slug:        "everybody-knows-this-song",
			Title:       "Everybody Knows This Song",
			Subtitle:    "The songs that lived on the radio",
			Description: "A live, piano-driven journey through the golden age of FM radio, performed with stories, context, and feeling you won't get from a playlist.",
			PriceCents:  6000,
			ImageURL:    "/images/everybody-knows.png",
		},
		{
			Slug:        "heart-of-harry",
			Title:       "The Heart of Harry",
			Subtitle:    "The music and inner life of Harry Nilsson",
			Description: "A deeply intimate solo piano and voice journey through the music and inner life of Harry Nilsson.",
			PriceCents:  6500,
			ImageURL:    "/images/heart-of-harry.jpg",
		},
		{
			Slug:        "private-concerts",
			Title:       "Private & In-Home Concerts",
			Subtitle:    "Bring the experience to your space",
			Description: "Bring one of these experiences, or a curated set of classic songwriter favorites, into your own home, loft, or private space.",
			PriceCents:  25000,
			ImageURL:    "/images/private-concerts.jpg",
		},
	}
}
