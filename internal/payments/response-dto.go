package payments

// AuthorizationResponse carries the client-usable secret for the hosted card
// form plus the external reference of the created intent.
type AuthorizationResponse struct {
	ClientSecret      string `json:"client_secret"`
	ExternalReference string `json:"external_reference"`
	TotalCents        int64  `json:"total_cents"`
}
