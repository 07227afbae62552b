package response

// Envelope is the wire shape every API response uses, success or error.
// Data carries the payload on success; Errors carries validation details.
type Envelope struct {
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
}
