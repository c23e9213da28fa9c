// Package connect contains DTOs for the Jobber connect endpoints.
package connect

// StartRequest carries the phone number that identifies the user
// initiating the OAuth handshake.
type StartRequest struct {
	PhoneNumber string `json:"phone_number"`
}

// StartResponse returns the provider authorization URL the caller
// should redirect the user to.
type StartResponse struct {
	URL string `json:"url"`
}
