package connect

// DisconnectRequest asks the sink to tear down the stored connection
// for a phone number. Trigger is optional and defaults server-side.
type DisconnectRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Trigger     string `json:"trigger,omitempty"`
}

// DisconnectResponse reports the outcome of the disconnect relay.
type DisconnectResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
