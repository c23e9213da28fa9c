package connect

import "encoding/json"

// DebugResponse mirrors the raw provider answer to a sample GraphQL
// query so an operator can eyeball a token by hand.
type DebugResponse struct {
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body"`
}
