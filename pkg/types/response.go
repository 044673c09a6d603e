package types

// SuccessEnvelope is the wire shape for every successful response.
type SuccessEnvelope struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
	Error   bool   `json:"error"`
}

// ErrorEnvelope is the wire shape for rejected requests. Data is always the
// literal false. Error carries true for client errors and the failure
// message for internal ones.
type ErrorEnvelope struct {
	Data    bool   `json:"data"`
	Message string `json:"message"`
	Error   any    `json:"error"`
	Details any    `json:"details,omitempty"`
}
