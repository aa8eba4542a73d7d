package transport

// Envelope wraps every handler response. Success responses carry the
// payload under data; error responses carry the domain error code and
// a message safe to show the client. Meta holds endpoint-specific
// extras, such as the per-service breakdown on a degraded health
// check.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// NewSuccess wraps a payload in a success envelope.
func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewError builds an error envelope from a domain error code and a
// client-safe message.
func NewError(code, message string, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  message,
		Meta:   meta,
	}
}
