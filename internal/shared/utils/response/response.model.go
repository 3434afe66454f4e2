package response

// APIResponse is the uniform envelope every endpoint answers with.
// Failures always carry Success=false plus a human-readable message.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
