package dto

// CreateRegistrationRequest carries the registration form as submitted.
// Missing eventType or teamSize fall back to the default selection
// (combo, team of 2). TeamMembers holds the name slots in form order.
type CreateRegistrationRequest struct {
	TeamName      string   `json:"teamName"`
	EventType     string   `json:"eventType"`
	TeamSize      int      `json:"teamSize"`
	TeamMembers   []string `json:"teamMembers"`
	Mobile        string   `json:"mobile"`
	TransactionID string   `json:"transactionId"`
}

type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
