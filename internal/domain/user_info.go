package domain

// UserInfo is the requester and ticket context shown on the form.
type UserInfo struct {
	TicketNumber string `json:"ticket_number" yaml:"ticket_number"`
	PhoneNumber  string `json:"phone_number" yaml:"phone_number"`
	Name         string `json:"name" yaml:"name"`
	Email        string `json:"email" yaml:"email"`
}

const (
	TicketNumberUnassigned = "Not assigned"
	ValueUnavailable       = "Not available"
)

// PlaceholderUserInfo returns the record displayed before a successful load.
func PlaceholderUserInfo() UserInfo {
	return UserInfo{
		TicketNumber: TicketNumberUnassigned,
		PhoneNumber:  ValueUnavailable,
		Name:         ValueUnavailable,
		Email:        ValueUnavailable,
	}
}
