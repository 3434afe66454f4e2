package identity

// Lifecycle event kinds delivered by the identity provider.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// Event is the envelope of an identity lifecycle webhook.
type Event struct {
	Type string    `json:"type" validate:"required"`
	Data EventUser `json:"data" validate:"required"`
}

// EventUser carries the provider's view of the user. Deletion events only
// populate the id.
type EventUser struct {
	ID             string         `json:"id" validate:"required"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	EmailAddresses []EmailAddress `json:"email_addresses"`
	ImageURL       string         `json:"image_url"`
}

type EmailAddress struct {
	EmailAddress string `json:"email_address" validate:"required,email"`
}

// PrimaryEmail returns the first listed address, the provider's primary.
func (u EventUser) PrimaryEmail() string {
	if len(u.EmailAddresses) == 0 {
		return ""
	}
	return u.EmailAddresses[0].EmailAddress
}
