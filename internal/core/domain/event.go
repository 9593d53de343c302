package domain

// EventKind identifies the settlement lifecycle change an Event describes.
type EventKind string

const (
	EventExpenseCreated  EventKind = "expense.created"
	EventPaymentMarked   EventKind = "payment.marked"
	EventPaymentApproved EventKind = "payment.approved"
	EventExpenseDeleted  EventKind = "expense.deleted"
)

// Event is the structured notification handed to the Notifier collaborator.
// Delivery is fire-and-forget; a failed notification never fails the
// operation that produced it.
type Event struct {
	Kind         EventKind      `json:"kind"`
	Participants []string       `json:"participants"` // Usernames the event is addressed to
	Payload      map[string]any `json:"payload,omitempty"`
}
