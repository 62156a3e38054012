package models

// InvitationStatus is the lifecycle state of an invitation.
// There is no rejected state: an invitation stays pending until accepted.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
)

// Invitation asks a user to join a group.
type Invitation struct {
	ID          string
	GroupID     string
	InviteeCode string
	InviterCode string
	Status      InvitationStatus
	CreatedAt   int64
	AcceptedAt  int64

	// GroupName and InviterName are filled in by listing queries for display.
	GroupName   string
	InviterName string
}
