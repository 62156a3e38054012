package rpc

import (
	"github.com/shopspring/decimal"

	"github.com/splitr/splitr/internal/money"
)

// User is the public profile of an account.
type User struct {
	UserCode  string `json:"userCode"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	CreatedAt int64  `json:"createdAt"`
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

type UpdateCurrentUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type UpdateCurrentUserResponse struct {
	User *User `json:"user"`
}

type DeleteCurrentUserRequest struct{}

type DeleteCurrentUserResponse struct{}

// Group is a group as seen by one of its members.
type Group struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	OwnerUserCode   string   `json:"ownerUserCode"`
	MemberUserCodes []string `json:"memberUserCodes"`
	CreatedAt       int64    `json:"createdAt"`
}

type CreateGroupRequest struct {
	Name string `json:"name"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type UpdateGroupRequest struct {
	GroupID string `json:"groupId"`
	Name    string `json:"name"`
}

type UpdateGroupResponse struct {
	Group *Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"groupId"`
}

type DeleteGroupResponse struct{}

type ListMembersRequest struct {
	GroupID string `json:"groupId"`
}

type ListMembersResponse struct {
	Members []*User `json:"members"`
}

// Invitation is a pending request for a user to join a group.
type Invitation struct {
	InvitationID    string `json:"invitationId"`
	GroupID         string `json:"groupId"`
	GroupName       string `json:"groupName"`
	InviterUserCode string `json:"inviterUserCode"`
	InviterName     string `json:"inviterName"`
	InviteeUserCode string `json:"inviteeUserCode"`
	Status          string `json:"status"`
	CreatedAt       int64  `json:"createdAt"`
}

type InviteMemberRequest struct {
	GroupID  string `json:"groupId"`
	UserCode string `json:"userCode"`
}

type InviteMemberResponse struct {
	Invitation *Invitation `json:"invitation"`
}

// AcceptInvitationRequest names the invitation directly or by its group.
type AcceptInvitationRequest struct {
	InvitationID string `json:"invitationId,omitempty"`
	GroupID      string `json:"groupId,omitempty"`
}

type AcceptInvitationResponse struct {
	Group *Group `json:"group"`
}

type ListInvitationsRequest struct{}

type ListInvitationsResponse struct {
	Invitations []*Invitation `json:"invitations"`
}

type RemoveMemberRequest struct {
	GroupID  string `json:"groupId"`
	UserCode string `json:"userCode"`
}

type RemoveMemberResponse struct{}

// Expense is a shared cost paid by its creator.
type Expense struct {
	ID                string      `json:"id"`
	GroupID           string      `json:"groupId"`
	Title             string      `json:"title"`
	Amount            money.Cents `json:"amount"`
	CreatedByUserCode string      `json:"createdByUserCode"`
	MemberUserCodes   []string    `json:"memberUserCodes"`
	CreatedAt         int64       `json:"createdAt"`
}

type CreateExpenseRequest struct {
	GroupID         string          `json:"groupId"`
	Title           string          `json:"title"`
	Amount          decimal.Decimal `json:"amount"`
	MemberUserCodes []string        `json:"memberUserCodes"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"groupId"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

// Payment is money the payer already handed to the receiver.
type Payment struct {
	ID               string      `json:"id"`
	GroupID          string      `json:"groupId"`
	PayerUserCode    string      `json:"payerUserCode"`
	ReceiverUserCode string      `json:"receiverUserCode"`
	Amount           money.Cents `json:"amount"`
	PaymentDate      int64       `json:"paymentDate"`
}

type CreatePaymentRequest struct {
	GroupID          string          `json:"groupId"`
	ReceiverUserCode string          `json:"receiverUserCode"`
	Amount           decimal.Decimal `json:"amount"`
}

type CreatePaymentResponse struct {
	Payment *Payment `json:"payment"`
}

type ListPaymentsRequest struct {
	GroupID string `json:"groupId"`
}

type ListPaymentsResponse struct {
	Payments []*Payment `json:"payments"`
}

// BalanceEdge states that FromUserCode owes ToUserCode Amount.
type BalanceEdge struct {
	FromUserCode string      `json:"fromUserCode"`
	ToUserCode   string      `json:"toUserCode"`
	Amount       money.Cents `json:"amount"`
}

// MemberBalance aggregates the edges touching one member.
type MemberBalance struct {
	UserCode    string      `json:"userCode"`
	TotalOwedBy money.Cents `json:"totalOwedBy"`
	TotalOwedTo money.Cents `json:"totalOwedTo"`
	Net         money.Cents `json:"net"`
}

type GetGroupBalancesRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupBalancesResponse struct {
	GroupID  string           `json:"groupId"`
	Balances []*BalanceEdge   `json:"balances"`
	Members  []*MemberBalance `json:"members"`
	// Simplified is set when transitive netting produced the balances.
	Simplified bool `json:"simplified"`
}

type GetUserBalancesRequest struct{}

// GroupBalance is the caller's net position in one group.
type GroupBalance struct {
	GroupID   string      `json:"groupId"`
	GroupName string      `json:"groupName"`
	Balance   money.Cents `json:"balance"`
}

// GetUserBalancesResponse follows the client's naming: TotalOwedToOthers is
// what the caller owes, TotalOwedByOthers what others owe the caller.
type GetUserBalancesResponse struct {
	TotalOwedToOthers money.Cents     `json:"totalOwedToOthers"`
	TotalOwedByOthers money.Cents     `json:"totalOwedByOthers"`
	NetBalance        money.Cents     `json:"netBalance"`
	GroupBalances     []*GroupBalance `json:"groupBalances"`
}
