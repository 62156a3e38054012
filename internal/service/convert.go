package service

import (
	"github.com/splitr/splitr/internal/balance"
	"github.com/splitr/splitr/internal/calculator"
	"github.com/splitr/splitr/internal/models"
	"github.com/splitr/splitr/internal/rpc"
)

func userToRPC(u *models.User) *rpc.User {
	return &rpc.User{
		UserCode:  u.Code,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}

func groupToRPC(g *models.Group) *rpc.Group {
	members := g.Members
	if members == nil {
		members = []string{}
	}
	return &rpc.Group{
		ID:              g.ID,
		Name:            g.Name,
		OwnerUserCode:   g.OwnerCode,
		MemberUserCodes: members,
		CreatedAt:       g.CreatedAt,
	}
}

func invitationToRPC(inv *models.Invitation) *rpc.Invitation {
	return &rpc.Invitation{
		InvitationID:    inv.ID,
		GroupID:         inv.GroupID,
		GroupName:       inv.GroupName,
		InviterUserCode: inv.InviterCode,
		InviterName:     inv.InviterName,
		InviteeUserCode: inv.InviteeCode,
		Status:          string(inv.Status),
		CreatedAt:       inv.CreatedAt,
	}
}

func expenseToRPC(e *models.Expense) *rpc.Expense {
	return &rpc.Expense{
		ID:                e.ID,
		GroupID:           e.GroupID,
		Title:             e.Title,
		Amount:            e.Amount,
		CreatedByUserCode: e.CreatedBy,
		MemberUserCodes:   e.Participants,
		CreatedAt:         e.CreatedAt,
	}
}

func paymentToRPC(p *models.Payment) *rpc.Payment {
	return &rpc.Payment{
		ID:               p.ID,
		GroupID:          p.GroupID,
		PayerUserCode:    p.Payer,
		ReceiverUserCode: p.Receiver,
		Amount:           p.Amount,
		PaymentDate:      p.PaidAt,
	}
}

func edgesToRPC(edges []models.BalanceEdge) []*rpc.BalanceEdge {
	out := make([]*rpc.BalanceEdge, len(edges))
	for i, e := range edges {
		out[i] = &rpc.BalanceEdge{FromUserCode: e.From, ToUserCode: e.To, Amount: e.Amount}
	}
	return out
}

func memberBalancesToRPC(members []calculator.MemberBalance) []*rpc.MemberBalance {
	out := make([]*rpc.MemberBalance, len(members))
	for i, m := range members {
		out[i] = &rpc.MemberBalance{
			UserCode:    m.UserCode,
			TotalOwedBy: m.OwedBy,
			TotalOwedTo: m.OwedTo,
			Net:         m.Net,
		}
	}
	return out
}

func groupBalancesToRPC(groups []balance.GroupBalance) []*rpc.GroupBalance {
	out := make([]*rpc.GroupBalance, len(groups))
	for i, g := range groups {
		out[i] = &rpc.GroupBalance{
			GroupID:   g.GroupID,
			GroupName: g.GroupName,
			Balance:   g.Balance.Net,
		}
	}
	return out
}
