package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/splitr/splitr/internal/calculator"
	"github.com/splitr/splitr/internal/events"
	"github.com/splitr/splitr/internal/rpc"
)

func TestCreateGroup(t *testing.T) {
	env := setupTestServer(t, calculator.Options{})
	alice := env.register(t, "alice")

	resp, err := env.groups.CreateGroup(context.Background(), authed(&rpc.CreateGroupRequest{Name: "Roommates"}, alice.token))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	if resp.Msg.Group.ID == "" {
		t.Error("expected non-empty group ID")
	}
	if resp.Msg.Group.Name != "Roommates" {
		t.Errorf("name: expected 'Roommates', got '%s'", resp.Msg.Group.Name)
	}
	if resp.Msg.Group.OwnerUserCode != alice.code {
		t.Errorf("owner: expected %s, got %s", alice.code, resp.Msg.Group.OwnerUserCode)
	}
	if len(resp.Msg.Group.MemberUserCodes) != 1 {
		t.Errorf("members: expected 1, got %d", len(resp.Msg.Group.MemberUserCodes))
	}
	if resp.Msg.Group.CreatedAt == 0 {
		t.Error("expected non-zero CreatedAt")
	}

	_, err = env.groups.CreateGroup(context.Background(), authed(&rpc.CreateGroupRequest{Name: "  "}, alice.token))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestInvitations(t *testing.T) {
	env := setupTestServer(t, calculator.Options{})
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	carol := env.register(t, "carol")

	created, err := env.groups.CreateGroup(ctx, authed(&rpc.CreateGroupRequest{Name: "Trip"}, alice.token))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	groupID := created.Msg.Group.ID

	t.Run("unknown invitee", func(t *testing.T) {
		_, err := env.groups.InviteMember(ctx, authed(&rpc.InviteMemberRequest{GroupID: groupID, UserCode: "ZZZZZZZZ"}, alice.token))
		assertCode(t, err, connect.CodeNotFound)
	})

	t.Run("existing member", func(t *testing.T) {
		_, err := env.groups.InviteMember(ctx, authed(&rpc.InviteMemberRequest{GroupID: groupID, UserCode: alice.code}, alice.token))
		assertCode(t, err, connect.CodeAlreadyExists)
	})

	t.Run("non-member cannot invite", func(t *testing.T) {
		_, err := env.groups.InviteMember(ctx, authed(&rpc.InviteMemberRequest{GroupID: groupID, UserCode: carol.code}, bob.token))
		assertCode(t, err, connect.CodePermissionDenied)
	})

	invited, err := env.groups.InviteMember(ctx, authed(&rpc.InviteMemberRequest{GroupID: groupID, UserCode: bob.code}, alice.token))
	if err != nil {
		t.Fatalf("InviteMember failed: %v", err)
	}

	t.Run("duplicate invitation", func(t *testing.T) {
		_, err := env.groups.InviteMember(ctx, authed(&rpc.InviteMemberRequest{GroupID: groupID, UserCode: bob.code}, alice.token))
		assertCode(t, err, connect.CodeAlreadyExists)
	})

	t.Run("invitee lists invitation", func(t *testing.T) {
		resp, err := env.groups.ListInvitations(ctx, authed(&rpc.ListInvitationsRequest{}, bob.token))
		if err != nil {
			t.Fatalf("ListInvitations failed: %v", err)
		}
		if len(resp.Msg.Invitations) != 1 {
			t.Fatalf("expected 1 invitation, got %d", len(resp.Msg.Invitations))
		}
		inv := resp.Msg.Invitations[0]
		if inv.GroupName != "Trip" || inv.InviterName != "alice Test" {
			t.Errorf("unexpected invitation: %+v", inv)
		}
	})

	t.Run("only the invitee can accept", func(t *testing.T) {
		_, err := env.groups.AcceptInvitation(ctx, authed(&rpc.AcceptInvitationRequest{InvitationID: invited.Msg.Invitation.InvitationID}, carol.token))
		assertCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("accept by id", func(t *testing.T) {
		resp, err := env.groups.AcceptInvitation(ctx, authed(&rpc.AcceptInvitationRequest{InvitationID: invited.Msg.Invitation.InvitationID}, bob.token))
		if err != nil {
			t.Fatalf("AcceptInvitation failed: %v", err)
		}
		if len(resp.Msg.Group.MemberUserCodes) != 2 {
			t.Errorf("expected 2 members, got %v", resp.Msg.Group.MemberUserCodes)
		}
		_, err = env.groups.AcceptInvitation(ctx, authed(&rpc.AcceptInvitationRequest{InvitationID: invited.Msg.Invitation.InvitationID}, bob.token))
		assertCode(t, err, connect.CodeFailedPrecondition)
	})

	t.Run("members listed with profiles", func(t *testing.T) {
		resp, err := env.groups.ListMembers(ctx, authed(&rpc.ListMembersRequest{GroupID: groupID}, bob.token))
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		if len(resp.Msg.Members) != 2 {
			t.Errorf("expected 2 members, got %d", len(resp.Msg.Members))
		}
		_, err = env.groups.ListMembers(ctx, authed(&rpc.ListMembersRequest{GroupID: groupID}, carol.token))
		assertCode(t, err, connect.CodePermissionDenied)
	})
}

func TestUpdateAndDeleteGroup(t *testing.T) {
	env := setupTestServer(t, calculator.Options{})
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	groupID := env.groupWith(t, alice, bob)

	_, err := env.groups.UpdateGroup(ctx, authed(&rpc.UpdateGroupRequest{GroupID: groupID, Name: "Mine now"}, bob.token))
	assertCode(t, err, connect.CodePermissionDenied)

	resp, err := env.groups.UpdateGroup(ctx, authed(&rpc.UpdateGroupRequest{GroupID: groupID, Name: "Flat 2"}, alice.token))
	if err != nil {
		t.Fatalf("UpdateGroup failed: %v", err)
	}
	if resp.Msg.Group.Name != "Flat 2" {
		t.Errorf("name: expected 'Flat 2', got '%s'", resp.Msg.Group.Name)
	}

	env.expense(t, alice, groupID, "10.00", alice, bob)

	_, err = env.groups.DeleteGroup(ctx, authed(&rpc.DeleteGroupRequest{GroupID: groupID}, bob.token))
	assertCode(t, err, connect.CodePermissionDenied)

	if _, err := env.groups.DeleteGroup(ctx, authed(&rpc.DeleteGroupRequest{GroupID: groupID}, alice.token)); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}

	_, err = env.balances.GetGroupBalances(ctx, authed(&rpc.GetGroupBalancesRequest{GroupID: groupID}, alice.token))
	assertCode(t, err, connect.CodeNotFound)

	listed, err := env.groups.ListGroups(ctx, authed(&rpc.ListGroupsRequest{}, bob.token))
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(listed.Msg.Groups) != 0 {
		t.Errorf("expected 0 groups, got %d", len(listed.Msg.Groups))
	}

	types := env.publisher.types()
	if len(types) == 0 || types[len(types)-1] != events.TypeGroupDeleted {
		t.Errorf("expected group_deleted event last, got %v", types)
	}
}

func TestRemoveMember(t *testing.T) {
	env := setupTestServer(t, calculator.Options{})
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	carol := env.register(t, "carol")
	dave := env.register(t, "dave")
	groupID := env.groupWith(t, alice, bob, carol, dave)

	env.expense(t, alice, groupID, "30.00", alice, bob)

	t.Run("owner cannot leave", func(t *testing.T) {
		_, err := env.groups.RemoveMember(ctx, authed(&rpc.RemoveMemberRequest{GroupID: groupID, UserCode: alice.code}, alice.token))
		assertCode(t, err, connect.CodeFailedPrecondition)
	})

	t.Run("member with ledger records", func(t *testing.T) {
		_, err := env.groups.RemoveMember(ctx, authed(&rpc.RemoveMemberRequest{GroupID: groupID, UserCode: bob.code}, alice.token))
		assertCode(t, err, connect.CodeFailedPrecondition)
	})

	t.Run("members cannot remove others", func(t *testing.T) {
		_, err := env.groups.RemoveMember(ctx, authed(&rpc.RemoveMemberRequest{GroupID: groupID, UserCode: carol.code}, dave.token))
		assertCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("owner removes member", func(t *testing.T) {
		if _, err := env.groups.RemoveMember(ctx, authed(&rpc.RemoveMemberRequest{GroupID: groupID, UserCode: carol.code}, alice.token)); err != nil {
			t.Fatalf("RemoveMember failed: %v", err)
		}
	})

	t.Run("member leaves", func(t *testing.T) {
		if _, err := env.groups.RemoveMember(ctx, authed(&rpc.RemoveMemberRequest{GroupID: groupID, UserCode: dave.code}, dave.token)); err != nil {
			t.Fatalf("RemoveMember failed: %v", err)
		}
		_, err := env.groups.ListMembers(ctx, authed(&rpc.ListMembersRequest{GroupID: groupID}, dave.token))
		assertCode(t, err, connect.CodePermissionDenied)
	})

	// Balances still compute after removals.
	got := env.groupBalances(t, alice, groupID)
	if len(got.Balances) != 1 || got.Balances[0].Amount != 1500 {
		t.Errorf("unexpected balances: %+v", got.Balances)
	}
}
