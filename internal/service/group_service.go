package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/splitr/splitr/internal/events"
	"github.com/splitr/splitr/internal/models"
	"github.com/splitr/splitr/internal/rpc"
	"github.com/splitr/splitr/internal/storage"
)

// GroupService implements the Connect GroupService
type GroupService struct {
	store     storage.Store
	publisher events.Publisher
}

var _ rpc.GroupServiceHandler = (*GroupService)(nil)

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, publisher events.Publisher) *GroupService {
	return &GroupService{store: store, publisher: publisher}
}

// CreateGroup creates a new group owned by the caller.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[rpc.CreateGroupRequest]) (*connect.Response[rpc.CreateGroupResponse], error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateGroup request received", "name", req.Msg.Name, "user_code", session.UserCode)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("group name is required")
	}

	group := &models.Group{Name: name, OwnerCode: session.UserCode}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group created", "group_id", group.ID)
	return connect.NewResponse(&rpc.CreateGroupResponse{Group: groupToRPC(group)}), nil
}

// ListGroups returns the groups the caller belongs to.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[rpc.ListGroupsRequest]) (*connect.Response[rpc.ListGroupsResponse], error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroupsForUser(ctx, session.UserCode)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*rpc.Group, len(groups))
	for i, g := range groups {
		out[i] = groupToRPC(g)
	}

	slog.Info("ListGroups successful", "user_code", session.UserCode, "count", len(groups))
	return connect.NewResponse(&rpc.ListGroupsResponse{Groups: out}), nil
}

// UpdateGroup renames a group. Only the owner may do so.
func (s *GroupService) UpdateGroup(ctx context.Context, req *connect.Request[rpc.UpdateGroupRequest]) (*connect.Response[rpc.UpdateGroupResponse], error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("UpdateGroup request received", "group_id", req.Msg.GroupID, "name", req.Msg.Name)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("group name is required")
	}
	group, err := s.ownedGroup(ctx, req.Msg.GroupID, session.UserCode)
	if err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.RenameGroup(ctx, group.ID, name); err != nil {
		slog.Error("UpdateGroup failed", "error", err)
		return nil, toConnectError(err)
	}
	group.Name = name

	slog.Info("Group updated", "group_id", group.ID)
	return connect.NewResponse(&rpc.UpdateGroupResponse{Group: groupToRPC(group)}), nil
}

// DeleteGroup removes a group with its whole ledger. Only the owner may do so.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[rpc.DeleteGroupRequest]) (*connect.Response[rpc.DeleteGroupResponse], error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	if _, err := s.ownedGroup(ctx, req.Msg.GroupID, session.UserCode); err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.DeleteGroup(ctx, req.Msg.GroupID); err != nil {
		slog.Error("DeleteGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	events.PublishBestEffort(ctx, s.publisher, events.New(events.TypeGroupDeleted, req.Msg.GroupID, "", session.UserCode, 0))

	slog.Info("Group deleted", "group_id", req.Msg.GroupID)
	return connect.NewResponse(&rpc.DeleteGroupResponse{}), nil
}

// ListMembers returns the profiles of a group's members.
func (s *GroupService) ListMembers(ctx context.Context, req *connect.Request[rpc.ListMembersRequest]) (*connect.Response[rpc.ListMembersResponse], error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}

	group, err := memberGroup(ctx, s.store, req.Msg.GroupID, session.UserCode)
	if err != nil {
		return nil, toConnectError(err)
	}
	users, err := s.store.GetUsersByCodes(ctx, group.Members)
	if err != nil {
		return nil, toConnectError(err)
	}

	members := make([]*rpc.User, 0, len(group.Members))
	for _, code := range group.Members {
		if u, ok := users[code]; ok {
			members = append(members, userToRPC(u))
		}
	}
	return connect.NewResponse(&rpc.ListMembersResponse{Members: members}), nil
}

// InviteMember creates a pending invitation for an existing user.
func (s *GroupService) InviteMember(ctx context.Context, req *connect.Request[rpc.InviteMemberRequest]) (*connect.Response[rpc.InviteMemberResponse], error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("InviteMember request received", "group_id", req.Msg.GroupID, "invitee", req.Msg.UserCode)

	code := strings.ToUpper(strings.TrimSpace(req.Msg.UserCode))
	if code == "" {
		return nil, invalidArgument("userCode is required")
	}
	group, err := memberGroup(ctx, s.store, req.Msg.GroupID, session.UserCode)
	if err != nil {
		return nil, toConnectError(err)
	}
	if _, err := s.store.GetUserByCode(ctx, code); err != nil {
		return nil, toConnectError(err)
	}
	if group.HasMember(code) {
		return nil, toConnectError(fmt.Errorf("user %s is already a member: %w", code, models.ErrAlreadyExists))
	}
	_, err = s.store.FindPendingInvitation(ctx, group.ID, code)
	if err == nil {
		return nil, toConnectError(fmt.Errorf("user %s already invited: %w", code, models.ErrAlreadyExists))
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, toConnectError(err)
	}

	inv := &models.Invitation{GroupID: group.ID, InviteeCode: code, InviterCode: session.UserCode, GroupName: group.Name}
	if err := s.store.CreateInvitation(ctx, inv); err != nil {
		slog.Error("InviteMember failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Invitation created", "invitation_id", inv.ID, "group_id", group.ID)
	return connect.NewResponse(&rpc.InviteMemberResponse{Invitation: invitationToRPC(inv)}), nil
}

// AcceptInvitation accepts the caller's pending invitation, named either by
// its ID or by the inviting group.
func (s *GroupService) AcceptInvitation(ctx context.Context, req *connect.Request[rpc.AcceptInvitationRequest]) (*connect.Response[rpc.AcceptInvitationResponse], error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("AcceptInvitation request received", "invitation_id", req.Msg.InvitationID, "group_id", req.Msg.GroupID)

	var inv *models.Invitation
	switch {
	case req.Msg.InvitationID != "":
		inv, err = s.store.GetInvitation(ctx, req.Msg.InvitationID)
	case req.Msg.GroupID != "":
		inv, err = s.store.FindPendingInvitation(ctx, req.Msg.GroupID, session.UserCode)
	default:
		return nil, invalidArgument("invitationId or groupId is required")
	}
	if err != nil {
		return nil, toConnectError(err)
	}
	if inv.InviteeCode != session.UserCode {
		return nil, toConnectError(fmt.Errorf("invitation %s: %w", inv.ID, models.ErrNotAuthorized))
	}
	if inv.Status != models.InvitationPending {
		return nil, toConnectError(fmt.Errorf("invitation %s is %s: %w", inv.ID, inv.Status, models.ErrConflict))
	}

	if err := s.store.AcceptInvitation(ctx, inv.ID); err != nil {
		slog.Error("AcceptInvitation failed", "invitation_id", inv.ID, "error", err)
		return nil, toConnectError(err)
	}
	group, err := s.store.GetGroup(ctx, inv.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("Invitation accepted", "invitation_id", inv.ID, "group_id", group.ID, "user_code", session.UserCode)
	return connect.NewResponse(&rpc.AcceptInvitationResponse{Group: groupToRPC(group)}), nil
}

// ListInvitations returns the caller's pending invitations.
func (s *GroupService) ListInvitations(ctx context.Context, req *connect.Request[rpc.ListInvitationsRequest]) (*connect.Response[rpc.ListInvitationsResponse], error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}

	invitations, err := s.store.ListPendingInvitations(ctx, session.UserCode)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]*rpc.Invitation, len(invitations))
	for i, inv := range invitations {
		out[i] = invitationToRPC(inv)
	}
	return connect.NewResponse(&rpc.ListInvitationsResponse{Invitations: out}), nil
}

// RemoveMember removes a member from a group. The owner may remove anyone
// else; members may remove themselves. Members who appear in the group's
// ledger cannot be removed.
func (s *GroupService) RemoveMember(ctx context.Context, req *connect.Request[rpc.RemoveMemberRequest]) (*connect.Response[rpc.RemoveMemberResponse], error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("RemoveMember request received", "group_id", req.Msg.GroupID, "member", req.Msg.UserCode)

	target := strings.ToUpper(strings.TrimSpace(req.Msg.UserCode))
	if target == "" {
		return nil, invalidArgument("userCode is required")
	}
	group, err := memberGroup(ctx, s.store, req.Msg.GroupID, session.UserCode)
	if err != nil {
		return nil, toConnectError(err)
	}

	switch {
	case target == group.OwnerCode:
		return nil, toConnectError(fmt.Errorf("the owner cannot leave group %s: %w", group.ID, models.ErrConflict))
	case target != session.UserCode && session.UserCode != group.OwnerCode:
		return nil, toConnectError(fmt.Errorf("only the owner can remove others: %w", models.ErrNotAuthorized))
	case !group.HasMember(target):
		return nil, toConnectError(fmt.Errorf("member %s: %w", target, models.ErrNotFound))
	}

	// The store refuses members who appear in the ledger.
	if err := s.store.RemoveGroupMember(ctx, group.ID, target); err != nil {
		slog.Warn("RemoveMember failed", "group_id", group.ID, "member", target, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Member removed", "group_id", group.ID, "member", target)
	return connect.NewResponse(&rpc.RemoveMemberResponse{}), nil
}

// ownedGroup loads a group and checks that userCode owns it.
func (s *GroupService) ownedGroup(ctx context.Context, groupID, userCode string) (*models.Group, error) {
	group, err := memberGroup(ctx, s.store, groupID, userCode)
	if err != nil {
		return nil, err
	}
	if group.OwnerCode != userCode {
		return nil, fmt.Errorf("only the owner can change group %s: %w", groupID, models.ErrNotAuthorized)
	}
	return group, nil
}
