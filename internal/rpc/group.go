package rpc

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// GroupServiceName is the fully-qualified name of the GroupService.
const GroupServiceName = "splitr.v1.GroupService"

// Procedure paths of the GroupService.
const (
	GroupServiceCreateGroupProcedure      = "/splitr.v1.GroupService/CreateGroup"
	GroupServiceListGroupsProcedure       = "/splitr.v1.GroupService/ListGroups"
	GroupServiceUpdateGroupProcedure      = "/splitr.v1.GroupService/UpdateGroup"
	GroupServiceDeleteGroupProcedure      = "/splitr.v1.GroupService/DeleteGroup"
	GroupServiceListMembersProcedure      = "/splitr.v1.GroupService/ListMembers"
	GroupServiceInviteMemberProcedure     = "/splitr.v1.GroupService/InviteMember"
	GroupServiceAcceptInvitationProcedure = "/splitr.v1.GroupService/AcceptInvitation"
	GroupServiceListInvitationsProcedure  = "/splitr.v1.GroupService/ListInvitations"
	GroupServiceRemoveMemberProcedure     = "/splitr.v1.GroupService/RemoveMember"
)

// GroupServiceHandler serves groups, membership and invitations.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error)
	ListGroups(context.Context, *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error)
	UpdateGroup(context.Context, *connect.Request[UpdateGroupRequest]) (*connect.Response[UpdateGroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error)
	ListMembers(context.Context, *connect.Request[ListMembersRequest]) (*connect.Response[ListMembersResponse], error)
	InviteMember(context.Context, *connect.Request[InviteMemberRequest]) (*connect.Response[InviteMemberResponse], error)
	AcceptInvitation(context.Context, *connect.Request[AcceptInvitationRequest]) (*connect.Response[AcceptInvitationResponse], error)
	ListInvitations(context.Context, *connect.Request[ListInvitationsRequest]) (*connect.Response[ListInvitationsResponse], error)
	RemoveMember(context.Context, *connect.Request[RemoveMemberRequest]) (*connect.Response[RemoveMemberResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler for the service; mount it at the returned path.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + GroupServiceName + "/", serviceMux(map[string]http.Handler{
		GroupServiceCreateGroupProcedure:      connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...),
		GroupServiceListGroupsProcedure:       connect.NewUnaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, opts...),
		GroupServiceUpdateGroupProcedure:      connect.NewUnaryHandler(GroupServiceUpdateGroupProcedure, svc.UpdateGroup, opts...),
		GroupServiceDeleteGroupProcedure:      connect.NewUnaryHandler(GroupServiceDeleteGroupProcedure, svc.DeleteGroup, opts...),
		GroupServiceListMembersProcedure:      connect.NewUnaryHandler(GroupServiceListMembersProcedure, svc.ListMembers, opts...),
		GroupServiceInviteMemberProcedure:     connect.NewUnaryHandler(GroupServiceInviteMemberProcedure, svc.InviteMember, opts...),
		GroupServiceAcceptInvitationProcedure: connect.NewUnaryHandler(GroupServiceAcceptInvitationProcedure, svc.AcceptInvitation, opts...),
		GroupServiceListInvitationsProcedure:  connect.NewUnaryHandler(GroupServiceListInvitationsProcedure, svc.ListInvitations, opts...),
		GroupServiceRemoveMemberProcedure:     connect.NewUnaryHandler(GroupServiceRemoveMemberProcedure, svc.RemoveMember, opts...),
	})
}

// UnimplementedGroupServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedGroupServiceHandler struct{}

func (UnimplementedGroupServiceHandler) CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	return nil, unimplemented(GroupServiceCreateGroupProcedure)
}

func (UnimplementedGroupServiceHandler) ListGroups(context.Context, *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	return nil, unimplemented(GroupServiceListGroupsProcedure)
}

func (UnimplementedGroupServiceHandler) UpdateGroup(context.Context, *connect.Request[UpdateGroupRequest]) (*connect.Response[UpdateGroupResponse], error) {
	return nil, unimplemented(GroupServiceUpdateGroupProcedure)
}

func (UnimplementedGroupServiceHandler) DeleteGroup(context.Context, *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error) {
	return nil, unimplemented(GroupServiceDeleteGroupProcedure)
}

func (UnimplementedGroupServiceHandler) ListMembers(context.Context, *connect.Request[ListMembersRequest]) (*connect.Response[ListMembersResponse], error) {
	return nil, unimplemented(GroupServiceListMembersProcedure)
}

func (UnimplementedGroupServiceHandler) InviteMember(context.Context, *connect.Request[InviteMemberRequest]) (*connect.Response[InviteMemberResponse], error) {
	return nil, unimplemented(GroupServiceInviteMemberProcedure)
}

func (UnimplementedGroupServiceHandler) AcceptInvitation(context.Context, *connect.Request[AcceptInvitationRequest]) (*connect.Response[AcceptInvitationResponse], error) {
	return nil, unimplemented(GroupServiceAcceptInvitationProcedure)
}

func (UnimplementedGroupServiceHandler) ListInvitations(context.Context, *connect.Request[ListInvitationsRequest]) (*connect.Response[ListInvitationsResponse], error) {
	return nil, unimplemented(GroupServiceListInvitationsProcedure)
}

func (UnimplementedGroupServiceHandler) RemoveMember(context.Context, *connect.Request[RemoveMemberRequest]) (*connect.Response[RemoveMemberResponse], error) {
	return nil, unimplemented(GroupServiceRemoveMemberProcedure)
}

// GroupServiceClient is a typed client for the GroupService.
type GroupServiceClient interface {
	CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error)
	ListGroups(context.Context, *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error)
	UpdateGroup(context.Context, *connect.Request[UpdateGroupRequest]) (*connect.Response[UpdateGroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error)
	ListMembers(context.Context, *connect.Request[ListMembersRequest]) (*connect.Response[ListMembersResponse], error)
	InviteMember(context.Context, *connect.Request[InviteMemberRequest]) (*connect.Response[InviteMemberResponse], error)
	AcceptInvitation(context.Context, *connect.Request[AcceptInvitationRequest]) (*connect.Response[AcceptInvitationResponse], error)
	ListInvitations(context.Context, *connect.Request[ListInvitationsRequest]) (*connect.Response[ListInvitationsResponse], error)
	RemoveMember(context.Context, *connect.Request[RemoveMemberRequest]) (*connect.Response[RemoveMemberResponse], error)
}

// NewGroupServiceClient returns a client for the service at baseURL (e.g. http://localhost:8080).
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &groupServiceClient{
		createGroup:      connect.NewClient[CreateGroupRequest, CreateGroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		listGroups:       connect.NewClient[ListGroupsRequest, ListGroupsResponse](httpClient, baseURL+GroupServiceListGroupsProcedure, opts...),
		updateGroup:      connect.NewClient[UpdateGroupRequest, UpdateGroupResponse](httpClient, baseURL+GroupServiceUpdateGroupProcedure, opts...),
		deleteGroup:      connect.NewClient[DeleteGroupRequest, DeleteGroupResponse](httpClient, baseURL+GroupServiceDeleteGroupProcedure, opts...),
		listMembers:      connect.NewClient[ListMembersRequest, ListMembersResponse](httpClient, baseURL+GroupServiceListMembersProcedure, opts...),
		inviteMember:     connect.NewClient[InviteMemberRequest, InviteMemberResponse](httpClient, baseURL+GroupServiceInviteMemberProcedure, opts...),
		acceptInvitation: connect.NewClient[AcceptInvitationRequest, AcceptInvitationResponse](httpClient, baseURL+GroupServiceAcceptInvitationProcedure, opts...),
		listInvitations:  connect.NewClient[ListInvitationsRequest, ListInvitationsResponse](httpClient, baseURL+GroupServiceListInvitationsProcedure, opts...),
		removeMember:     connect.NewClient[RemoveMemberRequest, RemoveMemberResponse](httpClient, baseURL+GroupServiceRemoveMemberProcedure, opts...),
	}
}

type groupServiceClient struct {
	createGroup      *connect.Client[CreateGroupRequest, CreateGroupResponse]
	listGroups       *connect.Client[ListGroupsRequest, ListGroupsResponse]
	updateGroup      *connect.Client[UpdateGroupRequest, UpdateGroupResponse]
	deleteGroup      *connect.Client[DeleteGroupRequest, DeleteGroupResponse]
	listMembers      *connect.Client[ListMembersRequest, ListMembersResponse]
	inviteMember     *connect.Client[InviteMemberRequest, InviteMemberResponse]
	acceptInvitation *connect.Client[AcceptInvitationRequest, AcceptInvitationResponse]
	listInvitations  *connect.Client[ListInvitationsRequest, ListInvitationsResponse]
	removeMember     *connect.Client[RemoveMemberRequest, RemoveMemberResponse]
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *groupServiceClient) UpdateGroup(ctx context.Context, req *connect.Request[UpdateGroupRequest]) (*connect.Response[UpdateGroupResponse], error) {
	return c.updateGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListMembers(ctx context.Context, req *connect.Request[ListMembersRequest]) (*connect.Response[ListMembersResponse], error) {
	return c.listMembers.CallUnary(ctx, req)
}

func (c *groupServiceClient) InviteMember(ctx context.Context, req *connect.Request[InviteMemberRequest]) (*connect.Response[InviteMemberResponse], error) {
	return c.inviteMember.CallUnary(ctx, req)
}

func (c *groupServiceClient) AcceptInvitation(ctx context.Context, req *connect.Request[AcceptInvitationRequest]) (*connect.Response[AcceptInvitationResponse], error) {
	return c.acceptInvitation.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListInvitations(ctx context.Context, req *connect.Request[ListInvitationsRequest]) (*connect.Response[ListInvitationsResponse], error) {
	return c.listInvitations.CallUnary(ctx, req)
}

func (c *groupServiceClient) RemoveMember(ctx context.Context, req *connect.Request[RemoveMemberRequest]) (*connect.Response[RemoveMemberResponse], error) {
	return c.removeMember.CallUnary(ctx, req)
}
