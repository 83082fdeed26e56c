package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savora-app/savora/internal/domain"
	"github.com/savora-app/savora/internal/testutil"
)

func TestNotificationService_InvitePrependsNewestFirst(t *testing.T) {
	services, repo, _ := testutil.NewServices(t)
	ctx := context.Background()

	require.NoError(t, services.Notification.Invite(ctx, "omar", domain.Notification{
		ID: "n-1", Type: domain.NotificationGroupInvite, GroupID: "g1", GroupName: "Foodies",
	}))
	require.NoError(t, services.Notification.Invite(ctx, "omar", domain.Notification{
		ID: "n-2", Type: domain.NotificationSessionInvite, SessionID: "s1", SessionName: "Dinner",
	}))

	list, err := repo.Notifications(ctx, "omar")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "n-2", list[0].ID)
	assert.Equal(t, "n-1", list[1].ID)
	assert.Equal(t, domain.NotificationPending, list[0].Status)
	assert.False(t, list[0].Read)
	assert.False(t, list[0].Timestamp.IsZero())
}

func TestNotificationService_InviteFillsID(t *testing.T) {
	services, repo, _ := testutil.NewServices(t)
	ctx := context.Background()

	require.NoError(t, services.Notification.Invite(ctx, "omar", domain.Notification{
		Type: domain.NotificationGroupInvite, GroupID: "g1", GroupName: "Foodies",
	}))

	list, err := repo.Notifications(ctx, "omar")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.NotEmpty(t, list[0].ID)
}

func TestNotificationService_AcceptMaterializesGroup(t *testing.T) {
	services, repo, _ := testutil.NewServices(t)
	ctx := context.Background()
	testutil.SeedUser(t, repo, "omar", "Omar", "+971502")

	invite := domain.Notification{
		ID:               "n-1",
		Type:             domain.NotificationGroupInvite,
		GroupID:          "g1",
		GroupName:        "Foodies",
		GroupDescription: "Weekly dinners",
		GroupIcon:        "IoPeople",
		GroupMembers:     []domain.Member{{Name: "Maya", Phone: "+971501"}},
		InviterName:      "Maya",
		InviterPhone:     "+971501",
	}
	require.NoError(t, services.Notification.Invite(ctx, "omar", invite))
	require.NoError(t, services.Notification.Accept(ctx, "omar", "n-1"))

	groups, err := repo.Groups(ctx, "omar")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "g1", groups[0].ID)
	assert.Equal(t, "Foodies", groups[0].Name)
	assert.True(t, groups[0].HasMember("Maya", "+971501"))
	assert.True(t, groups[0].HasMember("Omar", "+971502"))

	list, err := repo.Notifications(ctx, "omar")
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationAccepted, list[0].Status)
	assert.True(t, list[0].Read)

	// Accepting again neither duplicates the group nor the member.
	require.NoError(t, services.Notification.Accept(ctx, "omar", "n-1"))
	groups, err = repo.Groups(ctx, "omar")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Members, 2)
}

func TestNotificationService_AcceptExistingGroupAddsMemberOnly(t *testing.T) {
	services, repo, _ := testutil.NewServices(t)
	ctx := context.Background()
	testutil.SeedUser(t, repo, "omar", "Omar", "+971502")

	require.NoError(t, repo.SaveGroups(ctx, "omar", []domain.Group{{
		ID: "g1", Name: "Foodies", Members: []domain.Member{{Name: "Maya", Phone: "+971501"}},
	}}))

	require.NoError(t, services.Notification.Invite(ctx, "omar", domain.Notification{
		ID: "n-1", Type: domain.NotificationGroupInvite, GroupID: "g1", GroupName: "Foodies",
	}))
	require.NoError(t, services.Notification.Accept(ctx, "omar", "n-1"))

	groups, err := repo.Groups(ctx, "omar")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Members, 2)
}

func TestNotificationService_AcceptUnknownIDIsNoop(t *testing.T) {
	services, repo, _ := testutil.NewServices(t)
	ctx := context.Background()

	require.NoError(t, services.Notification.Accept(ctx, "omar", "missing"))

	groups, err := repo.Groups(ctx, "omar")
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestNotificationService_SessionInviteAcceptMarksOnly(t *testing.T) {
	services, repo, _ := testutil.NewServices(t)
	ctx := context.Background()
	testutil.SeedUser(t, repo, "omar", "Omar", "+971502")

	require.NoError(t, services.Notification.Invite(ctx, "omar", domain.Notification{
		ID: "n-1", Type: domain.NotificationSessionInvite,
		SessionID: "s1", SessionName: "Dinner", SessionCode: "123456",
	}))
	require.NoError(t, services.Notification.Accept(ctx, "omar", "n-1"))

	// No group materialized; joining a session happens via its code.
	groups, err := repo.Groups(ctx, "omar")
	require.NoError(t, err)
	assert.Empty(t, groups)

	list, err := repo.Notifications(ctx, "omar")
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationAccepted, list[0].Status)
}

func TestNotificationService_Decline(t *testing.T) {
	services, repo, _ := testutil.NewServices(t)
	ctx := context.Background()
	testutil.SeedUser(t, repo, "omar", "Omar", "+971502")

	require.NoError(t, services.Notification.Invite(ctx, "omar", domain.Notification{
		ID: "n-1", Type: domain.NotificationGroupInvite, GroupID: "g1", GroupName: "Foodies",
	}))
	require.NoError(t, services.Notification.Decline(ctx, "omar", "n-1"))

	list, err := repo.Notifications(ctx, "omar")
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationDeclined, list[0].Status)
	assert.True(t, list[0].Read)

	// Declining does not touch the acceptor's groups.
	groups, err := repo.Groups(ctx, "omar")
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestNotificationService_MarkReadAndUnread(t *testing.T) {
	services, repo, _ := testutil.NewServices(t)
	ctx := context.Background()

	require.NoError(t, services.Notification.Invite(ctx, "omar", domain.Notification{
		ID: "n-1", Type: domain.NotificationGroupInvite, GroupID: "g1", GroupName: "Foodies",
	}))
	require.NoError(t, services.Notification.Invite(ctx, "omar", domain.Notification{
		ID: "n-2", Type: domain.NotificationGroupInvite, GroupID: "g2", GroupName: "Brunch club",
	}))

	unread, err := services.Notification.Unread(ctx, "omar")
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	require.NoError(t, services.Notification.MarkRead(ctx, "omar", "n-1"))

	list, err := repo.Notifications(ctx, "omar")
	require.NoError(t, err)
	for _, n := range list {
		if n.ID == "n-1" {
			assert.True(t, n.Read)
			// Status is untouched by MarkRead.
			assert.Equal(t, domain.NotificationPending, n.Status)
		}
	}

	unread, err = services.Notification.Unread(ctx, "omar")
	require.NoError(t, err)
	assert.Equal(t, 1, unread)
}

func TestNotificationService_CrossNamespaceWriteIsIsolated(t *testing.T) {
	services, repo, _ := testutil.NewServices(t)
	ctx := context.Background()

	mayaPrefs := &domain.Preferences{Currency: "AED", DistanceUnit: "km", BudgetRange: "$$"}
	require.NoError(t, repo.SavePreferences(ctx, "maya", mayaPrefs))
	require.NoError(t, repo.SaveGroups(ctx, "maya", []domain.Group{{ID: "g1", Name: "Foodies"}}))

	// Maya invites Omar: the write lands in Omar's namespace only.
	require.NoError(t, services.Notification.Invite(ctx, "omar", domain.Notification{
		ID: "n-1", Type: domain.NotificationGroupInvite, GroupID: "g1", GroupName: "Foodies",
		InviterName: "Maya", InviterPhone: "+971501",
	}))

	mayaList, err := repo.Notifications(ctx, "maya")
	require.NoError(t, err)
	assert.Empty(t, mayaList)

	gotPrefs, err := repo.Preferences(ctx, "maya")
	require.NoError(t, err)
	assert.Equal(t, mayaPrefs, gotPrefs)

	gotGroups, err := repo.Groups(ctx, "maya")
	require.NoError(t, err)
	assert.Len(t, gotGroups, 1)
}

func TestNotificationService_ConcurrentInvitesAllSurvive(t *testing.T) {
	services, repo, _ := testutil.NewServices(t)
	ctx := context.Background()

	const perInviter = 20
	var wg sync.WaitGroup
	wg.Add(2)
	for _, inviter := range []string{"Maya", "Zara"} {
		inviter := inviter
		go func() {
			defer wg.Done()
			for i := 0; i < perInviter; i++ {
				_ = services.Notification.Invite(ctx, "omar", domain.Notification{
					ID:          fmt.Sprintf("n-%s-%d", inviter, i),
					Type:        domain.NotificationSessionInvite,
					SessionID:   fmt.Sprintf("s-%d", i),
					InviterName: inviter,
				})
			}
		}()
	}
	wg.Wait()

	list, err := repo.Notifications(ctx, "omar")
	require.NoError(t, err)
	require.Len(t, list, 2*perInviter)

	seen := make(map[string]bool, len(list))
	for _, n := range list {
		seen[n.ID] = true
	}
	assert.Len(t, seen, 2*perInviter)
}
