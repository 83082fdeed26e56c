package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/savora-app/savora/internal/identity"
)

func TestResolver_Key(t *testing.T) {
	var r identity.Resolver

	tests := []struct {
		name    string
		actorID string
		field   string
		want    string
	}{
		{
			name:    "user record is namespaced by actor",
			actorID: "maya",
			field:   identity.FieldUser,
			want:    "savora_user_maya",
		},
		{
			name:    "notifications record is namespaced by actor",
			actorID: "omar",
			field:   identity.FieldNotifications,
			want:    "savora_notifications_omar",
		},
		{
			name:    "sessions ignore the actor entirely",
			actorID: "maya",
			field:   identity.FieldSessions,
			want:    identity.GlobalSessionsKey,
		},
		{
			name:    "sessions resolve identically for every actor",
			actorID: "omar",
			field:   identity.FieldSessions,
			want:    identity.GlobalSessionsKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Key(tt.actorID, tt.field))
			// Pure: same inputs, same key, every time.
			assert.Equal(t, r.Key(tt.actorID, tt.field), r.Key(tt.actorID, tt.field))
		})
	}
}
