package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/savora-app/savora/internal/domain"
)

func TestSessionStage_CanAdvanceTo(t *testing.T) {
	tests := []struct {
		name string
		from domain.SessionStage
		to   domain.SessionStage
		want bool
	}{
		{"waiting to preferences", domain.StageWaiting, domain.StagePreferences, true},
		{"preferences to result", domain.StagePreferences, domain.StageResult, true},
		{"waiting skips to result", domain.StageWaiting, domain.StageResult, false},
		{"preferences back to waiting", domain.StagePreferences, domain.StageWaiting, false},
		{"result back to preferences", domain.StageResult, domain.StagePreferences, false},
		{"result to result", domain.StageResult, domain.StageResult, false},
		{"unknown stage", domain.SessionStage("archived"), domain.StageResult, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanAdvanceTo(tt.to))
		})
	}
}

func TestSession_CanStart(t *testing.T) {
	joined := func(n int) []domain.Participant {
		out := make([]domain.Participant, n)
		for i := range out {
			out[i] = domain.Participant{Name: "p", Joined: true}
		}
		return out
	}

	tests := []struct {
		name    string
		session domain.Session
		want    bool
	}{
		{
			name:    "quick session with one joined cannot start",
			session: domain.Session{Type: domain.SessionTypeQuick, Participants: joined(1)},
			want:    false,
		},
		{
			name:    "quick session with two joined can start",
			session: domain.Session{Type: domain.SessionTypeQuick, Participants: joined(2)},
			want:    true,
		},
		{
			name: "group session with only unjoined members cannot start",
			session: domain.Session{Type: domain.SessionTypeGroup, Participants: []domain.Participant{
				{Name: "a"}, {Name: "b"},
			}},
			want: false,
		},
		{
			name: "group session with the creator joined can start",
			session: domain.Session{Type: domain.SessionTypeGroup, Participants: []domain.Participant{
				{Name: "creator", Joined: true}, {Name: "b"},
			}},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.session.CanStart())
		})
	}
}

func TestSession_AllSubmitted(t *testing.T) {
	session := domain.Session{Participants: []domain.Participant{
		{Name: "a", Joined: true},
		{Name: "b", Joined: true},
		{Name: "c", Joined: true},
	}}

	assert.False(t, session.AllSubmitted())

	// Order of submission does not matter.
	session.Participants[2].HasSubmittedPreferences = true
	assert.False(t, session.AllSubmitted())
	session.Participants[0].HasSubmittedPreferences = true
	assert.False(t, session.AllSubmitted())
	session.Participants[1].HasSubmittedPreferences = true
	assert.True(t, session.AllSubmitted())

	// Level-triggered: still true on repeated checks.
	assert.True(t, session.AllSubmitted())
}

func TestSession_AllSubmittedEmpty(t *testing.T) {
	session := domain.Session{}
	assert.False(t, session.AllSubmitted())
}

func TestSession_FindParticipant(t *testing.T) {
	session := domain.Session{Participants: []domain.Participant{
		{Name: "Maya", Phone: "+971501"},
		{Name: "Omar", Phone: "+971502"},
		{Name: "Maya", Phone: "+971503"},
	}}

	// Name match, first match wins.
	assert.Equal(t, 0, session.FindParticipant("Maya", ""))
	// Phone match even with a different name.
	assert.Equal(t, 1, session.FindParticipant("Someone", "+971502"))
	assert.Equal(t, -1, session.FindParticipant("Nobody", "+971509"))
}

func TestGroup_AddMemberDedupes(t *testing.T) {
	group := domain.Group{Members: []domain.Member{{Name: "Maya", Phone: "+971501"}}}

	assert.False(t, group.AddMember(domain.Member{Name: "Maya", Phone: "+971999"}))
	assert.False(t, group.AddMember(domain.Member{Name: "Renamed", Phone: "+971501"}))
	assert.Len(t, group.Members, 1)

	assert.True(t, group.AddMember(domain.Member{Name: "Omar", Phone: "+971502"}))
	assert.Len(t, group.Members, 2)
}

func TestPreferences_ApplyDefaults(t *testing.T) {
	prefs := domain.Preferences{BudgetRange: "$$"}
	prefs.ApplyDefaults()
	assert.Equal(t, "AED", prefs.Currency)
	assert.Equal(t, "km", prefs.DistanceUnit)

	custom := domain.Preferences{Currency: "USD", DistanceUnit: "mi"}
	custom.ApplyDefaults()
	assert.Equal(t, "USD", custom.Currency)
	assert.Equal(t, "mi", custom.DistanceUnit)
}
