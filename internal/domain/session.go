package domain

import "time"

// SessionType distinguishes quick sessions (ad-hoc, join by code) from
// group sessions (seeded from a group's member list).
type SessionType string

const (
	SessionTypeQuick SessionType = "quick"
	SessionTypeGroup SessionType = "group"
)

// SessionStatus represents the overall state of a session
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
)

// SessionStage is the session's position in its lifecycle
type SessionStage string

const (
	StageWaiting     SessionStage = "waiting"
	StagePreferences SessionStage = "preferences"
	StageResult      SessionStage = "result"
)

// SessionTiming indicates whether the session is for now or scheduled
type SessionTiming string

const (
	TimingNow   SessionTiming = "now"
	TimingLater SessionTiming = "later"
)

var stageOrder = map[SessionStage]int{
	StageWaiting:     0,
	StagePreferences: 1,
	StageResult:      2,
}

// CanAdvanceTo reports whether the stage machine permits moving from s
// to next. Stages only move forward, one step at a time.
func (s SessionStage) CanAdvanceTo(next SessionStage) bool {
	from, ok := stageOrder[s]
	if !ok {
		return false
	}
	to, ok := stageOrder[next]
	if !ok {
		return false
	}
	return to == from+1
}

// Participant is a person attached to a session.
type Participant struct {
	Name                    string       `json:"name"`
	Phone                   string       `json:"phone"`
	Email                   string       `json:"email"`
	Joined                  bool         `json:"joined"`
	HasSubmittedPreferences bool         `json:"hasSubmittedPreferences,omitempty"`
	Preferences             *Preferences `json:"preferences,omitempty"`
}

// Matches reports whether the participant is the person identified by
// name or phone. Empty fields never match.
func (p Participant) Matches(name, phone string) bool {
	if p.Name != "" && p.Name == name {
		return true
	}
	if p.Phone != "" && p.Phone == phone {
		return true
	}
	return false
}

// Session is a single decision-making round. It lives in the one global
// sessions list shared by every actor.
type Session struct {
	ID            string        `json:"id" validate:"required"`
	Name          string        `json:"name" validate:"required"`
	Code          string        `json:"code" validate:"required,len=6,numeric"`
	Type          SessionType   `json:"type" validate:"required,oneof=quick group"`
	GroupID       string        `json:"groupId,omitempty"`
	Participants  []Participant `json:"participants"`
	Status        SessionStatus `json:"status" validate:"required,oneof=active completed"`
	Stage         SessionStage  `json:"stage" validate:"required,oneof=waiting preferences result"`
	Icon          string        `json:"icon"`
	CreatorName   string        `json:"creatorName"`
	CreatedAt     time.Time     `json:"createdAt"`
	Timing        SessionTiming `json:"timing,omitempty"`
	ScheduledDate string        `json:"scheduledDate,omitempty"`
	ScheduledTime string        `json:"scheduledTime,omitempty"`
	Location      string        `json:"location,omitempty"`
	Version       int64         `json:"version"`
}

// FindParticipant returns the index of the first participant matching
// by name or phone, or -1.
func (s *Session) FindParticipant(name, phone string) int {
	for i, p := range s.Participants {
		if p.Matches(name, phone) {
			return i
		}
	}
	return -1
}

// JoinedCount returns the number of participants that have joined.
func (s *Session) JoinedCount() int {
	n := 0
	for _, p := range s.Participants {
		if p.Joined {
			n++
		}
	}
	return n
}

// CanStart applies the ready-to-start policy: a quick session needs at
// least 2 joined participants, a group session needs at least 1 (the
// creator joins at creation and counts).
func (s *Session) CanStart() bool {
	if s.Type == SessionTypeQuick {
		return s.JoinedCount() >= 2
	}
	return s.JoinedCount() >= 1
}

// AllSubmitted reports whether every participant has submitted
// preferences. This is a level-triggered condition: once true it stays
// true for any later observer.
func (s *Session) AllSubmitted() bool {
	if len(s.Participants) == 0 {
		return false
	}
	for _, p := range s.Participants {
		if !p.HasSubmittedPreferences {
			return false
		}
	}
	return true
}
