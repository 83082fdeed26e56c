package domain

import "time"

// NotificationType identifies what an invitation refers to
type NotificationType string

const (
	NotificationGroupInvite   NotificationType = "group_invite"
	NotificationSessionInvite NotificationType = "session_invite"
)

// NotificationStatus tracks how the target resolved an invitation
type NotificationStatus string

const (
	NotificationPending  NotificationStatus = "pending"
	NotificationAccepted NotificationStatus = "accepted"
	NotificationDeclined NotificationStatus = "declined"
)

// Notification is an invitation written into the target actor's
// namespace by the inviter. Only the target mutates it afterwards.
type Notification struct {
	ID               string             `json:"id" validate:"required"`
	Type             NotificationType   `json:"type" validate:"required,oneof=group_invite session_invite"`
	GroupID          string             `json:"groupId,omitempty"`
	GroupName        string             `json:"groupName,omitempty"`
	GroupDescription string             `json:"groupDescription,omitempty"`
	GroupIcon        string             `json:"groupIcon,omitempty"`
	GroupMembers     []Member           `json:"groupMembers,omitempty"`
	SessionID        string             `json:"sessionId,omitempty"`
	SessionName      string             `json:"sessionName,omitempty"`
	SessionType      SessionType        `json:"sessionType,omitempty"`
	SessionCode      string             `json:"sessionCode,omitempty"`
	InviterName      string             `json:"inviterName"`
	InviterPhone     string             `json:"inviterPhone"`
	Timestamp        time.Time          `json:"timestamp"`
	Status           NotificationStatus `json:"status"`
	Read             bool               `json:"read"`
}
