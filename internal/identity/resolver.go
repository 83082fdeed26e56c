// Package identity maps a logical actor to its storage namespace.
package identity

import "fmt"

const namespace = "savora"

// GlobalSessionsKey is the one record every actor shares. Routing every
// "sessions" access here, regardless of actor, is what stands in for a
// shared backend.
const GlobalSessionsKey = namespace + "_sessions_global"

// Record field names used as key segments.
const (
	FieldUser          = "user"
	FieldPreferences   = "preferences"
	FieldGroups        = "groups"
	FieldSessions      = "sessions"
	FieldFavorites     = "favorites"
	FieldStreak        = "streak"
	FieldNotifications = "notifications"
	FieldToken         = "token"
)

// Resolver produces storage keys. It is a pure function of its inputs
// so every client instance resolves the same keys.
type Resolver struct{}

// Key returns the storage key for an actor's record field. The sessions
// field ignores the actor and resolves to the global key.
func (Resolver) Key(actorID, field string) string {
	if field == FieldSessions {
		return GlobalSessionsKey
	}
	return fmt.Sprintf("%s_%s_%s", namespace, field, actorID)
}

// Prefix returns the key prefix shared by every record the engine
// writes, for enumeration via Store.ListKeys.
func (Resolver) Prefix() string {
	return namespace + "_"
}
