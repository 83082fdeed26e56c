package domain

import "time"

// Member is a person attached to a group. Identity matching across the
// app is by name or phone, first match wins.
type Member struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Matches reports whether the member is the person identified by name
// or phone. Empty fields never match.
func (m Member) Matches(name, phone string) bool {
	if m.Name != "" && m.Name == name {
		return true
	}
	if m.Phone != "" && m.Phone == phone {
		return true
	}
	return false
}

// Group is a named set of members. Each actor holds an independent copy
// keyed under their own namespace; invited users materialize their copy
// from the invitation payload. There is no canonical shared record.
type Group struct {
	ID          string    `json:"id" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
	Photo       string    `json:"photo"`
	Members     []Member  `json:"members"`
	CreatedAt   time.Time `json:"createdAt"`
}

// HasMember reports whether a person identified by name or phone is
// already listed among the group's members.
func (g *Group) HasMember(name, phone string) bool {
	for _, m := range g.Members {
		if m.Matches(name, phone) {
			return true
		}
	}
	return false
}

// AddMember appends the member unless an entry with the same name or
// phone already exists. Returns true if the member was added.
func (g *Group) AddMember(m Member) bool {
	if g.HasMember(m.Name, m.Phone) {
		return false
	}
	g.Members = append(g.Members, m)
	return true
}
