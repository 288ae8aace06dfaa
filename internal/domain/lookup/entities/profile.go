// Package entities contains domain entities for the lookup domain
package entities

// EntityKind is the category of a Telegram profile
type EntityKind string

const (
	KindPrivate    EntityKind = "private"
	KindBot        EntityKind = "bot"
	KindGroup      EntityKind = "group"
	KindSupergroup EntityKind = "supergroup"
	KindChannel    EntityKind = "channel"
)

// IsChat reports whether the kind may carry chat-only fields
// (members count, invite link, title, active usernames)
func (k EntityKind) IsChat() bool {
	switch k {
	case KindGroup, KindSupergroup, KindChannel:
		return true
	}
	return false
}

// ProfileRecord is the public metadata of one profile, built fresh per fetch.
// Absent optional fields are left at their zero value.
type ProfileRecord struct {
	ID          int64
	Handle      string
	FirstName   string
	LastName    string
	Title       string
	Bio         string
	Description string
	Kind        EntityKind
	IsBot       bool

	HasPrivateForwards         bool
	JoinToSendMessages         bool
	JoinByRequest              bool
	HasRestrictedVoiceAndVideo bool

	MembersCount    int
	InviteLink      string
	ActiveUsernames []string
}
