package rankings

import (
	"fmt"

	"github.com/Conorjs98/fantasy-dashboard/internal/sleeper"
)

// Identity is how a roster is presented: owner, names and avatar
type Identity struct {
	RosterID    int     `json:"roster_id"`
	UserID      string  `json:"user_id"`
	DisplayName string  `json:"display_name"`
	TeamName    string  `json:"team_name"`
	Avatar      *string `json:"avatar"`
}

// ResolveIdentity builds a roster's presentation from its roster and owner
// records. Either record may be nil.
func ResolveIdentity(rosterID int, roster *sleeper.Roster, user *sleeper.User) Identity {
	fallback := fmt.Sprintf("Team %d", rosterID)
	id := Identity{
		RosterID:    rosterID,
		DisplayName: fallback,
		TeamName:    fallback,
	}

	if roster != nil {
		id.UserID = roster.OwnerID
	}
	if user != nil && user.DisplayName != "" {
		id.DisplayName = user.DisplayName
		id.TeamName = user.DisplayName
	}
	if user != nil && user.Metadata.TeamName != "" {
		id.TeamName = user.Metadata.TeamName
	}

	var candidates []string
	if roster != nil {
		candidates = append(candidates, roster.Metadata.Avatar, roster.Metadata.TeamLogo)
	}
	if user != nil {
		candidates = append(candidates, user.Metadata.Avatar, user.Metadata.TeamLogo, user.Avatar)
	}
	for _, raw := range candidates {
		if raw != "" {
			id.Avatar = sleeper.AvatarURL(raw)
			break
		}
	}

	return id
}

// identityIndex resolves identities for many rosters against one user list
type identityIndex struct {
	rosters map[int]*sleeper.Roster
	users   map[string]*sleeper.User
}

func newIdentityIndex(rosters []sleeper.Roster, users []sleeper.User) identityIndex {
	idx := identityIndex{
		rosters: make(map[int]*sleeper.Roster, len(rosters)),
		users:   make(map[string]*sleeper.User, len(users)),
	}
	for i := range rosters {
		if _, ok := idx.rosters[rosters[i].RosterID]; !ok {
			idx.rosters[rosters[i].RosterID] = &rosters[i]
		}
	}
	for i := range users {
		idx.users[users[i].UserID] = &users[i]
	}
	return idx
}

func (idx identityIndex) resolve(rosterID int) Identity {
	roster := idx.rosters[rosterID]
	var user *sleeper.User
	if roster != nil && roster.OwnerID != "" {
		user = idx.users[roster.OwnerID]
	}
	return ResolveIdentity(rosterID, roster, user)
}

// Identities resolves every roster in input order
func Identities(rosters []sleeper.Roster, users []sleeper.User) []Identity {
	idx := newIdentityIndex(rosters, users)
	out := make([]Identity, 0, len(rosters))
	for _, r := range rosters {
		out = append(out, idx.resolve(r.RosterID))
	}
	return out
}
