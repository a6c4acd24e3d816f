package views

import (
	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/models"
)

// identities maps user IDs to the users loaded in one batch.
type identities map[string]models.User

func newIdentities(users []models.User) identities {
	idx := make(identities, len(users))
	for _, u := range users {
		idx[u.ID] = u
	}
	return idx
}

func (idx identities) ref(id string) UserRef {
	u, ok := idx[id]
	if !ok {
		return UserRef{ID: id, Name: constants.NotAvailable, Email: constants.NotAvailable}
	}
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}

func (idx identities) name(id string) string {
	if u, ok := idx[id]; ok {
		return u.Name
	}
	return constants.NotAvailable
}

func (idx identities) members(project *models.Project) []MemberView {
	out := make([]MemberView, len(project.Users))
	for i, m := range project.Users {
		ref := idx.ref(m.UserID)
		out[i] = MemberView{UserID: m.UserID, Name: ref.Name, Email: ref.Email, Role: m.Role}
	}
	return out
}

// idSet collects referenced user IDs in first-seen order.
type idSet struct {
	seen map[string]struct{}
	ids  []string
}

func newIDSet() *idSet {
	return &idSet{seen: make(map[string]struct{})}
}

func (s *idSet) add(ids ...string) {
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := s.seen[id]; ok {
			continue
		}
		s.seen[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
}

func (s *idSet) addPtr(id *string) {
	if id != nil {
		s.add(*id)
	}
}
