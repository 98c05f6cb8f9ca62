package domain

import "time"

// FileTree is a nested mapping from path segment to either a file descriptor
// or another FileTree. Its shape is not validated beyond being a JSON object.
type FileTree map[string]any

// Member is a user id granted access to a project. Email is only populated
// on read paths that resolve members through the user directory.
type Member struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// Project is a named collaborative workspace with a member set and a file tree.
// It is storage-agnostic and shared by the repository, service and HTTP layers.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Users     []Member  `json:"users"`
	FileTree  FileTree  `json:"fileTree"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MembersFromIDs wraps raw ids as unresolved members.
func MembersFromIDs(ids []string) []Member {
	out := make([]Member, 0, len(ids))
	for _, id := range ids {
		out = append(out, Member{ID: id})
	}
	return out
}

// MemberIDs returns the member ids in stored order.
func (p *Project) MemberIDs() []string {
	ids := make([]string, 0, len(p.Users))
	for _, m := range p.Users {
		ids = append(ids, m.ID)
	}
	return ids
}

func (p *Project) HasMember(userID string) bool {
	for _, m := range p.Users {
		if m.ID == userID {
			return true
		}
	}
	return false
}
