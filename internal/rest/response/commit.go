package response

import "github.com/Guyuepp/knowledge-base/domain"

type Commit struct {
	ID          int64  `json:"id"`
	PostID      int64  `json:"postId"`
	ManagerID   int64  `json:"managerId"`
	ManagerName string `json:"managerName"`
	Message     string `json:"message"`
	CreatedAt   string `json:"createdAt"`
}

func NewCommitsFromDomain(cs []domain.Commit) []Commit {
	res := make([]Commit, len(cs))
	for i, c := range cs {
		res[i] = Commit{
			ID:          c.ID,
			PostID:      c.PostID,
			ManagerID:   c.ManagerID,
			ManagerName: c.ManagerName,
			Message:     c.Message,
			CreatedAt:   formatTime(c.CreatedAt),
		}
	}
	return res
}
