package response

import "github.com/Guyuepp/knowledge-base/domain"

type Tag struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	DepartmentID int64  `json:"departmentId"`
}

func NewTagsFromDomain(ts []domain.Tag) []Tag {
	res := make([]Tag, len(ts))
	for i, t := range ts {
		res[i] = Tag{ID: t.ID, Name: t.Name, DepartmentID: t.DepartmentID}
	}
	return res
}

type Attachment struct {
	ID         int64  `json:"id"`
	FileName   string `json:"fileName"`
	FilePath   string `json:"filePath"`
	FileType   string `json:"fileType"`
	UploadedAt string `json:"uploadedAt"`
}

type Repost struct {
	UserID    int64  `json:"userId"`
	UserName  string `json:"userName"`
	CreatedAt string `json:"createdAt"`
}

type Post struct {
	ID            int64        `json:"id"`
	Title         string       `json:"title"`
	Body          string       `json:"body"`
	UserID        int64        `json:"userId"`
	AuthorName    string       `json:"authorName"`
	DepartmentID  int64        `json:"departmentId"`
	UpvoteCount   int64        `json:"upvoteCount"`
	DownvoteCount int64        `json:"downvoteCount"`
	CommentCount  int64        `json:"commentCount"`
	IsRepost      bool         `json:"isRepost"`
	Tags          []Tag        `json:"tags,omitempty"`
	Attachments   []Attachment `json:"attachments,omitempty"`
	Reposts       []Repost     `json:"reposts,omitempty"`
	CreatedAt     string       `json:"createdAt"`
	UpdatedAt     *string      `json:"updatedAt"`
}

// NewPostFromDomain: Domain -> Response
func NewPostFromDomain(p *domain.Post) Post {
	res := Post{
		ID:            p.ID,
		Title:         p.Title,
		Body:          p.Body,
		UserID:        p.User.ID,
		AuthorName:    p.User.FullName,
		DepartmentID:  p.DepartmentID,
		UpvoteCount:   p.UpvoteCount,
		DownvoteCount: p.DownvoteCount,
		CommentCount:  p.CommentCount,
		IsRepost:      p.IsRepost,
		Tags:          NewTagsFromDomain(p.Tags),
		CreatedAt:     formatTime(p.CreatedAt),
		UpdatedAt:     formatOptional(p.UpdatedAt),
	}
	for _, a := range p.Attachments {
		res.Attachments = append(res.Attachments, Attachment{
			ID:         a.ID,
			FileName:   a.FileName,
			FilePath:   a.FilePath,
			FileType:   a.FileType,
			UploadedAt: formatTime(a.UploadedAt),
		})
	}
	for _, r := range p.Reposts {
		res.Reposts = append(res.Reposts, Repost{
			UserID:    r.UserID,
			UserName:  r.UserName,
			CreatedAt: formatTime(r.CreatedAt),
		})
	}
	return res
}

func NewPostsFromDomain(ps []domain.Post) []Post {
	res := make([]Post, len(ps))
	for i := range ps {
		res[i] = NewPostFromDomain(&ps[i])
	}
	return res
}
