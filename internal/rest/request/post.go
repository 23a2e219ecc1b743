package request

import "github.com/Guyuepp/knowledge-base/domain"

// Post is bound from a multipart form; tags and attachments are read separately.
type Post struct {
	Title string `form:"title" binding:"required,notblank,max=200"`
	Body  string `form:"body" binding:"required,notblank"`
}

func (r *Post) ToDomain() domain.CreatePostInput {
	return domain.CreatePostInput{
		Title: r.Title,
		Body:  r.Body,
	}
}

type UpdatePost struct {
	Title string `json:"title" binding:"omitempty,max=200"`
	Body  string `json:"body"`
}

func (r *UpdatePost) ToDomain(commitMessage string) domain.UpdatePostInput {
	return domain.UpdatePostInput{
		Title:         r.Title,
		Body:          r.Body,
		CommitMessage: commitMessage,
	}
}

// Feed holds the query of the feed listing.
type Feed struct {
	DepartmentID *int64 `form:"deptId" binding:"omitempty,gt=0"`
	Tag          string `form:"tag"`
	Page         int    `form:"page" binding:"omitempty,gte=1"`
	PageSize     int    `form:"pageSize" binding:"omitempty,gte=1,lte=100"`
}

func (r *Feed) ToDomain() domain.PostFilter {
	return domain.PostFilter{
		DepartmentID: r.DepartmentID,
		Tag:          r.Tag,
		Page:         r.Page,
		PageSize:     r.PageSize,
	}
}
