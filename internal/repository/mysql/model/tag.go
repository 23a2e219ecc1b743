package model

import "github.com/Guyuepp/knowledge-base/domain"

type Tag struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"type:varchar(50);not null;uniqueIndex:idx_tag_dept_name"`
	DepartmentID int64  `gorm:"column:department_id;not null;uniqueIndex:idx_tag_dept_name"`
}

func (Tag) TableName() string {
	return "tags"
}

func (m *Tag) ToDomain() domain.Tag {
	return domain.Tag{ID: m.ID, Name: m.Name, DepartmentID: m.DepartmentID}
}

type PostTag struct {
	PostID int64 `gorm:"column:post_id;primaryKey"`
	TagID  int64 `gorm:"column:tag_id;primaryKey;index"`
}

func (PostTag) TableName() string {
	return "post_tags"
}
