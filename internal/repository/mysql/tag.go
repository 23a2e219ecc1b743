package mysql

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/repository/mysql/model"
)

type tagRepository struct {
	DB *gorm.DB
}

var _ domain.TagRepository = (*tagRepository)(nil)

func NewTagRepository(db *gorm.DB) *tagRepository {
	return &tagRepository{DB: db}
}

func (m *tagRepository) FetchByDepartment(ctx context.Context, deptID *int64) ([]domain.Tag, error) {
	q := m.DB.WithContext(ctx).Order("name")
	if deptID != nil {
		q = q.Where("department_id = ?", *deptID)
	}
	var rows []model.Tag
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainTags(rows), nil
}

func (m *tagRepository) GetByName(ctx context.Context, deptID int64, name string) (domain.Tag, error) {
	var row model.Tag
	err := m.DB.WithContext(ctx).
		Where("department_id = ? AND LOWER(name) = ?", deptID, strings.ToLower(name)).
		Take(&row).Error
	if err != nil {
		return domain.Tag{}, translateError(err)
	}
	return row.ToDomain(), nil
}

func (m *tagRepository) Store(ctx context.Context, t *domain.Tag) error {
	row := model.Tag{Name: t.Name, DepartmentID: t.DepartmentID}
	if err := m.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return translateError(err)
	}
	t.ID = row.ID
	return nil
}

func (m *tagRepository) LinkPost(ctx context.Context, postID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	links := make([]model.PostTag, len(tagIDs))
	for i, id := range tagIDs {
		links[i] = model.PostTag{PostID: postID, TagID: id}
	}
	return m.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&links).Error
}

func (m *tagRepository) FetchByPost(ctx context.Context, postID int64) ([]domain.Tag, error) {
	var rows []model.Tag
	err := m.DB.WithContext(ctx).
		Model(&model.Tag{}).
		Select("tags.*").
		Joins("JOIN post_tags ON post_tags.tag_id = tags.id").
		Where("post_tags.post_id = ?", postID).
		Order("tags.name").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainTags(rows), nil
}

func toDomainTags(rows []model.Tag) []domain.Tag {
	res := make([]domain.Tag, len(rows))
	for i := range rows {
		res[i] = rows[i].ToDomain()
	}
	return res
}
