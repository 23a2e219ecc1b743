package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/repository/mysql/model"
)

type commentRepository struct {
	DB *gorm.DB
}

var _ domain.CommentRepository = (*commentRepository)(nil)

func NewCommentRepository(db *gorm.DB) *commentRepository {
	return &commentRepository{
		DB: db,
	}
}

func (c *commentRepository) GetByID(ctx context.Context, id int64) (domain.Comment, error) {
	var comment model.Comment
	if err := c.DB.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return domain.Comment{}, translateError(err)
	}
	return comment.ToDomain(), nil
}

func (c *commentRepository) FetchByPost(ctx context.Context, postID int64) ([]domain.Comment, error) {
	var comments []model.Comment
	err := c.DB.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at").
		Order("id").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.Comment, len(comments))
	for i := range comments {
		res[i] = comments[i].ToDomain()
	}
	return res, nil
}

func (c *commentRepository) Store(ctx context.Context, comment *domain.Comment) error {
	row := model.NewCommentFromDomain(comment)
	if err := c.DB.WithContext(ctx).Create(row).Error; err != nil {
		return translateError(err)
	}
	comment.ID = row.ID
	comment.CreatedAt = row.CreatedAt
	return nil
}

func (c *commentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	result := c.DB.WithContext(ctx).
		Model(&model.Comment{}).
		Where("id = ?", comment.ID).
		Updates(map[string]any{
			"comment_text": comment.Text,
			"updated_at":   comment.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (c *commentRepository) HasReplies(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := c.DB.WithContext(ctx).
		Model(&model.Comment{}).
		Where("parent_comment_id = ?", id).
		Count(&n).Error
	return n > 0, err
}

func (c *commentRepository) Delete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return c.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id IN ?", ids).Delete(&model.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("comment_id IN ?", ids).Delete(&model.Attachment{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&model.Comment{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
