package mysql

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/repository/mysql/model"
)

type postRepository struct {
	DB *gorm.DB
}

var _ domain.PostRepository = (*postRepository)(nil)

// NewPostRepository creates the gorm backed post store
func NewPostRepository(db *gorm.DB) *postRepository {
	return &postRepository{db}
}

func (m *postRepository) Fetch(ctx context.Context, f domain.PostFilter) ([]domain.Post, error) {
	f.Normalize()

	q := m.DB.WithContext(ctx).Model(&model.Post{}).Select("posts.*")
	if f.DepartmentID != nil {
		q = q.Where("posts.department_id = ?", *f.DepartmentID)
	}
	if tag := strings.ToLower(strings.TrimSpace(f.Tag)); tag != "" {
		q = q.Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.name = ?", tag)
	}

	var posts []model.Post
	err := q.Order("posts.created_at DESC").
		Order("posts.id DESC").
		Offset(f.Offset()).
		Limit(f.PageSize).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return toDomainPosts(posts), nil
}

func (m *postRepository) FetchByUser(ctx context.Context, userID int64) ([]domain.Post, error) {
	reposted := m.DB.Model(&model.Repost{}).Select("post_id").Where("user_id = ?", userID)

	var posts []model.Post
	err := m.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Or("id IN (?)", reposted).
		Order("created_at DESC").
		Order("id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	res := toDomainPosts(posts)
	for i := range res {
		if res[i].User.ID != userID {
			res[i].IsRepost = true
		}
	}
	return res, nil
}

func (m *postRepository) GetByID(ctx context.Context, id int64) (domain.Post, error) {
	var post model.Post
	if err := m.DB.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return domain.Post{}, translateError(err)
	}
	return post.ToDomain(), nil
}

func (m *postRepository) Store(ctx context.Context, p *domain.Post) error {
	postModel := model.NewPostFromDomain(p)
	if err := m.DB.WithContext(ctx).Create(postModel).Error; err != nil {
		return translateError(err)
	}
	p.ID = postModel.ID
	p.CreatedAt = postModel.CreatedAt
	return nil
}

func (m *postRepository) Update(ctx context.Context, p *domain.Post) error {
	result := m.DB.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"title":      p.Title,
			"body":       p.Body,
			"updated_at": p.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes dependents before the post itself, all in one transaction.
func (m *postRepository) Delete(ctx context.Context, id int64) error {
	return m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var commentIDs []int64
		if err := tx.Model(&model.Comment{}).Where("post_id = ?", id).Pluck("id", &commentIDs).Error; err != nil {
			return err
		}

		if err := tx.Where("post_id = ?", id).Delete(&model.Vote{}).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&model.Vote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&model.Attachment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.Repost{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.PostTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.Attachment{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&model.Post{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (m *postRepository) SetVoteCounts(ctx context.Context, id int64, counts domain.VoteCounts) error {
	return m.DB.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"upvote_count":   counts.Upvotes,
			"downvote_count": counts.Downvotes,
		}).Error
}

func (m *postRepository) AddRepost(ctx context.Context, r *domain.Repost) error {
	row := model.Repost{PostID: r.PostID, UserID: r.UserID}
	err := m.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
	if err != nil {
		return translateError(err)
	}
	r.ID = row.ID
	r.CreatedAt = row.CreatedAt
	return nil
}

func (m *postRepository) FetchReposts(ctx context.Context, postID int64) ([]domain.Repost, error) {
	var rows []model.RepostWithName
	err := m.DB.WithContext(ctx).
		Model(&model.Repost{}).
		Select("reposts.*, users.full_name").
		Joins("JOIN users ON users.id = reposts.user_id").
		Where("reposts.post_id = ?", postID).
		Order("reposts.created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	res := make([]domain.Repost, len(rows))
	for i := range rows {
		res[i] = rows[i].ToDomain()
	}
	return res, nil
}

func (m *postRepository) CountComments(ctx context.Context, postIDs []int64) (map[int64]int64, error) {
	res := make(map[int64]int64, len(postIDs))
	if len(postIDs) == 0 {
		return res, nil
	}
	var rows []struct {
		PostID int64
		Total  int64
	}
	err := m.DB.WithContext(ctx).
		Model(&model.Comment{}).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		res[r.PostID] = r.Total
	}
	return res, nil
}

func (m *postRepository) FetchIDs(ctx context.Context, cursor, limit int64) (ids []int64, err error) {
	err = m.DB.WithContext(ctx).
		Model(&model.Post{}).
		Where("id > ?", cursor).
		Order("id").
		Limit(int(limit)).
		Pluck("id", &ids).Error
	return
}

func toDomainPosts(rows []model.Post) []domain.Post {
	res := make([]domain.Post, len(rows))
	for i := range rows {
		res[i] = rows[i].ToDomain()
	}
	return res
}
