package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/repository/mysql/model"
)

type userRepository struct {
	DB *gorm.DB
}

var _ domain.UserRepository = (*userRepository)(nil)

// NewUserRepository will create an implementation of domain.UserRepository
func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{
		DB: db,
	}
}

func (m *userRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	var user model.User
	if err := m.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return domain.User{}, translateError(err)
	}

	return user.ToDomain(), nil
}

func (m *userRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var user model.User
	if err := m.DB.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return domain.User{}, translateError(err)
	}

	return user.ToDomain(), nil
}

func (m *userRepository) Insert(ctx context.Context, u *domain.User) error {
	userModel := model.NewUserFromDomain(u)

	result := m.DB.WithContext(ctx).Create(userModel)
	if result.Error != nil {
		return translateError(result.Error)
	}

	u.ID = userModel.ID
	u.CreatedAt = userModel.CreatedAt

	return nil
}

func (m *userRepository) Update(ctx context.Context, u *domain.User) error {
	result := m.DB.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", u.ID).
		Updates(map[string]any{
			"full_name":       u.FullName,
			"password_hash":   u.PasswordHash,
			"profile_picture": u.ProfilePicture,
		})
	return translateError(result.Error)
}

func (m *userRepository) Delete(ctx context.Context, id int64) error {
	result := m.DB.WithContext(ctx).Delete(&model.User{}, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *userRepository) GetByIDs(ctx context.Context, uids []int64) ([]domain.User, error) {
	if len(uids) == 0 {
		return nil, nil
	}
	var users []model.User
	err := m.DB.WithContext(ctx).Model(&model.User{}).Where("id in ?", uids).Find(&users).Error
	res := make([]domain.User, len(users))
	for i := range users {
		res[i] = users[i].ToDomain()
	}
	return res, err
}

func (m *userRepository) Stats(ctx context.Context, userID int64) (res domain.UserStats, err error) {
	db := m.DB.WithContext(ctx)

	var totals struct {
		Posts     int64
		Upvotes   int64
		Downvotes int64
	}
	err = db.Model(&model.Post{}).
		Select("COUNT(*) AS posts, COALESCE(SUM(upvote_count), 0) AS upvotes, COALESCE(SUM(downvote_count), 0) AS downvotes").
		Where("user_id = ?", userID).
		Scan(&totals).Error
	if err != nil {
		return res, err
	}
	res.TotalPosts = totals.Posts
	res.TotalUpvotes = totals.Upvotes
	res.TotalDownvotes = totals.Downvotes

	err = db.Model(&model.Comment{}).
		Joins("JOIN posts ON posts.id = comments.post_id").
		Where("posts.user_id = ?", userID).
		Count(&res.TotalCommentsReceived).Error
	if err != nil {
		return res, err
	}

	err = db.Model(&model.Commit{}).
		Joins("JOIN managers ON managers.id = commits.manager_id").
		Where("managers.user_id = ?", userID).
		Count(&res.TotalCommitsMade).Error
	return res, err
}
