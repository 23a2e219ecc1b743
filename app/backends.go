package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/config"
	"github.com/Guyuepp/knowledge-base/internal/repository/memory"
	mysqlRepo "github.com/Guyuepp/knowledge-base/internal/repository/mysql"
	myRedisCache "github.com/Guyuepp/knowledge-base/internal/repository/redis"
)

const (
	dbMaxRetry         = 10
	dbRetryIntervalSec = 2
)

// backends holds every repository and cache the services depend on.
type backends struct {
	users       domain.UserRepository
	departments domain.DepartmentRepository
	managers    domain.ManagerRepository
	posts       domain.PostRepository
	comments    domain.CommentRepository
	votes       domain.VoteRepository
	commits     domain.CommitRepository
	tags        domain.TagRepository
	attachments domain.AttachmentRepository

	cache domain.PostCache
	bloom domain.BloomRepository

	closers []func() error
}

func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			logrus.Errorf("got error when closing a backend connection: %v", err)
		}
	}
}

// openDatabase connects with retries, the database container may still be starting.
func openDatabase(cfg config.Database) (*gorm.DB, error) {
	dialector, err := mysqlRepo.Dialector(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, err
	}

	var db *gorm.DB
	for i := range dbMaxRetry {
		db, err = gorm.Open(dialector, &gorm.Config{TranslateError: true})
		if err != nil {
			logrus.Warnf("failed to open connection to database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
		} else {
			sqlDB, dbErr := db.DB()
			if dbErr != nil {
				err = dbErr
				logrus.Warnf("failed to get sql.DB from gorm.DB (attempt %d/%d): %v", i+1, dbMaxRetry, err)
			} else if err = sqlDB.Ping(); err == nil {
				return db, nil
			} else {
				logrus.Warnf("failed to ping database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
				_ = sqlDB.Close()
			}
		}
		time.Sleep(dbRetryIntervalSec * time.Second)
	}
	return nil, fmt.Errorf("could not connect to database after retries: %w", err)
}

func closeDB(db *gorm.DB) func() error {
	return func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
}

// openBackends wires the relational or in-memory store, plus redis when configured.
func openBackends(ctx context.Context, cfg config.Config, departments []string, autoMigrate bool) (*backends, error) {
	b := &backends{}

	if cfg.Database.Driver == "memory" {
		store := memory.New()
		for _, name := range departments {
			if err := store.Departments().Store(ctx, &domain.Department{Name: name}); err != nil {
				logrus.Warnf("failed to seed department %q: %v", name, err)
			}
		}
		b.users = store.Users()
		b.departments = store.Departments()
		b.managers = store.Managers()
		b.posts = store.Posts()
		b.comments = store.Comments()
		b.votes = store.Votes()
		b.commits = store.Commits()
		b.tags = store.Tags()
		b.attachments = store.Attachments()
		logrus.Warn("using the in-memory store, data is lost on exit")
	} else {
		db, err := openDatabase(cfg.Database)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, closeDB(db))
		if autoMigrate {
			if err := mysqlRepo.Migrate(ctx, db, departments); err != nil {
				b.Close()
				return nil, err
			}
		}
		b.users = mysqlRepo.NewUserRepository(db)
		b.departments = mysqlRepo.NewDepartmentRepository(db)
		b.managers = mysqlRepo.NewManagerRepository(db)
		b.posts = mysqlRepo.NewPostRepository(db)
		b.comments = mysqlRepo.NewCommentRepository(db)
		b.votes = mysqlRepo.NewVoteRepository(db)
		b.commits = mysqlRepo.NewCommitRepository(db)
		b.tags = mysqlRepo.NewTagRepository(db)
		b.attachments = mysqlRepo.NewAttachmentRepository(db)
	}

	if !cfg.Cache.Enabled() {
		logrus.Info("CACHE_HOST is empty, using the process local cache")
		b.cache = memory.NewPostCache()
		b.bloom = memory.NewBloom(cfg.BloomBitSize)
		return b, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.Addr(),
		Password: cfg.Cache.Pass,
		DB:       cfg.Cache.DB,
	})
	b.closers = append(b.closers, client.Close)
	if _, err := client.Ping(ctx).Result(); err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to open connection to cache: %w", err)
	}
	b.cache = myRedisCache.NewPostCache(client)
	b.bloom = myRedisCache.NewPostBloom(client, cfg.BloomBitSize)
	return b, nil
}
