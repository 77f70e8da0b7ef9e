package database

import (
	"context"

	"gorm.io/gorm"
)

type Database struct {
	db               *gorm.DB
	userRepo         *UserRepo
	blogPostRepo     *BlogPostRepo
	blogTagRepo      *BlogTagRepo
	blogLikeRepo     *BlogLikeRepo
	savedBlogRepo    *SavedBlogRepo
	commentRepo      *CommentRepo
	notificationRepo *NotificationRepo
	counters         *Counters
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:               db,
		userRepo:         NewUserRepo(db),
		blogPostRepo:     NewBlogPostRepo(db),
		blogTagRepo:      NewBlogTagRepo(db),
		blogLikeRepo:     NewBlogLikeRepo(db),
		savedBlogRepo:    NewSavedBlogRepo(db),
		commentRepo:      NewCommentRepo(db),
		notificationRepo: NewNotificationRepo(db),
		counters:         NewCounters(db),
	}
}

// Transaction runs fn against a Database bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (d Database) Transaction(ctx context.Context, fn func(tx Database) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) BlogPostRepo() *BlogPostRepo {
	return d.blogPostRepo
}

func (d Database) BlogTagRepo() *BlogTagRepo {
	return d.blogTagRepo
}

func (d Database) BlogLikeRepo() *BlogLikeRepo {
	return d.blogLikeRepo
}

func (d Database) SavedBlogRepo() *SavedBlogRepo {
	return d.savedBlogRepo
}

func (d Database) CommentRepo() *CommentRepo {
	return d.commentRepo
}

func (d Database) NotificationRepo() *NotificationRepo {
	return d.notificationRepo
}

func (d Database) Counters() *Counters {
	return d.counters
}

// Ping checks that the underlying connection pool is reachable.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
