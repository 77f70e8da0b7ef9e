package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleStandard Role = "standard"
	RoleAdmin    Role = "admin"
)

// User is the internal profile joined to the identity provider by Subject.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Subject      string    `json:"-" gorm:"type:text;not null;uniqueIndex:idx_users_subject"`
	Username     string    `json:"username" gorm:"type:text;not null;uniqueIndex:idx_users_username"`
	Fullname     string    `json:"fullname" gorm:"type:text;not null;default:''"`
	Email        string    `json:"-" gorm:"type:text;not null;default:''"`
	ProfileImage string    `json:"profile_img" gorm:"type:text;not null;default:''"`
	Bio          string    `json:"bio" gorm:"type:text;not null;default:''"`
	Blocked      bool      `json:"blocked" gorm:"not null;default:false"`
	Role         Role      `json:"role" gorm:"type:text;not null;default:'standard'"`
	TotalPosts   int64     `json:"total_posts" gorm:"not null;default:0"`
	TotalReads   int64     `json:"total_reads" gorm:"not null;default:0"`
	TotalLikes   int64     `json:"total_likes" gorm:"not null;default:0"`
	JoinedAt     time.Time `json:"joined_at" gorm:"not null"`

	// Owned posts, newest first when preloaded through BlogPostRepo.
	Blogs []BlogPost `json:"-" gorm:"foreignKey:AuthorID;references:ID"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.JoinedAt.IsZero() {
		u.JoinedAt = time.Now().UTC()
	}
	if u.Role == "" {
		u.Role = RoleStandard
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AuthorSummary is the slice of a User embedded in post, comment and
// notification responses.
type AuthorSummary struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Fullname     string    `json:"fullname"`
	ProfileImage string    `json:"profile_img"`
}

func (u User) Summary() AuthorSummary {
	return AuthorSummary{
		ID:           u.ID,
		Username:     u.Username,
		Fullname:     u.Fullname,
		ProfileImage: u.ProfileImage,
	}
}

// AccountInfo groups the aggregate counters for profile responses.
type AccountInfo struct {
	TotalPosts int64 `json:"total_posts"`
	TotalReads int64 `json:"total_reads"`
	TotalLikes int64 `json:"total_likes"`
}

func (u User) AccountInfo() AccountInfo {
	return AccountInfo{TotalPosts: u.TotalPosts, TotalReads: u.TotalReads, TotalLikes: u.TotalLikes}
}
