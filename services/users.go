package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rpupo63/blog-platform-backend/database"
	"github.com/rpupo63/blog-platform-backend/errs"
	"github.com/rpupo63/blog-platform-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	profileRecentPosts = 5
	usernameSuffixLen  = 5
	minUsernameLen     = 3
	maxUsernameLen     = 30
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// SyncInput carries the identity provider's view of a user.
type SyncInput struct {
	Subject      string
	Fullname     string
	Email        string
	Username     string
	ProfileImage string
}

// ProfileUpdate holds the self-editable profile fields.
type ProfileUpdate struct {
	Fullname     *string
	Bio          *string
	ProfileImage *string
}

// Profile is a public profile with the author's most recent published posts.
type Profile struct {
	User        *models.User
	RecentPosts []*models.BlogPost
	HasMore     bool
}

type UserDirectory struct {
	db     database.Database
	logger zerolog.Logger
}

func NewUserDirectory(db database.Database) *UserDirectory {
	return &UserDirectory{
		db:     db,
		logger: log.With().Str("service", "users").Logger(),
	}
}

// Sync creates the user for a subject on first sight and refreshes the
// provider-owned fields afterwards. The returned bool reports creation.
func (d *UserDirectory) Sync(ctx context.Context, in SyncInput) (*models.User, bool, error) {
	in.Subject = strings.TrimSpace(in.Subject)
	if in.Subject == "" {
		return nil, false, errs.NewUnauthenticatedError("missing identity subject")
	}
	requested := strings.ToLower(strings.TrimSpace(in.Username))
	if requested != "" {
		if err := validateUsername(requested); err != nil {
			return nil, false, err
		}
	}

	user, err := d.db.UserRepo().FindBySubject(ctx, in.Subject)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, errs.NewDatabaseError("find", "user", err)
	}
	if user == nil {
		created, err := d.create(ctx, in, requested)
		if err != nil {
			if !errs.IsConflict(err) {
				return nil, false, err
			}
			// A concurrent sync for the same subject won the insert.
			if existing, findErr := d.db.UserRepo().FindBySubject(ctx, in.Subject); findErr == nil {
				return existing, false, nil
			}
			return nil, false, err
		}
		d.logger.Info().Str("userID", created.ID.String()).Str("username", created.Username).Msg("Created user on first sync")
		return created, true, nil
	}

	err = d.db.Transaction(ctx, func(tx database.Database) error {
		username := user.Username
		if requested != "" && requested != user.Username {
			taken, err := tx.UserRepo().UsernameExists(ctx, requested)
			if err != nil {
				return errs.NewDatabaseError("check", "username", err)
			}
			if taken {
				return errs.NewConflictError("username is already taken")
			}
			username = requested
		}
		if err := tx.UserRepo().UpdateIdentity(ctx, user.ID, username, firstNonEmpty(in.Fullname, user.Fullname), firstNonEmpty(in.Email, user.Email), firstNonEmpty(in.ProfileImage, user.ProfileImage)); err != nil {
			return errs.NewDatabaseError("update", "user", err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	updated, err := d.db.UserRepo().FindByID(ctx, user.ID)
	if err != nil {
		return nil, false, errs.NewDatabaseError("find", "user", err)
	}
	return updated, false, nil
}

func (d *UserDirectory) create(ctx context.Context, in SyncInput, requested string) (*models.User, error) {
	user := &models.User{
		Subject:      in.Subject,
		Fullname:     strings.TrimSpace(in.Fullname),
		Email:        strings.TrimSpace(in.Email),
		ProfileImage: strings.TrimSpace(in.ProfileImage),
	}
	err := d.db.Transaction(ctx, func(tx database.Database) error {
		username := requested
		if username != "" {
			taken, err := tx.UserRepo().UsernameExists(ctx, username)
			if err != nil {
				return errs.NewDatabaseError("check", "username", err)
			}
			if taken {
				return errs.NewConflictError("username is already taken")
			}
		} else {
			var err error
			if username, err = generateUsername(ctx, tx, in.Email); err != nil {
				return err
			}
		}
		user.Username = username
		if err := tx.UserRepo().Add(ctx, user); err != nil {
			return errs.NewDatabaseError("create", "user", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// generateUsername derives a handle from the email local part, appending a
// short random suffix when that handle is taken.
func generateUsername(ctx context.Context, db database.Database, email string) (string, error) {
	base := sanitizeUsername(strings.SplitN(email, "@", 2)[0])
	if len(base) < minUsernameLen {
		base = sanitizeUsername("user" + base)
	}

	taken, err := db.UserRepo().UsernameExists(ctx, base)
	if err != nil {
		return "", errs.NewDatabaseError("check", "username", err)
	}
	if !taken {
		return base, nil
	}

	suffix, err := gonanoid.Generate("abcdefghijklmnopqrstuvwxyz0123456789", usernameSuffixLen)
	if err != nil {
		return "", errs.NewInternalErrorWithCause("generate username", err)
	}
	return base + suffix, nil
}

func sanitizeUsername(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	out := strings.TrimLeft(b.String(), "._-")
	if len(out) > maxUsernameLen-usernameSuffixLen {
		out = out[:maxUsernameLen-usernameSuffixLen]
	}
	return out
}

func validateUsername(username string) error {
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return errs.NewInvalidFieldError("username", "must be between 3 and 30 characters")
	}
	if !usernamePattern.MatchString(username) {
		return errs.NewInvalidFieldError("username", "may only contain letters, digits, '.', '_' and '-'")
	}
	return nil
}

// ResolveViewer maps a verified subject to its user without checking the
// blocked flag. Use it for reads.
func (d *UserDirectory) ResolveViewer(ctx context.Context, subject string) (*models.User, error) {
	if subject == "" {
		return nil, errs.NewUnauthenticatedError("missing identity subject")
	}
	user, err := d.db.UserRepo().FindBySubject(ctx, subject)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	return user, nil
}

// ResolveActor maps a verified subject to the user performing a mutation.
// Blocked users are refused.
func (d *UserDirectory) ResolveActor(ctx context.Context, subject string) (*models.User, error) {
	user, err := d.ResolveViewer(ctx, subject)
	if err != nil {
		return nil, err
	}
	if user.Blocked {
		return nil, errs.NewForbiddenError("account is blocked")
	}
	return user, nil
}

// Profile returns the public profile for username together with its most
// recent published posts.
func (d *UserDirectory) Profile(ctx context.Context, username string) (*Profile, error) {
	user, err := d.db.UserRepo().FindByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}

	posts, total, err := d.db.BlogPostRepo().List(ctx, database.PostQuery{
		AuthorID: &user.ID,
		Draft:    boolPtr(false),
		Order:    database.OrderRecent,
		Limit:    profileRecentPosts,
	})
	if err != nil {
		return nil, errs.NewDatabaseError("list", "blog posts", err)
	}

	return &Profile{
		User:        user,
		RecentPosts: posts,
		HasMore:     int64(len(posts)) < total,
	}, nil
}

// UpdateProfile changes the fields set in update and returns the fresh user.
func (d *UserDirectory) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*models.User, error) {
	user, err := d.db.UserRepo().FindByID(ctx, userID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}

	fullname, bio, image := user.Fullname, user.Bio, user.ProfileImage
	if update.Fullname != nil {
		fullname = strings.TrimSpace(*update.Fullname)
		if fullname == "" {
			return nil, errs.NewMissingRequiredFieldError("fullname")
		}
	}
	if update.Bio != nil {
		bio = strings.TrimSpace(*update.Bio)
		if runeLen(bio) > maxBioLen {
			return nil, errs.NewInvalidFieldError("bio", "must be at most 200 characters")
		}
	}
	if update.ProfileImage != nil {
		image = strings.TrimSpace(*update.ProfileImage)
	}

	if err := d.db.UserRepo().UpdateProfile(ctx, userID, fullname, bio, image); err != nil {
		return nil, errs.NewDatabaseError("update", "user", err)
	}
	user.Fullname, user.Bio, user.ProfileImage = fullname, bio, image
	return user, nil
}

// SetBlocked blocks or unblocks username. Only admins may call it, and an
// admin cannot block themselves.
func (d *UserDirectory) SetBlocked(ctx context.Context, admin *models.User, username string, blocked bool) (*models.User, error) {
	if admin == nil || !admin.IsAdmin() {
		return nil, errs.NewForbiddenError("admin role required")
	}
	target, err := d.db.UserRepo().FindByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if target.ID == admin.ID {
		return nil, errs.NewBadRequestError("cannot change your own blocked state")
	}
	if err := d.db.UserRepo().SetBlocked(ctx, target.ID, blocked); err != nil {
		return nil, errs.NewDatabaseError("update", "user", err)
	}
	target.Blocked = blocked
	d.logger.Info().
		Str("adminID", admin.ID.String()).
		Str("userID", target.ID.String()).
		Bool("blocked", blocked).
		Msg("Changed blocked state")
	return target, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
