package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-platform-backend/database"
	"github.com/rpupo63/blog-platform-backend/errs"
	"github.com/rpupo63/blog-platform-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type CommentTree struct {
	db     database.Database
	logger zerolog.Logger
	now    func() time.Time
}

func NewCommentTree(db database.Database) *CommentTree {
	return &CommentTree{
		db:     db,
		logger: log.With().Str("service", "comments").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func normalizeCommentContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", errs.NewMissingRequiredFieldError("content")
	}
	if runeLen(content) > maxCommentLen {
		return "", errs.NewInvalidFieldError("content", "must be at most 1000 characters")
	}
	return content, nil
}

// Add creates a comment on the post, or a reply when parentID is set. The
// post author gets a new_comment notification and, for replies, the parent
// comment's author also gets a new_reply. Self-notifications are skipped.
func (c *CommentTree) Add(ctx context.Context, author *models.User, blogID, content string, parentID *uuid.UUID) (*models.Comment, error) {
	content, err := normalizeCommentContent(content)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		AuthorID:  author.ID,
		ParentID:  parentID,
		Content:   content,
		CreatedAt: c.now(),
	}
	err = c.db.Transaction(ctx, func(tx database.Database) error {
		post, err := visiblePost(ctx, tx, blogID, author.ID)
		if err != nil {
			return err
		}
		comment.BlogPostID = post.ID

		var parent *models.Comment
		if parentID != nil {
			if parent, err = tx.CommentRepo().FindByID(ctx, *parentID); err != nil {
				return errs.NewDatabaseError("find", "parent comment", err)
			}
			if parent.BlogPostID != post.ID {
				return errs.NewInvalidFieldError("parent_id", "belongs to a different post")
			}
		}

		if err := tx.CommentRepo().Add(ctx, comment); err != nil {
			return errs.NewDatabaseError("create", "comment", err)
		}

		events := []NotificationEvent{{
			RecipientID: post.AuthorID,
			ActorID:     author.ID,
			Kind:        models.NotificationNewComment,
			BlogPostID:  post.ID,
			CommentID:   &comment.ID,
		}}
		if parent != nil {
			events = append(events, NotificationEvent{
				RecipientID: parent.AuthorID,
				ActorID:     author.ID,
				Kind:        models.NotificationNewReply,
				BlogPostID:  post.ID,
				CommentID:   &comment.ID,
			})
		}
		for _, e := range events {
			if _, err := Notify(ctx, tx, e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	comment.Author = *author
	return comment, nil
}

// Edit replaces the content of the user's own comment.
func (c *CommentTree) Edit(ctx context.Context, userID, commentID uuid.UUID, content string) (*models.Comment, error) {
	content, err := normalizeCommentContent(content)
	if err != nil {
		return nil, err
	}

	comment, err := c.db.CommentRepo().FindByID(ctx, commentID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "comment", err)
	}
	if comment.AuthorID != userID {
		return nil, errs.NewForbiddenError("only the comment author can edit it")
	}

	editedAt := c.now()
	if err := c.db.CommentRepo().UpdateContent(ctx, commentID, content, editedAt); err != nil {
		return nil, errs.NewDatabaseError("update", "comment", err)
	}
	comment.Content = content
	comment.Edited = true
	comment.EditedAt = &editedAt
	return comment, nil
}

// Delete removes a comment and its whole reply subtree, together with the
// notifications they produced. The comment author and the post author may
// delete. It returns the number of comments removed.
func (c *CommentTree) Delete(ctx context.Context, userID, commentID uuid.UUID) (int64, error) {
	var deleted int64
	err := c.db.Transaction(ctx, func(tx database.Database) error {
		comment, err := tx.CommentRepo().FindByID(ctx, commentID)
		if err != nil {
			return errs.NewDatabaseError("find", "comment", err)
		}
		post, err := tx.BlogPostRepo().FindByID(ctx, comment.BlogPostID)
		if err != nil {
			return errs.NewDatabaseError("find", "blog post", err)
		}
		if comment.AuthorID != userID && post.AuthorID != userID {
			return errs.NewForbiddenError("only the comment author or the post author can delete it")
		}

		all, err := tx.CommentRepo().FindByPost(ctx, post.ID)
		if err != nil {
			return errs.NewDatabaseError("list", "comments", err)
		}
		ids := subtreeIDs(all, commentID)

		if err := tx.NotificationRepo().DeleteByComments(ctx, ids); err != nil {
			return errs.NewDatabaseError("delete", "notifications", err)
		}
		if deleted, err = tx.CommentRepo().DeleteByIDs(ctx, ids); err != nil {
			return errs.NewDatabaseError("delete", "comments", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	c.logger.Debug().Str("commentID", commentID.String()).Int64("deleted", deleted).Msg("Deleted comment subtree")
	return deleted, nil
}

// List returns the post's comments as a forest, oldest first at every level.
func (c *CommentTree) List(ctx context.Context, blogID string, viewerID uuid.UUID) ([]*models.CommentNode, error) {
	post, err := visiblePost(ctx, c.db, blogID, viewerID)
	if err != nil {
		return nil, err
	}
	comments, err := c.db.CommentRepo().FindByPost(ctx, post.ID)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "comments", err)
	}
	return BuildCommentTree(comments), nil
}

// BuildCommentTree links a flat, creation-ordered list of comments into a
// forest. Comments whose parent is missing from the list become roots.
func BuildCommentTree(comments []*models.Comment) []*models.CommentNode {
	present := make(map[uuid.UUID]struct{}, len(comments))
	for _, cm := range comments {
		present[cm.ID] = struct{}{}
	}

	children := make(map[uuid.UUID][]*models.Comment, len(comments))
	var roots []*models.Comment
	for _, cm := range comments {
		if cm.ParentID != nil {
			if _, ok := present[*cm.ParentID]; ok && *cm.ParentID != cm.ID {
				children[*cm.ParentID] = append(children[*cm.ParentID], cm)
				continue
			}
		}
		roots = append(roots, cm)
	}

	visited := make(map[uuid.UUID]struct{}, len(comments))
	var build func(cm *models.Comment) *models.CommentNode
	build = func(cm *models.Comment) *models.CommentNode {
		visited[cm.ID] = struct{}{}
		node := &models.CommentNode{
			ID:        cm.ID,
			ParentID:  cm.ParentID,
			Content:   cm.Content,
			Edited:    cm.Edited,
			CreatedAt: cm.CreatedAt,
			EditedAt:  cm.EditedAt,
			Author:    cm.Author.Summary(),
			Replies:   make([]*models.CommentNode, 0, len(children[cm.ID])),
		}
		for _, child := range children[cm.ID] {
			if _, seen := visited[child.ID]; seen {
				continue
			}
			node.Replies = append(node.Replies, build(child))
		}
		return node
	}

	forest := make([]*models.CommentNode, 0, len(roots))
	for _, root := range roots {
		forest = append(forest, build(root))
	}
	return forest
}

// subtreeIDs returns rootID and the IDs of every comment below it.
func subtreeIDs(comments []*models.Comment, rootID uuid.UUID) []uuid.UUID {
	children := make(map[uuid.UUID][]uuid.UUID, len(comments))
	for _, cm := range comments {
		if cm.ParentID != nil {
			children[*cm.ParentID] = append(children[*cm.ParentID], cm.ID)
		}
	}

	ids := []uuid.UUID{rootID}
	seen := map[uuid.UUID]struct{}{rootID: {}}
	for i := 0; i < len(ids); i++ {
		for _, child := range children[ids[i]] {
			if _, ok := seen[child]; ok {
				continue
			}
			seen[child] = struct{}{}
			ids = append(ids, child)
		}
	}
	return ids
}
