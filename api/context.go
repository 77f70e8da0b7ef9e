package api

import (
	"context"
	"net/http"

	"github.com/rpupo63/blog-platform-backend/errs"
	"github.com/rpupo63/blog-platform-backend/models"
	"github.com/rpupo63/blog-platform-backend/services"
)

type keyType string

const subjectKey keyType = "subject"

// ctxWithSubject adds the verified identity subject to the context
func ctxWithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}

// ctxGetSubject retrieves the verified identity subject from the context
func ctxGetSubject(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey).(string)
	return subject, ok && subject != ""
}

// currentActor resolves the authenticated user for a mutating request.
// Blocked users are refused.
func currentActor(r *http.Request, users *services.UserDirectory) (*models.User, error) {
	subject, ok := ctxGetSubject(r.Context())
	if !ok {
		return nil, errs.NewUnauthenticatedError("authentication required")
	}
	return users.ResolveActor(r.Context(), subject)
}

// currentUser resolves the authenticated user for a read.
func currentUser(r *http.Request, users *services.UserDirectory) (*models.User, error) {
	subject, ok := ctxGetSubject(r.Context())
	if !ok {
		return nil, errs.NewUnauthenticatedError("authentication required")
	}
	return users.ResolveViewer(r.Context(), subject)
}

// currentViewer is currentUser for routes where authentication is optional.
// Anonymous requests, and subjects that never synced, yield nil.
func currentViewer(r *http.Request, users *services.UserDirectory) (*models.User, error) {
	subject, ok := ctxGetSubject(r.Context())
	if !ok {
		return nil, nil
	}
	user, err := users.ResolveViewer(r.Context(), subject)
	if errs.IsNotFound(err) {
		return nil, nil
	}
	return user, err
}
