package domain

import (
	"errors"
	"fmt"
)

// --- ERROR KINDS ---
// Adapters translate these with errors.Is, every specific error below wraps one of them.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrForbidden        = errors.New("forbidden")
	ErrConflict         = errors.New("conflict")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrExternalService  = errors.New("external service failure")
	ErrInternal         = errors.New("internal error")
)

// --- DOMAIN ERRORS ---
var (
	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrPostNotFound         = fmt.Errorf("post %w", ErrNotFound)
	ErrEmptyPost            = fmt.Errorf("%w: post must have text or image", ErrInvalidArgument)
	ErrEmptyComment         = fmt.Errorf("%w: comment text is required", ErrInvalidArgument)
	ErrInvalidEmail         = fmt.Errorf("%w: invalid email format", ErrInvalidArgument)
	ErrInvalidUsername      = fmt.Errorf("%w: username must be at least 3 characters", ErrInvalidArgument)
	ErrWeakPassword         = fmt.Errorf("%w: password must be at least 6 characters long", ErrInvalidArgument)
	ErrPasswordPair         = fmt.Errorf("%w: please provide both current password and new password", ErrInvalidArgument)
	ErrUnsupportedImage     = fmt.Errorf("%w: unsupported image encoding", ErrInvalidArgument)
	ErrSelfFollow           = fmt.Errorf("%w: you can not follow/unfollow yourself", ErrInvalidOperation)
	ErrNotPostAuthor        = fmt.Errorf("%w: you are not authorized to delete this post", ErrForbidden)
	ErrUsernameTaken        = fmt.Errorf("%w: username already taken", ErrConflict)
	ErrEmailTaken           = fmt.Errorf("%w: email already taken", ErrConflict)
	ErrInvalidCredentials   = fmt.Errorf("%w: invalid username or password", ErrUnauthenticated)
	ErrWrongPassword        = fmt.Errorf("%w: current password is incorrect", ErrUnauthenticated)
	ErrInvalidToken         = fmt.Errorf("%w: invalid token", ErrUnauthenticated)
	ErrInconsistentRelation = fmt.Errorf("%w: relationship left half-applied", ErrInternal)
)
