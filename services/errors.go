package services

import "errors"

// Failure taxonomy shared by all services. Controllers translate these into
// HTTP statuses; nothing in this package swallows or retries them.
var (
	// ErrNotFound means the referenced post, comment, subject or user does not
	// exist. Pure reads surface it as an empty result; mutations fail with it.
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated means a write was attempted without a resolvable
	// identity.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrUnregistered means the identity provider vouched for the caller but no
	// user record exists for the subject. User creation belongs to the sync
	// webhook, so writes must fail here instead of registering silently.
	ErrUnregistered = errors.New("unregistered user")

	// ErrForbidden means the caller is authenticated but is not the owner of
	// the resource being mutated.
	ErrForbidden = errors.New("forbidden")

	// ErrDataIntegrity means a reference that must resolve by invariant (post
	// author, post subject, comment author) did not. It signals corrupted
	// state and is never degraded into an empty result.
	ErrDataIntegrity = errors.New("data integrity violation")

	// ErrInvalidArgument covers malformed input the schema cannot express:
	// unknown post types or like kinds, replies to replies, a reply whose post
	// disagrees with its parent's post.
	ErrInvalidArgument = errors.New("invalid argument")
)
