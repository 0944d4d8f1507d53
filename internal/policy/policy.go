// Package policy holds the object-level authorization rules. Every rule is an
// identity comparison on user IDs; usernames are never compared.
package policy

import (
	"connectly/internal/model"
)

// CanAccess reports whether actor may modify or delete post. Authorless
// posts are not writable by anyone.
func CanAccess(actor model.Identity, post *model.Post) bool {
	if !actor.Authenticated() || post == nil || post.AuthorID == nil {
		return false
	}
	return *post.AuthorID == actor.UserID
}

// CanAccessTask applies the ownership rule to the task's assignee.
func CanAccessTask(actor model.Identity, task *model.Task) bool {
	if !actor.Authenticated() || task == nil {
		return false
	}
	return task.AssignedTo == actor.UserID
}

// CanAccessComment applies the ownership rule to the comment's author.
func CanAccessComment(actor model.Identity, comment *model.Comment) bool {
	if !actor.Authenticated() || comment == nil {
		return false
	}
	return comment.AuthorID == actor.UserID
}

// CanAccessUser allows users to act on their own account only.
func CanAccessUser(actor model.Identity, user *model.User) bool {
	if !actor.Authenticated() || user == nil {
		return false
	}
	return user.ID == actor.UserID
}

// Authorize turns a rule outcome into the caller-facing error: nil when
// allowed, ErrUnauthenticated for an anonymous actor, denied otherwise.
// denied defaults to model.ErrForbidden.
func Authorize(actor model.Identity, allowed bool, denied *model.Error) error {
	if allowed {
		return nil
	}
	if !actor.Authenticated() {
		return model.ErrUnauthenticated
	}
	if denied == nil {
		return model.ErrForbidden
	}
	return denied
}
