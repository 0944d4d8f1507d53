package service

import (
	"context"
	"log/slog"

	"connectly/internal/factory"
	"connectly/internal/model"
	"connectly/internal/policy"
	"connectly/internal/queue"
	"connectly/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	publisher   queue.Publisher
	logger      *slog.Logger
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	publisher queue.Publisher,
	logger *slog.Logger,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// Create adds a comment to a post. The stored text is trimmed.
func (s *CommentService) Create(ctx context.Context, actor model.Identity, postID int64, req model.CreateCommentRequest) (*model.Comment, error) {
	if err := policy.Authorize(actor, actor.Authenticated(), nil); err != nil {
		return nil, err
	}

	text, err := factory.CleanCommentText(req.Text)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		PostID:   postID,
		AuthorID: actor.UserID,
		Text:     text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.Author = &model.UserSummary{ID: actor.UserID, Username: actor.Username}

	var ownerID int64
	if post.AuthorID != nil {
		ownerID = *post.AuthorID
	}
	publish(ctx, s.publisher, s.logger, queue.NewPostCommentedEvent(postID, comment.ID, actor.UserID, ownerID))
	return comment, nil
}

// List returns a page of a post's comments, newest first.
func (s *CommentService) List(ctx context.Context, postID int64, cursor *string, limit int) (*model.CommentListResponse, error) {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrPostNotFound
	}

	comments, nextCursor, err := s.commentRepo.GetByPostID(ctx, postID, cursor, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	return &model.CommentListResponse{
		Comments:   comments,
		NextCursor: nextCursor,
		HasMore:    nextCursor != nil,
	}, nil
}

// Delete removes a comment. Only its author may delete it.
func (s *CommentService) Delete(ctx context.Context, actor model.Identity, postID, commentID int64) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.PostID != postID {
		return model.ErrCommentNotFound
	}
	if err := policy.Authorize(actor, policy.CanAccessComment(actor, comment), model.ErrNotCommentOwner); err != nil {
		return err
	}
	return s.commentRepo.Delete(ctx, commentID)
}
