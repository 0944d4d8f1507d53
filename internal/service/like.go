package service

import (
	"context"
	"log/slog"

	"connectly/internal/model"
	"connectly/internal/policy"
	"connectly/internal/queue"
	"connectly/internal/repository"
)

// LikeService handles likes. A user likes a post at most once; repeating
// the like is rejected rather than toggled.
type LikeService struct {
	likeRepo  repository.LikeRepository
	postRepo  repository.PostRepository
	publisher queue.Publisher
	logger    *slog.Logger
}

func NewLikeService(likeRepo repository.LikeRepository, postRepo repository.PostRepository, publisher queue.Publisher, logger *slog.Logger) *LikeService {
	return &LikeService{
		likeRepo:  likeRepo,
		postRepo:  postRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// Like records actor liking a post. Returns model.ErrAlreadyLiked on a repeat.
func (s *LikeService) Like(ctx context.Context, actor model.Identity, postID int64) (*model.Like, error) {
	if err := policy.Authorize(actor, actor.Authenticated(), nil); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	like, err := s.likeRepo.Create(ctx, actor.UserID, postID)
	if err != nil {
		return nil, err
	}

	var ownerID int64
	if post.AuthorID != nil {
		ownerID = *post.AuthorID
	}
	publish(ctx, s.publisher, s.logger, queue.NewPostLikedEvent(postID, actor.UserID, ownerID))
	return like, nil
}

// Unlike removes actor's like. Returns model.ErrNotLiked if there is none.
func (s *LikeService) Unlike(ctx context.Context, actor model.Identity, postID int64) error {
	if err := policy.Authorize(actor, actor.Authenticated(), nil); err != nil {
		return err
	}
	if err := s.ensurePost(ctx, postID); err != nil {
		return err
	}
	return s.likeRepo.Delete(ctx, actor.UserID, postID)
}

// GetLikers returns the users who liked a post, most recent first.
func (s *LikeService) GetLikers(ctx context.Context, postID int64, cursor *string, limit int) (*model.LikersListResponse, error) {
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}

	users, nextCursor, err := s.likeRepo.GetPostLikers(ctx, postID, cursor, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.UserSummary{}
	}
	return &model.LikersListResponse{
		Users:      users,
		NextCursor: nextCursor,
		HasMore:    nextCursor != nil,
	}, nil
}

func (s *LikeService) ensurePost(ctx context.Context, postID int64) error {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return err
	}
	if !exists {
		return model.ErrPostNotFound
	}
	return nil
}
