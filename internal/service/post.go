package service

import (
	"context"
	"log/slog"
	"strings"

	"connectly/internal/factory"
	"connectly/internal/model"
	"connectly/internal/policy"
	"connectly/internal/queue"
	"connectly/internal/repository"
)

type PostService struct {
	factory   *factory.Factory
	postRepo  repository.PostRepository
	userRepo  repository.UserRepository
	publisher queue.Publisher
	logger    *slog.Logger
}

func NewPostService(
	f *factory.Factory,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	publisher queue.Publisher,
	logger *slog.Logger,
) *PostService {
	return &PostService{
		factory:   f,
		postRepo:  postRepo,
		userRepo:  userRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// Create creates a post authored by actor through the content factory.
func (s *PostService) Create(ctx context.Context, actor model.Identity, req model.CreatePostRequest) (*model.Post, error) {
	if err := policy.Authorize(actor, actor.Authenticated(), nil); err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	post, err := s.factory.CreatePost(ctx, model.PostType(req.PostType), req.Title, req.Content, req.Metadata, author)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, s.logger, queue.NewPostCreatedEvent(post.ID, author.ID))
	return post, nil
}

// GetByID retrieves a single post. is_liked is set for authenticated viewers.
func (s *PostService) GetByID(ctx context.Context, postID int64, viewer model.Identity) (*model.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if viewer.Authenticated() {
		liked, err := s.postRepo.CheckLikes(ctx, viewer.UserID, []int64{post.ID})
		if err != nil {
			s.logger.WarnContext(ctx, "failed to check like status", "post_id", post.ID, "err", err)
		} else {
			post.IsLiked = liked[post.ID]
		}
	}
	return post, nil
}

// List returns a page of posts, newest first.
func (s *PostService) List(ctx context.Context, viewer model.Identity, cursor *string, limit int) (*model.PostListResponse, error) {
	posts, nextCursor, err := s.postRepo.List(ctx, cursor, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}

	if viewer.Authenticated() && len(posts) > 0 {
		ids := make([]int64, len(posts))
		for i, p := range posts {
			ids[i] = p.ID
		}
		liked, err := s.postRepo.CheckLikes(ctx, viewer.UserID, ids)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to check like status", "err", err)
		} else {
			for i := range posts {
				posts[i].IsLiked = liked[posts[i].ID]
			}
		}
	}

	return &model.PostListResponse{
		Posts:      posts,
		NextCursor: nextCursor,
		HasMore:    nextCursor != nil,
	}, nil
}

// Update applies a partial update. The result must satisfy the same rules
// as a newly created post.
func (s *PostService) Update(ctx context.Context, actor model.Identity, postID int64, req model.UpdatePostRequest) (*model.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.CanAccess(actor, post), model.ErrNotPostOwner); err != nil {
		return nil, err
	}

	if req.PostType != nil {
		post.PostType = model.PostType(*req.PostType)
	}
	if req.Title != nil {
		post.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Metadata != nil {
		post.Metadata = req.Metadata.Clone()
	}

	if _, err := s.factory.ValidatePost(post); err != nil {
		return nil, err
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete hard-deletes a post owned by actor.
func (s *PostService) Delete(ctx context.Context, actor model.Identity, postID int64) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if err := policy.Authorize(actor, policy.CanAccess(actor, post), model.ErrNotPostOwner); err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	publish(ctx, s.publisher, s.logger, queue.NewPostDeletedEvent(postID, actor.UserID))
	return nil
}
