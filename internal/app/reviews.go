package app

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"stayfront/internal/domain"
)

// ReviewService validates and submits room reviews, and serves the per-room
// review list through the read cache.
type ReviewService struct {
	api      domain.ReviewAPI
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewReviewService(api domain.ReviewAPI, cache domain.Cache, ttl time.Duration) *ReviewService {
	return &ReviewService{api: api, cache: cache, cacheTTL: ttl}
}

func reviewsKey(roomID string) string { return fmt.Sprintf("reviews:room:%s", roomID) }

// Submit validates the rating and comment locally, then makes one remote
// create call. The rating must be a whole number from 1 to 5; a fractional or
// zero rating is rejected before any network traffic.
func (s *ReviewService) Submit(ctx context.Context, sess domain.Session, roomID string, rating float64, comment string) (domain.Review, error) {
	if !sess.Authenticated() {
		return domain.Review{}, domain.ErrMissingUser
	}
	if rating < 1 || rating > 5 || rating != math.Trunc(rating) {
		return domain.Review{}, domain.ErrInvalidRating
	}
	if strings.TrimSpace(comment) == "" {
		return domain.Review{}, domain.ErrEmptyComment
	}

	r, err := s.api.CreateReview(ctx, roomID, int(rating), comment, sess.Token)
	if err != nil {
		return domain.Review{}, err
	}
	// The room's review list changed; drop the cached copy.
	if s.cache != nil {
		_ = s.cache.Del(ctx, reviewsKey(roomID))
	}
	return r, nil
}

// ListByRoom returns a room's reviews, cache-first.
func (s *ReviewService) ListByRoom(ctx context.Context, roomID string) ([]domain.Review, error) {
	key := reviewsKey(roomID)
	var cached []domain.Review
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}

	rs, err := s.api.ListReviewsByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	// copy before caching so callers mutating the result can't poison the cache
	cp := make([]domain.Review, len(rs))
	copy(cp, rs)
	_ = s.cache.Set(ctx, key, cp, int(s.cacheTTL.Seconds()))
	return rs, nil
}

// Delete removes a review (admin action) and invalidates the room's cached
// list when the room is known.
func (s *ReviewService) Delete(ctx context.Context, sess domain.Session, id, roomID string) error {
	if !sess.Authenticated() {
		return domain.ErrMissingUser
	}
	if err := s.api.DeleteReview(ctx, id, sess.Token); err != nil {
		return err
	}
	if roomID != "" && s.cache != nil {
		_ = s.cache.Del(ctx, reviewsKey(roomID))
	}
	return nil
}
