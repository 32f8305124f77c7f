package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"stayfront/internal/domain"
)

// RoomService serves the room read paths cache-first. Rooms are owned and
// mutated by the remote room-management API; from here they are immutable, so
// caching them is safe within the TTL.
type RoomService struct {
	api      domain.RoomAPI
	reviews  *ReviewService
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewRoomService(api domain.RoomAPI, reviews *ReviewService, cache domain.Cache, ttl time.Duration) *RoomService {
	return &RoomService{api: api, reviews: reviews, cache: cache, cacheTTL: ttl}
}

// RoomPage is the room-detail read model: the room plus its reviews.
type RoomPage struct {
	Room    domain.Room     `json:"room"`
	Reviews []domain.Review `json:"reviews"`
}

func (s *RoomService) Get(ctx context.Context, id string) (domain.Room, error) {
	key := fmt.Sprintf("room:%s", id)
	var room domain.Room
	if ok, _ := s.cache.Get(ctx, key, &room); ok {
		return room, nil
	}
	room, err := s.api.GetRoom(ctx, id)
	if err != nil {
		return domain.Room{}, err
	}
	_ = s.cache.Set(ctx, key, room, int(s.cacheTTL.Seconds()))
	return room, nil
}

func (s *RoomService) List(ctx context.Context, roomType string, page int) ([]domain.Room, error) {
	if roomType == "" {
		roomType = "all"
	}
	if page <= 0 {
		page = 1
	}
	key := fmt.Sprintf("rooms:%s:%d", roomType, page)
	var cached []domain.Room
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}
	rooms, err := s.api.ListRooms(ctx, roomType, page)
	if err != nil {
		return nil, err
	}
	cp := make([]domain.Room, len(rooms))
	copy(cp, rooms)
	_ = s.cache.Set(ctx, key, cp, int(s.cacheTTL.Seconds()))
	return rooms, nil
}

// Page fetches the room and its reviews concurrently, the way the detail page
// consumes them.
func (s *RoomService) Page(ctx context.Context, id string) (RoomPage, error) {
	var page RoomPage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		room, err := s.Get(gctx, id)
		if err != nil {
			return err
		}
		page.Room = room
		return nil
	})
	g.Go(func() error {
		rs, err := s.reviews.ListByRoom(gctx, id)
		if err != nil {
			return err
		}
		page.Reviews = rs
		return nil
	})
	if err := g.Wait(); err != nil {
		return RoomPage{}, err
	}
	if page.Reviews == nil {
		page.Reviews = []domain.Review{}
	}
	return page, nil
}
