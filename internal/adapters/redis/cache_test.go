package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "stayfront/internal/adapters/redis"
	"stayfront/internal/domain"
)

func TestCache_Roundtrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	room := domain.Room{ID: "room1", Name: "Deluxe", Price: 120, Capacity: 2, Type: "suite"}
	if err := c.Set(ctx, "room:room1", room, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got domain.Room
	ok, err := c.Get(ctx, "room:room1", &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != room {
		t.Fatalf("roundtrip mismatch: %+v != %+v", got, room)
	}
}

func TestCache_MissAndDelete(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	var dst domain.Room
	ok, err := c.Get(ctx, "absent", &dst)
	if err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Set(ctx, "k", domain.Room{ID: "r"}, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Del(ctx, "k"); err != nil {
		t.Fatalf("del: %v", err)
	}
	ok, _ = c.Get(ctx, "k", &dst)
	if ok {
		t.Fatal("expected miss after delete")
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	if err := c.Set(ctx, "k", domain.Room{ID: "r"}, 10); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(11 * time.Second)

	var dst domain.Room
	ok, _ := c.Get(ctx, "k", &dst)
	if ok {
		t.Fatal("expected miss after TTL expiry")
	}
}
