package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestOpenRedis_SelectsDB(t *testing.T) {
	s := miniredis.RunT(t)

	c, err := OpenRedis(s.Addr(), 2)
	if err != nil {
		t.Fatalf("OpenRedis returned error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if got := c.Options().DB; got != 2 {
		t.Fatalf("client DB = %d, want 2", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.IncrBy(ctx, "lend:chain:height", 3).Err(); err != nil {
		t.Fatalf("INCRBY err: %v", err)
	}
	// the write must land in DB 2 only
	s.Select(2)
	if v, _ := s.Get("lend:chain:height"); v != "3" {
		t.Fatalf("db2 value = %q, want 3", v)
	}
	s.Select(0)
	if s.Exists("lend:chain:height") {
		t.Fatal("key leaked into db0")
	}
}

func TestOpenRedis_Unreachable(t *testing.T) {
	if _, err := OpenRedis("not-a-real-host:6379", 0); err == nil {
		t.Fatal("expected error, got nil")
	}
}
