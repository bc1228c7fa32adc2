package game

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func newIdleManager() *SessionManager {
	cfg := testConfig()
	cfg.IdleTimeoutSeconds = 60
	cfg.IdleWorkerPollInterval = 1
	return NewSessionManager(context.Background(), cfg)
}

// scheduleIdle queues a session as already due, with the given last activity.
func scheduleIdle(t *testing.T, rdb *redis.Client, sessionID string, lastActive int64) {
	t.Helper()
	ctx := context.Background()
	m := idleMember(sessionID)
	if err := rdb.Set(ctx, lastActivePrefix+m, strconv.FormatInt(lastActive, 10), 0).Err(); err != nil {
		t.Fatalf("set last active: %v", err)
	}
	if err := rdb.ZAdd(ctx, idleExpireKey, redis.Z{Score: float64(time.Now().Unix() - 5), Member: m}).Err(); err != nil {
		t.Fatalf("zadd: %v", err)
	}
}

func TestParseMember(t *testing.T) {
	if got := parseMember(idleMember("S_ABC123")); got != "S_ABC123" {
		t.Errorf("round trip = %q", got)
	}
	for _, m := range []string{"", "S_ABC", "u:S_ABC", "s"} {
		if got := parseMember(m); got != "" {
			t.Errorf("parseMember(%q) = %q, want empty", m, got)
		}
	}
}

func TestMarkActive(t *testing.T) {
	rdb := newTestRedis(t)
	sm := newIdleManager()
	defer sm.Shutdown()
	ctx := context.Background()

	before := time.Now().Unix()
	MarkActive(ctx, rdb, sm.GetConfig(), "S_ONE")
	after := time.Now().Unix()

	m := idleMember("S_ONE")
	score, err := rdb.ZScore(ctx, idleExpireKey, m).Result()
	if err != nil {
		t.Fatalf("ZScore: %v", err)
	}
	if score < float64(before+60) || score > float64(after+60) {
		t.Errorf("expiry score = %v, want now+60", score)
	}
	last, err := rdb.Get(ctx, lastActivePrefix+m).Int64()
	if err != nil || last < before || last > after {
		t.Errorf("last active = %v, %v", last, err)
	}
	if ttl := rdb.TTL(ctx, lastActivePrefix+m).Val(); ttl != 120*time.Second {
		t.Errorf("last active ttl = %v, want 2m", ttl)
	}

	ForgetSession(ctx, rdb, "S_ONE")
	if n := rdb.ZCard(ctx, idleExpireKey).Val(); n != 0 {
		t.Errorf("idle set size after forget = %d", n)
	}
	if n := rdb.Exists(ctx, lastActivePrefix+m).Val(); n != 0 {
		t.Error("last active key survived ForgetSession")
	}

	// Without Redis both are no-ops.
	MarkActive(ctx, nil, sm.GetConfig(), "S_ONE")
	ForgetSession(ctx, nil, "S_ONE")
}

func TestReapIdleSessions(t *testing.T) {
	rdb := newTestRedis(t)
	sm := newIdleManager()
	defer sm.Shutdown()
	ctx := context.Background()

	stale, err := sm.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	fresh, err := sm.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	now := time.Now().Unix()
	scheduleIdle(t, rdb, stale.ID, now-120)
	scheduleIdle(t, rdb, fresh.ID, now)

	sub := rdb.Subscribe(ctx, SessionEventChannel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	events := sub.Channel()

	reapIdleSessions(ctx, rdb, sm.GetConfig(), sm)

	if _, err := sm.GetSession(stale.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("stale session still present: %v", err)
	}
	staleMember := idleMember(stale.ID)
	if err := rdb.ZScore(ctx, idleExpireKey, staleMember).Err(); !errors.Is(err, redis.Nil) {
		t.Errorf("stale member still queued: %v", err)
	}
	if n := rdb.Exists(ctx, lastActivePrefix+staleMember).Val(); n != 0 {
		t.Error("stale last active key survived")
	}

	if _, err := sm.GetSession(fresh.ID); err != nil {
		t.Errorf("recently touched session was removed: %v", err)
	}
	score, err := rdb.ZScore(ctx, idleExpireKey, idleMember(fresh.ID)).Result()
	if err != nil {
		t.Fatalf("recently touched session not requeued: %v", err)
	}
	if score != float64(now+60) {
		t.Errorf("requeued score = %v, want %d", score, now+60)
	}

	select {
	case msg := <-events:
		var ev SessionEvent
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if ev.Type != "session_expired" || ev.SessionID != stale.ID {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no session_expired event published")
	}
}

func TestReapIdleSessionsUnknownSession(t *testing.T) {
	rdb := newTestRedis(t)
	sm := newIdleManager()
	defer sm.Shutdown()
	ctx := context.Background()

	scheduleIdle(t, rdb, "S_GONE", time.Now().Unix()-600)
	reapIdleSessions(ctx, rdb, sm.GetConfig(), sm)

	m := idleMember("S_GONE")
	if n := rdb.ZCard(ctx, idleExpireKey).Val(); n != 0 {
		t.Errorf("idle set size = %d, want 0", n)
	}
	if n := rdb.Exists(ctx, lastActivePrefix+m).Val(); n != 0 {
		t.Error("last active key for an unknown session survived")
	}
}

func TestIdleWorkerExpiresSession(t *testing.T) {
	rdb := newTestRedis(t)
	sm := newIdleManager()
	defer sm.Shutdown()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := sm.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	scheduleIdle(t, rdb, s.ID, time.Now().Unix()-300)

	StartIdleWorker(ctx, rdb, sm.GetConfig(), sm)
	waitFor(t, "idle session removal", func() bool { return sm.Count() == 0 })
}
