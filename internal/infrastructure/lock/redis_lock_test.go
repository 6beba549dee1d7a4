package lock

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-ftd-service/internal/domain"
	redis "github.com/redis/go-redis/v9"
)

// memoryRedis understands SETNX and the two lock scripts, looked up by their SHA.
type memoryRedis struct {
	mu        sync.Mutex
	values    map[string]string
	refreshes int
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{values: make(map[string]string)}
}

func (m *memoryRedis) get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *memoryRedis) refreshCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshes
}

func (m *memoryRedis) SetNX(_ context.Context, key string, value interface{}, _ time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.values[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	m.values[key] = value.(string)
	return redis.NewBoolResult(true, nil)
}

func (m *memoryRedis) EvalSha(_ context.Context, sha1 string, keys []string, args ...interface{}) *redis.Cmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	owned := m.values[keys[0]] == args[0].(string)
	switch sha1 {
	case refreshScript.Hash():
		if !owned {
			return redis.NewCmdResult(int64(0), nil)
		}
		m.refreshes++
		return redis.NewCmdResult(int64(1), nil)
	case releaseScript.Hash():
		if !owned {
			return redis.NewCmdResult(int64(0), nil)
		}
		delete(m.values, keys[0])
		return redis.NewCmdResult(int64(1), nil)
	}
	return redis.NewCmdResult(nil, errors.New("unknown script"))
}

func (m *memoryRedis) Eval(context.Context, string, []string, ...interface{}) *redis.Cmd {
	return redis.NewCmdResult(nil, errors.New("unexpected EVAL"))
}

func (m *memoryRedis) EvalRO(context.Context, string, []string, ...interface{}) *redis.Cmd {
	return redis.NewCmdResult(nil, errors.New("unexpected EVAL_RO"))
}

func (m *memoryRedis) EvalShaRO(context.Context, string, []string, ...interface{}) *redis.Cmd {
	return redis.NewCmdResult(nil, errors.New("unexpected EVALSHA_RO"))
}

func (m *memoryRedis) ScriptExists(_ context.Context, hashes ...string) *redis.BoolSliceCmd {
	return redis.NewBoolSliceResult(make([]bool, len(hashes)), nil)
}

func (m *memoryRedis) ScriptLoad(context.Context, string) *redis.StringCmd {
	return redis.NewStringResult("", errors.New("unexpected SCRIPT LOAD"))
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRedisLockerRefreshesWhileHeld(t *testing.T) {
	client := newMemoryRedis()
	l := newRedisLocker(client, "ftd:run", 30*time.Millisecond, quietLogger())

	unlock, err := l.TryLock(context.Background())
	if err != nil {
		t.Fatalf("TryLock: %v", err)
	}
	if _, err := l.TryLock(context.Background()); !errors.Is(err, domain.ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress, got %v", err)
	}

	waitFor(t, func() bool { return client.refreshCount() >= 2 })

	unlock()
	if _, held := client.get("ftd:run"); held {
		t.Fatal("lock key not released")
	}
	after := client.refreshCount()
	time.Sleep(40 * time.Millisecond)
	if client.refreshCount() != after {
		t.Fatal("lock refreshed after release")
	}
	unlock()
}

func TestRedisLockerDoesNotReleaseForeignToken(t *testing.T) {
	client := newMemoryRedis()
	l := newRedisLocker(client, "ftd:run", time.Minute, quietLogger())

	unlock, err := l.TryLock(context.Background())
	if err != nil {
		t.Fatalf("TryLock: %v", err)
	}

	// ключ истек и его занял другой инстанс
	client.mu.Lock()
	client.values["ftd:run"] = "other-instance"
	client.mu.Unlock()

	unlock()
	if v, _ := client.get("ftd:run"); v != "other-instance" {
		t.Fatalf("foreign lock was released, value %q", v)
	}
}
