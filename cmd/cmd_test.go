package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"fipe-web/config"
	"fipe-web/repository"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(config.New(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.Server.Address = "127.0.0.1:0"
	return cfg
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), version) {
		t.Errorf("expected version in output, got %q", out.String())
	}
}

func TestNewHistoryRepository_Memory(t *testing.T) {
	cfg := testConfig(t)

	repo, closeFn, err := newHistoryRepository(context.Background(), cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closeFn()

	if _, ok := repo.(*repository.HistoryRepositoryMemory); !ok {
		t.Errorf("expected memory repository, got %T", repo)
	}
}

func TestNewHistoryRepository_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.History.Backend = config.BackendRedis
	cfg.Redis.Addr = mr.Addr()

	repo, closeFn, err := newHistoryRepository(context.Background(), cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closeFn()

	if _, ok := repo.(*repository.HistoryRepositoryRedis); !ok {
		t.Errorf("expected redis repository, got %T", repo)
	}
}

func TestNewHistoryRepository_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig(t)
	cfg.History.Backend = config.BackendRedis
	cfg.Redis.Addr = addr

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, _, err := newHistoryRepository(ctx, cfg, zaptest.NewLogger(t)); err == nil {
		t.Errorf("expected error for unreachable redis")
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg, zap.NewNop()) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
