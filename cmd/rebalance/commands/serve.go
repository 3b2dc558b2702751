package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/rebalancer/internal/api"
	"github.com/wonny/rebalancer/internal/api/handlers"
	"github.com/wonny/rebalancer/internal/scheduler"
	"github.com/wonny/rebalancer/internal/session"
	"github.com/wonny/rebalancer/pkg/redis"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "API 서버 시작",
	Long: `HTTP/WebSocket API 서버를 시작합니다.

Endpoints:
  GET    /health                                  - Health check
  GET    /api/assets                              - 자산 카탈로그
  POST   /api/rebalance                           - 1회 계산
  POST   /api/sessions                            - 세션 생성
  GET    /api/sessions/{id}                       - 세션 + 계산 결과
  DELETE /api/sessions/{id}                       - 세션 삭제
  PUT    /api/sessions/{id}/values/{asset}        - 현재 가치 입력
  POST   /api/sessions/{id}/values/{asset}/step   - 현재 가치 증감
  PUT    /api/sessions/{id}/allocation/{asset}    - 목표 비율 입력
  POST   /api/sessions/{id}/reset                 - 기본값으로 초기화
  GET    /api/sessions/{id}/report?format=md|csv  - 보고서
  GET    /api/sessions/{id}/ws                    - 실시간 세션 (WebSocket)

Example:
  go run ./cmd/rebalance serve
  go run ./cmd/rebalance serve --port 9000`,
	RunE: runServe,
}

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "API 서버 포트 (default is PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	cfg, log := rt.cfg, rt.log

	if servePort != "" {
		cfg.Port = servePort
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// 1. Session snapshot storage
	redisClient, err := redis.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	store := session.NewStore(redisClient, cfg.Session.TTL)
	manager := session.NewManager(store, rt.catalog, log)
	log.WithFields(map[string]interface{}{
		"redis": redisClient.Enabled(),
		"ttl":   cfg.Session.TTL,
	}).Info("Session store ready")

	// 2. Rate limiting
	limiter := api.NewLimiter(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	// 3. Housekeeping jobs
	sched := scheduler.New(log, 30*time.Second)
	if err := sched.AddJob(session.NewSweepJob(manager, cfg.Session.SweepSchedule, log)); err != nil {
		return err
	}
	if local, ok := limiter.(*api.LocalLimiter); ok {
		if err := sched.AddJob(api.NewPruneJob(local, 10*time.Minute, "@every 5m")); err != nil {
			return err
		}
	}
	sched.Start()
	defer sched.Stop()

	// 4. Router and server
	router := api.NewRouter(api.Deps{
		Rebalance: handlers.NewRebalanceHandler(rt.catalog, log),
		Session:   handlers.NewSessionHandler(manager, log),
		Assets:    handlers.NewAssetsHandler(rt.catalog, log),
		Store:     store,
		Scheduler: sched,
		Limiter:   limiter,
	}, log)
	server := api.New(cfg, log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	out := cmd.OutOrStdout()
	PrintSuccess(out, fmt.Sprintf("Server running on http://localhost:%s", cfg.Port))
	fmt.Fprintln(out, "Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
