// Package app は設定の読み込みから依存関係の組み立て、HTTPサーバーの起動までを担う。
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hitoshi/mergington/internal/auth"
	"github.com/hitoshi/mergington/internal/catalog"
	"github.com/hitoshi/mergington/internal/config"
	"github.com/hitoshi/mergington/internal/credential"
	"github.com/hitoshi/mergington/internal/enrollment"
	"github.com/hitoshi/mergington/internal/handler"
	"github.com/hitoshi/mergington/internal/logger"
	"github.com/hitoshi/mergington/internal/metrics"
	"github.com/hitoshi/mergington/internal/repository"
	"github.com/hitoshi/mergington/internal/security"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、LOG_LEVELに従ったJSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w, slog.LevelInfo)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. 設定されたレベルでロガーを再構成する
	logger.SetupDefault(w, logger.ParseLevel(cfg.LogLevel))

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
	)

	switch cmd {
	case CommandValidate:
		return runValidate(cfg)
	default:
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, cfg)
	}
}

// Components は組み立て済みの依存関係を保持する。
type Components struct {
	Handler     http.Handler
	AuthService *auth.Service
	Activities  *repository.MemoryActivityRepo
	Teachers    *credential.Store
}

// Build は設定から全依存関係をワイヤリングし、HTTPハンドラーを構築する。
// reg がnilの場合、METRICS_ENABLEDが有効なら新しいレジストリを作成する。
func Build(cfg *config.Config, reg *prometheus.Registry) (*Components, error) {
	// 1. データの読み込み
	teachers, err := credential.Load(cfg.TeachersFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load teacher credentials: %w", err)
	}

	sanitizer := security.NewTextSanitizer()
	seed, err := catalog.Load(cfg.ActivitiesFile, sanitizer)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity catalog: %w", err)
	}

	// 2. リポジトリの初期化
	activityRepo, err := repository.NewMemoryActivityRepo(seed,
		repository.WithCapacityEnforcement(cfg.EnforceCapacity),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise activity registry: %w", err)
	}
	sessionRepo := repository.NewMemorySessionRepo()

	// 3. メトリクスの初期化
	var (
		collector      metrics.MetricsCollector = metrics.Noop{}
		statusRecorder *metrics.Collector
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		if reg == nil {
			reg = prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
		}
		statusRecorder = metrics.NewCollector(reg)
		collector = statusRecorder
		metricsHandler = metrics.Handler(reg)
	}

	// 4. ドメインサービスの初期化
	authService := auth.NewService(teachers, sessionRepo, collector)
	enrollmentService := enrollment.NewService(
		authService,
		activityRepo,
		security.NewEmailValidator(),
		collector,
	)

	// 5. ルーターの構築
	deps := &handler.RouterDeps{
		SessionResolver:   authService,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		Logger:            slog.Default(),

		AuthService:       authService,
		EnrollmentService: enrollmentService,

		StaticDir:      cfg.StaticDir,
		MetricsHandler: metricsHandler,
	}
	if statusRecorder != nil {
		deps.StatusRecorder = statusRecorder
	}

	return &Components{
		Handler:     handler.NewRouter(deps),
		AuthService: authService,
		Activities:  activityRepo,
		Teachers:    teachers,
	}, nil
}

// runServe はAPIサーバーモードで起動する。
// 全依存関係をワイヤリングし、HTTPサーバーを起動する。
// ctxがキャンセルされるとグレースフルシャットダウンを行う。
func runServe(ctx context.Context, cfg *config.Config) error {
	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr(), err)
	}
	return serve(ctx, cfg, ln)
}

// serve は指定されたリスナーでHTTPサーバーを起動し、ctxのキャンセルまでブロックする。
func serve(ctx context.Context, cfg *config.Config, ln net.Listener) error {
	components, err := Build(cfg, nil)
	if err != nil {
		ln.Close()
		return err
	}

	if components.Teachers.Len() == 0 {
		slog.Warn("no teacher credentials loaded; all logins will be rejected",
			slog.String("teachers_file", cfg.TeachersFile),
		)
	}

	server := &http.Server{
		Handler:      components.Handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server starting",
			slog.String("addr", ln.Addr().String()),
			slog.Bool("enforce_capacity", cfg.EnforceCapacity),
		)
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server listen error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down API server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runValidate は教員認証情報とアクティビティカタログを読み込み、内容を検証する。
// サーバーは起動しない。デプロイ前のデータファイル確認用。
func runValidate(cfg *config.Config) error {
	components, err := Build(cfg, prometheus.NewRegistry())
	if err != nil {
		return err
	}

	activities, err := components.Activities.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list activities: %w", err)
	}

	slog.Info("configuration is valid",
		slog.Int("teachers", components.Teachers.Len()),
		slog.Int("activities", len(activities)),
		slog.Bool("enforce_capacity", cfg.EnforceCapacity),
	)
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}
