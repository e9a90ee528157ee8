package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiebiao/helpdesk/pkg/metrics"
	"github.com/xiebiao/helpdesk/pkg/tracing"
)

// shutdownTimeout 优雅退出等待进行中请求的最长时间
const shutdownTimeout = 10 * time.Second

func newServeCmd(bootstrap bootstrapFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动HTTP服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if cfg.Metrics.Enabled {
				metrics.InitMetrics()
			}
			if cfg.Tracing.Enabled {
				shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
				if err != nil {
					return fmt.Errorf("初始化链路追踪失败: %w", err)
				}
				defer func() {
					ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
					defer cancel()
					_ = shutdown(ctx)
				}()
			}

			app, cleanup, err := InitializeApp(cfg, log)
			if err != nil {
				return fmt.Errorf("初始化应用失败: %w", err)
			}
			defer cleanup()

			srv := &http.Server{
				Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
				Handler:      app.Engine,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("HTTP服务启动",
					zap.String("addr", srv.Addr),
					zap.String("mode", cfg.Server.Mode),
					zap.String("database", cfg.Database.Driver),
				)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err, ok := <-errCh:
				if ok {
					return fmt.Errorf("启动服务失败: %w", err)
				}
				return nil
			case sig := <-quit:
				log.Info("收到退出信号,开始优雅关闭", zap.String("signal", sig.String()))
			}

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				log.Error("服务强制关闭", zap.Error(err))
				return err
			}
			log.Info("服务已退出")
			return nil
		},
	}
}
