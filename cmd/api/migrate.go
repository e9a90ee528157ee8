package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiebiao/helpdesk/internal/infrastructure/persistence/database"
)

func newMigrateCmd(bootstrap bootstrapFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "迁移数据库表结构",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			db, cleanup, err := provideDB(cfg, log)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("迁移失败: %w", err)
			}
			log.Info("迁移完成", zap.String("driver", cfg.Database.Driver), zap.Int("tables", len(database.Models())))
			return nil
		},
	}
}
