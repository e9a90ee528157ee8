// Command helpdesk IT服务台后端
//
//	helpdesk serve                 启动HTTP服务
//	helpdesk migrate               迁移表结构
//	helpdesk user create --username admin --password secret123
//
// @title           Helpdesk API
// @version         1.0
// @description     IT服务台:工单、设备、备件库存与消耗
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "github.com/xiebiao/helpdesk/docs"
	"github.com/xiebiao/helpdesk/internal/infrastructure/config"
	"github.com/xiebiao/helpdesk/internal/infrastructure/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "helpdesk",
		Short:         "IT服务台后端",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件路径(默认 ./configs/config.yaml)")

	// 子命令共用的启动步骤:加载配置 → 创建全局日志器
	bootstrap := func() (*config.Config, *zap.Logger, error) {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return nil, nil, fmt.Errorf("加载配置失败: %w", err)
		}
		log, err := logger.Setup(cfg.Log)
		if err != nil {
			return nil, nil, err
		}
		return cfg, log, nil
	}

	root.AddCommand(
		newServeCmd(bootstrap),
		newMigrateCmd(bootstrap),
		newUserCmd(bootstrap),
	)
	return root
}

type bootstrapFunc func() (*config.Config, *zap.Logger, error)
