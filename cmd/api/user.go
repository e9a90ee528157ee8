package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	appuser "github.com/xiebiao/helpdesk/internal/application/user"
	"github.com/xiebiao/helpdesk/internal/domain/user"
	"github.com/xiebiao/helpdesk/internal/infrastructure/persistence/database"
)

// newUserCmd 用户管理子命令
// 写接口都需要登录,第一个账号只能通过命令行创建
func newUserCmd(bootstrap bootstrapFunc) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "用户管理",
	}

	var username, password string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "创建用户",
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

			register := appuser.NewRegisterUseCase(user.NewService(database.NewUserRepository(db)))
			u, err := register.Execute(cmd.Context(), appuser.RegisterRequest{
				Username: username,
				Password: password,
			})
			if err != nil {
				return err
			}
			log.Info("用户已创建", zap.Uint("user_id", u.ID), zap.String("username", u.Username))
			return nil
		},
	}
	createCmd.Flags().StringVar(&username, "username", "", "用户名")
	createCmd.Flags().StringVar(&password, "password", "", "密码(8-64位)")
	_ = createCmd.MarkFlagRequired("username")
	_ = createCmd.MarkFlagRequired("password")

	userCmd.AddCommand(createCmd)
	return userCmd
}
