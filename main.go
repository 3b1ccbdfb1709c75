// @title CourseHub 后端 API
// @version 1.0
// @description 课程管理平台的后端服务器。

// @host localhost:5000
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"coursehub_backend/internal/app"
	"coursehub_backend/internal/config"
	"coursehub_backend/pkg/logger"
	"flag"
	"fmt"
	"log"
	"os"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"
)

var readPasswordFunc = term.ReadPassword

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	seedFile := flag.String("seed", "", "用 YAML 种子文件替换全部课程，完成后退出")
	createAdmin := flag.Bool("create-admin", false, "创建管理员账号（密码交互输入），完成后退出")
	adminEmail := flag.String("admin-email", "", "管理员邮箱")
	adminName := flag.String("admin-name", "Admin", "管理员名称")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 迁移在初始化数据库时已经完成
	if *migrateOnly {
		logger.Log.Info("数据库迁移完成，退出程序")
		return
	}

	ctx := context.Background()

	if *seedFile != "" {
		n, err := application.SeedCourses(ctx, *seedFile)
		if err != nil {
			logger.Log.Fatal("Seeding failed", zap.Error(err))
		}
		logger.Log.Info("Courses seeded", zap.Int("count", n), zap.String("file", *seedFile))
		return
	}

	if *createAdmin {
		if err := provisionAdmin(ctx, application, *adminName, *adminEmail); err != nil {
			logger.Log.Fatal("Create admin failed", zap.Error(err))
		}
		return
	}

	application.Run()
}

func provisionAdmin(ctx context.Context, application *app.App, name, email string) error {
	if email == "" {
		flag.Usage()
		return fmt.Errorf("-admin-email is required")
	}

	fmt.Fprint(os.Stderr, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}
	if len(pwd) == 0 {
		return fmt.Errorf("password must not be empty")
	}

	user, err := application.CreateAdmin(ctx, name, email, string(pwd))
	if err != nil {
		return err
	}
	logger.Log.Info("Admin created", zap.Uint("id", user.ID), zap.String("email", user.Email))
	return nil
}
