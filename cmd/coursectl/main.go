// coursectl 课程服务的命令行客户端，本地保存登录状态和学习进度。
package main

import (
	"context"
	"coursehub_backend/pkg/client"
	"coursehub_backend/pkg/progress"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-redis/redis/v8"
)

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".coursectl-state.json"
	}
	return filepath.Join(home, ".coursectl", "state.json")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	fs := flag.NewFlagSet("coursectl", flag.ExitOnError)
	apiURL := fs.String("api", envOr("COURSECTL_API", "http://localhost:5000/api"), "API base URL")
	statePath := fs.String("state", defaultStatePath(), "local state file (token, progress)")
	redisAddr := fs.String("redis", "", "keep state in redis at this address instead of the state file")
	fs.Parse(os.Args[1:])

	var kv progress.KV = progress.NewFileKV(*statePath)
	if *redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: *redisAddr})
		defer rdb.Close()
		kv = progress.NewRedisKV(rdb, "coursectl")
	}

	cli := newCommandLine(client.New(*apiURL), kv, os.Stdout)
	if err := cli.run(context.Background(), fs.Args()); err != nil {
		if errors.Is(err, errHelp) {
			os.Exit(2)
		}
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			fmt.Fprintln(os.Stderr, "error:", apiErr.Message)
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
