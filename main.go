package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/kaz2018/agemas/internal/config"
	"github.com/kaz2018/agemas/internal/consts"
	"github.com/kaz2018/agemas/internal/handler"
	"github.com/kaz2018/agemas/internal/middleware"
	"github.com/kaz2018/agemas/internal/router"
	"github.com/kaz2018/agemas/internal/seed"
	"github.com/kaz2018/agemas/internal/service"
	"github.com/kaz2018/agemas/internal/storage"
	"github.com/kaz2018/agemas/internal/store"
	"github.com/kaz2018/agemas/internal/store/gormstore"
	"github.com/kaz2018/agemas/internal/store/jsonstore"

	"github.com/gin-gonic/gin"
)

func main() {

	runSeed := flag.Bool("seed", false, "写入演示账号和示例投稿后退出")
	flag.Parse()

	config.InitConfig("")

	st := initStore()

	// 初始化模式：写完演示数据直接退出，不启动 Web 服务
	if *runSeed {
		if err := seed.Run(st); err != nil {
			log.Fatalf("❌ 初始化演示数据失败: %v", err)
		}
		log.Println("✅ 演示数据初始化完成")
		return
	}

	images := initImageStore()

	// Redis 是可选的，不可用时自动降级为内存缓存
	service.GetRedisClient()

	gin.SetMode(config.Get().Server.Mode)

	r := gin.Default()

	h := handler.NewHandler(
		service.NewAuthService(st),
		service.NewPostService(st),
		service.NewAdminService(st),
		images,
	)
	router.NewRouter(h, st).Init(r)

	// 本地存储时由本服务直接提供图片访问，minio 模式下图片走对象存储的公开地址
	if local, ok := images.(*storage.LocalStore); ok {
		r.Group(config.Get().Storage.URLPrefix, middleware.StaticCacheMiddleware("public, max-age=86400")).
			StaticFS("", gin.Dir(local.Dir(), false))
	}

	printWelcomeMessage()

	// 停机配置
	srv := &http.Server{
		Addr:    ":" + config.Get().Server.Port,
		Handler: r,
	}

	go func() {
		log.Printf("🚀 服务启动成功，运行在 :%s\n", config.Get().Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ 服务启动失败: %s\n", err)
		}
	}()

	// 等待中断信号关闭服务器（设置 5 秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ 服务强制关闭:", err)
	}
	if err := service.CloseRedisClient(); err != nil {
		log.Printf("⚠️ 关闭 Redis 连接失败: %v", err)
	}
	log.Println("✅ 服务已退出")
}

func initStore() store.Store {
	cfg := config.Get().Database

	switch cfg.Backend {
	case "json":
		checkSecurePath(cfg.Dir)
		st, err := jsonstore.New(cfg.Dir)
		if err != nil {
			log.Fatalf("❌ 初始化 json 存储失败: %v", err)
		}
		log.Printf("✅ 存储后端: json 文件 (%s)", cfg.Dir)
		return st
	case "sqlite", "mysql", "postgres":
		db, err := gormstore.Open(cfg)
		if err != nil {
			log.Fatalf("❌ 连接数据库失败: %v", err)
		}
		log.Printf("✅ 存储后端: %s", cfg.Backend)
		return gormstore.New(db)
	default:
		log.Fatalf("❌ 未知的存储后端: %s", cfg.Backend)
		return nil
	}
}

func initImageStore() storage.ImageStore {
	cfg := config.Get().Storage

	switch cfg.Backend {
	case "local":
		checkSecurePath(cfg.Path)
		s, err := storage.NewLocalStore(cfg.Path, cfg.URLPrefix)
		if err != nil {
			log.Fatalf("❌ 初始化图片目录失败: %v", err)
		}
		log.Printf("✅ 图片存储: 本地目录 (%s)", cfg.Path)
		return s
	case "minio":
		m := cfg.Minio
		s, err := storage.NewMinioStore(m.Endpoint, m.AccessKey, m.SecretKey, m.Bucket, m.UseSSL, m.PublicURL)
		if err != nil {
			log.Fatalf("❌ 连接 MinIO 失败: %v", err)
		}
		log.Printf("✅ 图片存储: MinIO (%s/%s)", m.Endpoint, m.Bucket)
		return s
	default:
		log.Fatalf("❌ 未知的图片存储后端: %s", cfg.Backend)
		return nil
	}
}

// checkSecurePath 防止配置里的相对路径越出工作目录
func checkSecurePath(path string) {
	cleaned := filepath.Clean(path)
	if filepath.IsAbs(cleaned) {
		return
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		log.Fatalf("❌ 不安全的路径配置: %s", path)
	}
}

func printWelcomeMessage() {
	fmt.Println()
	fmt.Println(" ┌───────────────────────────────────────────────────────┐")
	fmt.Printf(" │   🚀  %s\n", consts.ApplicationName)
	fmt.Println(" ├───────────────────────────────────────────────────────┤")
	fmt.Printf(" │   📦  版本     : %s\n", consts.ApplicationVersion)
	fmt.Printf(" │   💾  存储后端 : %s\n", config.Get().Database.Backend)
	fmt.Printf(" │   🔥  服务端口 : %s\n", config.Get().Server.Port)
	fmt.Println(" └───────────────────────────────────────────────────────┘")
	fmt.Println()
}
