package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"carvalue_backend/internal/app/di"
	"carvalue_backend/internal/app/router"
	authadapters "carvalue_backend/internal/feature/auth/adapters"
	authhandler "carvalue_backend/internal/feature/auth/transport/handler"
	authusecase "carvalue_backend/internal/feature/auth/usecase"
	reportsadapters "carvalue_backend/internal/feature/reports/adapters"
	reportshandler "carvalue_backend/internal/feature/reports/transport/handler"
	reportsusecase "carvalue_backend/internal/feature/reports/usecase"
	"carvalue_backend/internal/platform/cache"
	infradb "carvalue_backend/internal/platform/db"
	jwtmw "carvalue_backend/internal/platform/jwt"
	"carvalue_backend/internal/platform/password"
	infraredis "carvalue_backend/internal/platform/redis"
	"carvalue_backend/internal/shared/ratelimiter"
)

const sessionTTL = 24 * time.Hour

func main() {
	// ローカル開発用の.envがあれば読み込む（本番では環境変数を直接使用）
	_ = godotenv.Load()

	// db
	db := infradb.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Falling back to DB-backed sessions.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// セッション署名シークレット（プロセス起動時に一度だけ初期化、ローテーションなし）
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		if gin.Mode() == gin.ReleaseMode {
			log.Fatal("SESSION_SECRET is required in release mode")
		}
		log.Println("[WARN] SESSION_SECRET is not set. Using an insecure development secret.")
		secret = "insecure-dev-secret"
	}

	// Repository
	userRepo := authadapters.NewUserMySQL(db)
	reportRepo := reportsadapters.NewReportMySQL(db)
	sessionRepo := di.NewSessionRepository(rdb, db)

	// 推定価格クエリはRedisキャッシュでラップ
	cachedReportRepo := cache.NewCachingReportRepository(rdb, 10*time.Minute, reportRepo, "estimates")

	// DBバックエンドのセッションは起動時に期限切れレコードを掃除する（Redisはno-op）
	if n, err := sessionRepo.DeleteExpired(context.Background()); err != nil {
		slog.Warn("failed to delete expired sessions", "error", err)
	} else if n > 0 {
		slog.Info("deleted expired sessions", "count", n)
	}

	// Platform
	hasher := password.NewHasher()
	codec := jwtmw.NewCodec(secret, sessionTTL)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, hasher)
	reportsUC := reportsusecase.NewReportsUsecase(cachedReportRepo)

	// Handler
	authH := authhandler.NewAuthHandler(authUC, sessionRepo, codec)
	reportsH := reportshandler.NewReportHandler(reportsUC)

	// Middleware
	identity := jwtmw.CurrentUser(codec, sessionRepo, userRepo)
	limiter := ratelimiter.New(10, time.Minute)

	// ルータ生成
	engine := router.NewRouter(authH, reportsH, identity, limiter)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := engine.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
