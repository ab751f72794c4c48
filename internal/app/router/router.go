package router

import (
	"github.com/gin-gonic/gin"

	authhandler "carvalue_backend/internal/feature/auth/transport/handler"
	reportshandler "carvalue_backend/internal/feature/reports/transport/handler"
	"carvalue_backend/internal/platform/http/handler"
	jwtmw "carvalue_backend/internal/platform/jwt"
	"carvalue_backend/internal/shared/ratelimiter"
)

// NewRouter builds the route table. The identity middleware runs before
// every route below /healthz, so guards and handlers only ever read the
// request context to learn who is calling.
func NewRouter(authH *authhandler.AuthHandler, reportsH *reportshandler.ReportHandler,
	identity gin.HandlerFunc, limiter *ratelimiter.Limiter) *gin.Engine {
	r := gin.Default()

	// 導通確認用（認証不要、アイデンティティ解決もスキップ）
	r.GET("/healthz", handler.Health)

	// すべてのリクエストでセッションクッキーからユーザーを解決する
	r.Use(identity)

	// クレデンシャルを受け取るエンドポイントはレート制限付き
	creds := ratelimiter.Middleware(limiter)

	auth := r.Group("/auth")
	{
		auth.POST("/signup", creds, authH.Signup)
		auth.POST("/signin", creds, authH.Signin)
		auth.POST("/signout", authH.Signout)
		auth.GET("/whoami", jwtmw.AuthRequired(), authH.Whoami)
	}

	// 認証必須のルート
	reports := r.Group("/reports", jwtmw.AuthRequired())
	{
		reports.POST("", reportsH.Create)
		reports.GET("", reportsH.Estimate)
		// 承認は管理者のみ
		reports.PATCH("/:id", jwtmw.AdminRequired(), reportsH.Approve)
	}

	return r
}
