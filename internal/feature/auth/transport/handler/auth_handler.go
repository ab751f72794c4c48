// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"carvalue_backend/internal/feature/auth/domain/entity"
	"carvalue_backend/internal/feature/auth/transport/http/dto"
	"carvalue_backend/internal/feature/auth/usecase"
	jwtmw "carvalue_backend/internal/platform/jwt"
	"carvalue_backend/internal/shared/projection"
)

// userProjection はクライアントに公開するユーザーフィールドのホワイトリストです。
// パスワードダイジェストはいかなるホワイトリストにも含まれません。
var userProjection = projection.New("id", "email")

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Signup は指定されたメールアドレスとパスワードで新規ユーザーを登録します。
	Signup(ctx context.Context, email, password string) (*entity.User, error)
	// Signin はユーザーを認証し、成功時にユーザーを返します。
	Signin(ctx context.Context, email, password string) (*entity.User, error)
}

// SessionStore はセッションレコードの発行と失効を抽象化します。
type SessionStore interface {
	Create(ctx context.Context, session *entity.Session) error
	Revoke(ctx context.Context, id string) error
}

// SessionCodec はセッション参照を改ざん検知可能なクッキー値に変換します。
type SessionCodec interface {
	Encode(userID uint, sessionID string) (string, error)
	TTL() time.Duration
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
// サインアップ/サインイン成功時にセッションレコードを発行し、
// 署名付きクッキーをレスポンスに付与します。
type AuthHandler struct {
	auth     AuthUsecase
	sessions SessionStore
	codec    SessionCodec
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタです。
func NewAuthHandler(auth AuthUsecase, sessions SessionStore, codec SessionCodec) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, codec: codec}
}

// newSessionID は暗号論的乱数から64文字hexのセッションIDを生成します。
func newSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// issueSession はセッションレコードを永続化し、署名済みトークンをクッキーとして付与します。
func (h *AuthHandler) issueSession(c *gin.Context, user *entity.User) error {
	id, err := newSessionID()
	if err != nil {
		return err
	}

	now := time.Now()
	session := &entity.Session{
		ID:        id,
		UserID:    user.ID,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
		CreatedAt: now,
		ExpiresAt: now.Add(h.codec.TTL()),
	}
	if err := h.sessions.Create(c.Request.Context(), session); err != nil {
		return err
	}

	token, err := h.codec.Encode(user.ID, id)
	if err != nil {
		return err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(jwtmw.SessionCookie, token, int(h.codec.TTL().Seconds()), "/", "", false, true)
	return nil
}

// clearSessionCookie はクライアント側のセッションクッキーを削除します。
func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(jwtmw.SessionCookie, "", -1, "/", "", false, true)
}

// Signup はユーザー登録APIエンドポイントを処理します。
// - リクエストJSONをSignupReqにバインド
// - バリデーションエラー時は400を返却
// - メールアドレス重複時は409を返却
// - 成功時はセッションクッキー付きで201と射影済みユーザーを返却
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.auth.Signup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("signup failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		switch {
		case errors.Is(err, usecase.ErrEmailInUse):
			c.JSON(http.StatusConflict, gin.H{"error": "email in use"})
		case errors.Is(err, usecase.ErrInvalidPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	if err := h.issueSession(c, user); err != nil {
		slog.Error("failed to issue session", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	slog.Info("user signup successful", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, userProjection.Apply(user))
}

// Signin はユーザーログインAPIエンドポイントを処理します。
// ユーザー列挙攻撃を防止するため、「ユーザー未検出」と「パスワード不一致」は
// 同一の401レスポンスとして返却されます（ログ上は区別されます）。
func (h *AuthHandler) Signin(c *gin.Context) {
	var req dto.SigninReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signin validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.auth.Signin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("signin failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		if errors.Is(err, usecase.ErrUserNotFound) || errors.Is(err, usecase.ErrBadPassword) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if err := h.issueSession(c, user); err != nil {
		slog.Error("failed to issue session", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	slog.Info("user signin successful", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, userProjection.Apply(user))
}

// Signout は提示されたセッションを失効させ、クッキーを削除します。
// 匿名リクエストでもクッキー削除のうえ200を返します（冪等）。
func (h *AuthHandler) Signout(c *gin.Context) {
	if sid, ok := jwtmw.SessionIDFromContext(c); ok {
		if err := h.sessions.Revoke(c.Request.Context(), sid); err != nil {
			slog.Warn("failed to revoke session", "error", err, "remote_addr", c.ClientIP())
		}
	}
	clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// Whoami は現在のリクエストに紐づくユーザーを返します。
// 有効なセッションが無い場合は401を返却します。
func (h *AuthHandler) Whoami(c *gin.Context) {
	user, ok := jwtmw.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.JSON(http.StatusOK, userProjection.Apply(user))
}
