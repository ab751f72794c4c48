// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"

	"carvalue_backend/internal/feature/auth/domain/entity"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8
	// maxPasswordLength はパスフレーズを許容しつつ巨大な入力を拒否する上限です。
	maxPasswordLength = 512
)

// dummyDigest はユーザー未検出時のタイミング攻撃緩和用ダイジェストです。
// 実在しないパスワードに対しても必ず1回の検証コストを支払うために使います。
const dummyDigest = "f3a1c06bd2e49587.9c41e1a6b5870d2f3e6c4a90d1b8275fe0a3c6b19d4e72850fa1b3c5d7e90214"

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、ErrEmailInUseを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// PasswordHasher はソルト付きパスワードダイジェストの導出と検証を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/password）ではなくコンシューマー（usecase）が定義します。
type PasswordHasher interface {
	// Hash は平文パスワードから "salt.hash" 形式のダイジェストを導出します。
	Hash(ctx context.Context, plaintext string) (string, error)

	// Verify は平文パスワードが格納済みダイジェストと一致する場合にtrueを返します。
	// 不正な形式のダイジェストはエラーではなくfalseとして扱います。
	Verify(ctx context.Context, plaintext, digest string) bool
}

// AuthUsecase は認証ビジネスロジックを実装します。
type AuthUsecase struct {
	users  UserRepository
	hasher PasswordHasher
}

// NewAuthUsecase はAuthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, hasher PasswordHasher) *AuthUsecase {
	return &AuthUsecase{
		users:  users,
		hasher: hasher,
	}
}

// validatePassword はパスワードが長さ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return ErrInvalidPassword
	}
	return nil
}

// Signup はハッシュ化されたパスワードで新規ユーザーを登録します。
// メールアドレスの一意性チェックは事前検索とストアのユニーク制約の二段構えで、
// 同時サインアップの競合はアダプターがErrEmailInUseとして返します。
func (u *AuthUsecase) Signup(ctx context.Context, email, password string) (*entity.User, error) {
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	// 事前チェック（最終的な一意性保証はストアのユニーク制約）
	if _, err := u.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	digest, err := u.hasher.Hash(ctx, password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{Email: email, Password: digest}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Signin はユーザーを認証し、成功時にユーザーエンティティを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもダイジェスト検証を実行します。
// ErrUserNotFoundとErrBadPasswordはログ用に区別されますが、
// HTTP境界では同一の汎用メッセージとして返却されます。
func (u *AuthUsecase) Signin(ctx context.Context, email, password string) (*entity.User, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		// ユーザー未検出でも検証コストを支払う
		u.hasher.Verify(ctx, password, dummyDigest)
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// 破損したダイジェストはVerifyがfalseを返すため、fail closedでErrBadPasswordになる
	if !u.hasher.Verify(ctx, password, user.Password) {
		return nil, ErrBadPassword
	}
	return user, nil
}
