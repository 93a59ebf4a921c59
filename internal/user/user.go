// Package user はユーザーレコードとインメモリのユーザーストアを提供します。
package user

import (
	"encoding/gob"
	"errors"
)

// 登録済みの識別子と衝突したときに Store.Create が返すエラーです。
var (
	ErrUsernameTaken = errors.New("username is already taken")
	ErrEmailTaken    = errors.New("email is already registered")
)

// createdAt の書式（UTCのISO 8601、ミリ秒まで）です。
const timeLayout = "2006-01-02T15:04:05.000Z"

func init() {
	// セッションペイロードは gob でシリアライズされるため型登録が必要
	gob.Register(Public{})
}

// User は登録済みユーザーのレコードです。
// パスワードは bcrypt ハッシュのみを保持し、平文は一切保存しません。
type User struct {
	ID           int
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    string
}

// Public はセッションに格納するユーザー情報の投影です。
// パスワードハッシュは含まれません。
type Public struct {
	ID        int
	Username  string
	Email     string
	CreatedAt string
}

// Public はセッション格納用の投影を返します。
func (u User) Public() Public {
	return Public{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// Store はユーザーの永続化を抽象化するインターフェースです。
type Store interface {
	// List は登録順のユーザー一覧を返します。
	List() []User

	// FindByUsername はユーザー名の完全一致でユーザーを検索します。
	FindByUsername(username string) (User, bool)

	// FindByEmail はメールアドレスの完全一致でユーザーを検索します。
	FindByEmail(email string) (User, bool)

	// Create は新しいユーザーを追加します。ユーザー名またはメールアドレスが
	// 既存レコードと重複する場合は ErrUsernameTaken / ErrEmailTaken を返します。
	Create(username, email, passwordHash string) (User, error)
}
