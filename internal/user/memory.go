package user

import (
	"sync"
	"time"
)

// MemoryStore はプロセス内にユーザーを保持する Store 実装です。
// 一意性チェックと追加を同一ロック内で行うため、同時登録が重複レコードを
// 生むことはありません。
type MemoryStore struct {
	mu    sync.Mutex
	users []User
}

// NewMemoryStore は空の MemoryStore を作成します。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewSeededStore は初期管理者アカウントを登録済みの MemoryStore を作成します。
// adminPasswordHash には bcrypt ハッシュを渡します。
func NewSeededStore(adminPasswordHash string) *MemoryStore {
	return &MemoryStore{
		users: []User{
			{
				ID:           1,
				Username:     "admin",
				Email:        "admin@admin.com",
				PasswordHash: adminPasswordHash,
				CreatedAt:    "2025-01-01T00:00:00.000Z",
			},
		},
	}
}

// List は登録順のユーザー一覧のコピーを返します。
func (s *MemoryStore) List() []User {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]User, len(s.users))
	copy(out, s.users)
	return out
}

// FindByUsername はユーザー名の完全一致（大文字小文字を区別）で検索します。
func (s *MemoryStore) FindByUsername(username string) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(func(u User) bool { return u.Username == username })
}

// FindByEmail はメールアドレスの完全一致（大文字小文字を区別）で検索します。
func (s *MemoryStore) FindByEmail(email string) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(func(u User) bool { return u.Email == email })
}

// Create は新しいユーザーを追加します。IDは現在の件数+1で単調増加します。
// ユーザー名の重複を先に、次にメールアドレスの重複を検査します。
func (s *MemoryStore) Create(username, email, passwordHash string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findLocked(func(u User) bool { return u.Username == username }); ok {
		return User{}, ErrUsernameTaken
	}
	if _, ok := s.findLocked(func(u User) bool { return u.Email == email }); ok {
		return User{}, ErrEmailTaken
	}

	newUser := User{
		ID:           len(s.users) + 1,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC().Format(timeLayout),
	}
	s.users = append(s.users, newUser)
	return newUser, nil
}

func (s *MemoryStore) findLocked(match func(User) bool) (User, bool) {
	for _, u := range s.users {
		if match(u) {
			return u, true
		}
	}
	return User{}, false
}
