// Package auth は認証・認可機能を提供します。
package auth

import (
	"errors"
	"log"
	"net/http"
	"net/mail"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/auth-portal/internal/user"
)

const (
	SessionCookieName = "ap_session"
	sessionKeyUser    = "auth_user"
)

// ユーザーに表示するメッセージ一覧です。
const (
	msgLoginMissingFields       = "メールアドレスとパスワードを入力してください"
	msgLoginInvalidCredentials  = "メールアドレスまたはパスワードが正しくありません"
	msgRegisterMissingFields    = "すべての項目を入力してください"
	msgRegisterInvalidEmail     = "メールアドレスの形式が正しくありません"
	msgRegisterPasswordMismatch = "パスワードが一致しません"
	msgRegisterUsernameTaken    = "このユーザー名は既に使われています"
	msgRegisterEmailTaken       = "このメールアドレスは既に登録されています"
	msgRegisterFailed           = "ユーザー登録に失敗しました"
	msgSessionSaveFailed        = "セッションの保存に失敗しました"
	msgSessionDestroyFailed     = "セッションの削除に失敗しました"
	msgNotFound                 = "ページが見つかりません"
)

// Manager は認証まわりのハンドラーをまとめた構造体です。
type Manager struct {
	users user.Store
}

// NewManager は認証マネージャーを作成します。
func NewManager(users user.Store) *Manager {
	return &Manager{users: users}
}

type loginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

type registerRequest struct {
	Username        string `form:"username" json:"username"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword"`
}

// ShowHome は GET / のハンドラーです。
// ログイン済みならホームを、未ログインならログイン画面を表示します。
func (m *Manager) ShowHome(c *gin.Context) {
	if u, ok := currentUser(c); ok {
		c.HTML(http.StatusOK, "index.html", gin.H{"user": u})
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// ShowLogin は GET /login のハンドラーです。
func (m *Manager) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// ShowRegister は GET /register のハンドラーです。
func (m *Manager) ShowRegister(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{})
}

// Login は POST /login のハンドラーです。
// フォームとJSONのどちらのボディも受け付けます。
func (m *Manager) Login(c *gin.Context) {
	var req loginRequest
	_ = c.ShouldBind(&req)

	if req.Email == "" || req.Password == "" {
		m.renderLoginError(c, msgLoginMissingFields, req.Email)
		return
	}

	account, ok := m.users.FindByEmail(req.Email)
	if !ok {
		m.renderLoginError(c, msgLoginInvalidCredentials, req.Email)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		m.renderLoginError(c, msgLoginInvalidCredentials, req.Email)
		return
	}

	// リダイレクト前に保存を完了させ、保存失敗は 500 として返す
	session := sessions.Default(c)
	session.Set(sessionKeyUser, account.Public())
	if err := session.Save(); err != nil {
		log.Printf("failed to save session: %v", err)
		c.String(http.StatusInternalServerError, msgSessionSaveFailed)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// Register は POST /register のハンドラーです。
// 検証は順番に行い、最初に失敗した条件のメッセージだけを返します。
func (m *Manager) Register(c *gin.Context) {
	var req registerRequest
	_ = c.ShouldBind(&req)

	if msg := validateRegistration(req); msg != "" {
		m.renderRegisterError(c, msg, req)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("failed to hash password: %v", err)
		c.String(http.StatusInternalServerError, msgRegisterFailed)
		return
	}

	if _, err := m.users.Create(req.Username, req.Email, string(hash)); err != nil {
		switch {
		case errors.Is(err, user.ErrUsernameTaken):
			m.renderRegisterError(c, msgRegisterUsernameTaken, req)
		case errors.Is(err, user.ErrEmailTaken):
			m.renderRegisterError(c, msgRegisterEmailTaken, req)
		default:
			log.Printf("failed to create user: %v", err)
			c.String(http.StatusInternalServerError, msgRegisterFailed)
		}
		return
	}

	// 登録後は自動ログインせず、ログイン画面を表示する
	c.HTML(http.StatusOK, "login.html", gin.H{"email": req.Email})
}

// Logout は POST /logout のハンドラーです。
// セッション全体を破棄します。未ログインで呼ばれてもエラーにしません。
func (m *Manager) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		log.Printf("failed to destroy session: %v", err)
		c.String(http.StatusInternalServerError, msgSessionDestroyFailed)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// NotFound は未定義ルートのハンドラーです。
func NotFound(c *gin.Context) {
	c.String(http.StatusNotFound, msgNotFound)
}

// validateRegistration は最初に失敗した検証条件のメッセージを返します。
// すべて通過した場合は空文字列を返します。
func validateRegistration(req registerRequest) string {
	if req.Username == "" || req.Email == "" || req.Password == "" || req.ConfirmPassword == "" {
		return msgRegisterMissingFields
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return msgRegisterInvalidEmail
	}
	if req.Password != req.ConfirmPassword {
		return msgRegisterPasswordMismatch
	}
	return ""
}

func (m *Manager) renderLoginError(c *gin.Context, msg, email string) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"error": msg,
		"email": email,
	})
}

func (m *Manager) renderRegisterError(c *gin.Context, msg string, req registerRequest) {
	c.HTML(http.StatusOK, "register.html", gin.H{
		"error":    msg,
		"username": req.Username,
		"email":    req.Email,
	})
}

func currentUser(c *gin.Context) (user.Public, bool) {
	session := sessions.Default(c)
	u, ok := session.Get(sessionKeyUser).(user.Public)
	return u, ok
}
