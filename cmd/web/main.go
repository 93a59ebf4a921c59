// Package main はWebサーバーのエントリーポイントです。
package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/auth-portal/internal/auth"
	"github.com/yourusername/auth-portal/internal/config"
	"github.com/yourusername/auth-portal/internal/sessionstore"
	"github.com/yourusername/auth-portal/internal/user"
	"github.com/yourusername/auth-portal/internal/views"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.UsesDefaultSecrets() {
		log.Printf("WARNING: using built-in fallback secrets; set SESSION_SECRET and COOKIE_SECRET")
	}

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	// Ginルーターの初期化（デフォルトミドルウェア: Logger, Recovery）
	router := gin.Default()
	router.SetHTMLTemplate(views.Templates())

	// セッションミドルウェアの設定
	store, err := newSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteStrictMode,
	})
	router.Use(sessions.Sessions(auth.SessionCookieName, store))

	// セキュリティヘッダー（XSS・MIMEスニッフィング・クリックジャッキング対策）
	router.Use(secure.New(secure.Config{
		BrowserXssFilter:   true,
		ContentTypeNosniff: true,
		FrameDeny:          true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	// CORSミドルウェアの設定
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.CORSAllowedOrigins, ",")
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// ユーザーストアの初期化（初期管理者アカウント入り）
	users, err := newUserStore()
	if err != nil {
		log.Fatalf("Failed to initialize user store: %v", err)
	}

	// ルーティングの設定
	setupRoutes(router, users)

	// サーバーの起動
	addr := ":" + cfg.Port
	log.Printf("Starting server on %s (mode: %s)", addr, cfg.GinMode)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newSessionStore は設定に応じてファイルまたはRedisのセッションストアを作成します。
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	if cfg.SessionStore == config.SessionStoreRedis {
		return sessionstore.NewRedisStore(cfg.SessionRedisURL, cfg.SessionSecret, cfg.CookieSecret)
	}
	return sessionstore.NewFileStore(cfg.SessionDir, cfg.SessionSecret, cfg.CookieSecret)
}

// newUserStore は初期管理者アカウントを登録したユーザーストアを作成します。
// パスワードは平文では保持せず、起動時にハッシュ化します。
func newUserStore() (*user.MemoryStore, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return user.NewSeededStore(string(hash)), nil
}

// setupRoutes はルーティングを設定します。
func setupRoutes(router *gin.Engine, users user.Store) {
	manager := auth.NewManager(users)

	router.GET("/", manager.ShowHome)
	router.GET("/login", auth.RedirectIfAuthenticated(), manager.ShowLogin)
	router.POST("/login", manager.Login)
	router.GET("/register", auth.RedirectIfAuthenticated(), manager.ShowRegister)
	router.POST("/register", manager.Register)
	router.POST("/logout", manager.Logout)
	router.GET("/health", handleHealth)
	router.NoRoute(auth.NotFound)
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "auth-portal",
		"version": "0.1.0",
	})
}
