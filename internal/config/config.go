// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// 秘密鍵が未設定のときに使われる開発用フォールバック値です。
// release モードでは Validate が設定漏れとして拒否します。
const (
	DefaultSessionSecret = "keyboard cat"
	DefaultCookieSecret  = "keyboard dog"
)

// セッションストアの種類を表す値です。
const (
	SessionStoreFile  = "file"
	SessionStoreRedis = "redis"
)

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// サーバー設定
	Port    string // サーバーのポート番号
	GinMode string // Ginの実行モード (debug, release, test)

	// セッション設定
	SessionSecret   string // セッションID署名用の秘密鍵
	CookieSecret    string // セッションCookie暗号化用の秘密鍵
	SessionStore    string // セッションストアの種類 (file, redis)
	SessionDir      string // ファイルストアの保存先ディレクトリ
	SessionRedisURL string // Redisストア用の接続URL
	SessionMaxAge   int    // セッションの有効期間（秒）

	// CORS設定
	CORSAllowedOrigins string // CORS許可オリジン（カンマ区切り）
}

// Load は環境変数から設定を読み込みます。
// .env.local ファイルが存在する場合はそこから読み込みます。
func Load() (*Config, error) {
	loadEnvFile()

	config := &Config{
		// サーバー設定
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		// セッション設定
		SessionSecret:   getEnv("SESSION_SECRET", DefaultSessionSecret),
		CookieSecret:    getEnv("COOKIE_SECRET", DefaultCookieSecret),
		SessionStore:    getEnv("SESSION_STORE", SessionStoreFile),
		SessionDir:      getEnv("SESSION_DIR", "./sessions"),
		SessionRedisURL: getEnv("SESSION_REDIS_URL", "redis://127.0.0.1:6379/0"),
		SessionMaxAge:   getEnvAsInt("SESSION_MAX_AGE_SECONDS", 86400),

		// CORS設定
		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:8080"),
	}

	// 必須設定のバリデーション
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func loadEnvFile() {
	if err := godotenv.Load(".env.local"); err == nil {
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}

	_ = godotenv.Load(filepath.Join(parent, ".env.local"))
}

// Validate は設定の妥当性を検証します。
func (c *Config) Validate() error {
	if c.SessionStore != SessionStoreFile && c.SessionStore != SessionStoreRedis {
		return fmt.Errorf("SESSION_STORE must be %q or %q", SessionStoreFile, SessionStoreRedis)
	}
	if c.SessionMaxAge <= 0 {
		return fmt.Errorf("SESSION_MAX_AGE_SECONDS must be positive")
	}

	// ローカル開発ではフォールバック秘密鍵を許容する
	// 本番環境では厳格にチェックする
	if c.GinMode == "release" {
		if c.SessionSecret == "" || c.SessionSecret == DefaultSessionSecret {
			return fmt.Errorf("SESSION_SECRET is required in release mode")
		}
		if c.CookieSecret == "" || c.CookieSecret == DefaultCookieSecret {
			return fmt.Errorf("COOKIE_SECRET is required in release mode")
		}
		if c.SessionStore == SessionStoreRedis && c.SessionRedisURL == "" {
			return fmt.Errorf("SESSION_REDIS_URL is required in release mode")
		}
	}

	return nil
}

// UsesDefaultSecrets はフォールバック秘密鍵のままかどうかを返します。
// 起動時の警告ログに使用します。
func (c *Config) UsesDefaultSecrets() bool {
	return c.SessionSecret == DefaultSessionSecret || c.CookieSecret == DefaultCookieSecret
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します。
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt は環境変数を整数として取得します。
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
