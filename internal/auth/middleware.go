package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RedirectIfAuthenticated はログイン済みクライアントをホームへリダイレクトする
// ミドルウェアを返します。ログイン画面と登録画面に適用します。
func RedirectIfAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUser(c); ok {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}
