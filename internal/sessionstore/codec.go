// Package sessionstore は gin-contrib/sessions 用のサーバーサイド・セッションストアを提供します。
//
// Cookie には署名付きのセッションIDのみを持たせ、ペイロード本体は
// ストア側（ファイルまたはRedis）に保存します。
package sessionstore

import (
	"crypto/sha256"

	"github.com/gorilla/securecookie"
)

func newCodecs(sessionSecret, cookieSecret string) []securecookie.Codec {
	return securecookie.CodecsFromPairs(derivedKey(sessionSecret), derivedKey(cookieSecret))
}

// derivedKey は任意長の秘密鍵文字列から署名・暗号化に使える32バイト鍵を導出します。
func derivedKey(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

func setCodecMaxAge(codecs []securecookie.Codec, maxAge int) {
	for _, codec := range codecs {
		if sc, ok := codec.(*securecookie.SecureCookie); ok {
			sc.MaxAge(maxAge)
		}
	}
}
