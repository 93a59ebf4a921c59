package sessionstore

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	gsessions "github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// RedisStore はセッションを Redis に保存するストアです。
// Cookieの扱いは FileStore と同じで、保存先だけが異なります。
type RedisStore struct {
	rdb     *redis.Client
	codecs  []securecookie.Codec
	options *gsessions.Options
}

var _ sessions.Store = (*RedisStore)(nil)

// NewRedisStore は接続URLから Redis クライアントを作成し RedisStore を返します。
func NewRedisStore(redisURL, sessionSecret, cookieSecret string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisStore{
		rdb:    redis.NewClient(opt),
		codecs: newCodecs(sessionSecret, cookieSecret),
		options: &gsessions.Options{
			Path:   "/",
			MaxAge: 86400,
		},
	}, nil
}

// Options は以後発行するセッションのCookie属性を設定します。
func (s *RedisStore) Options(options sessions.Options) {
	s.options = options.ToGorillaOptions()
	setCodecMaxAge(s.codecs, s.options.MaxAge)
}

// Get は同一リクエスト内でキャッシュされたセッションを返します。
func (s *RedisStore) Get(r *http.Request, name string) (*gsessions.Session, error) {
	return gsessions.GetRegistry(r).Get(s, name)
}

// New はCookieからセッションを復元し、復元できなければ新規セッションを返します。
func (s *RedisStore) New(r *http.Request, name string) (*gsessions.Session, error) {
	session := gsessions.NewSession(s, name)
	opts := *s.options
	session.Options = &opts
	session.IsNew = true

	cookie, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	var id string
	if err := securecookie.DecodeMulti(name, cookie.Value, &id, s.codecs...); err != nil {
		return session, nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return session, nil
	}

	data, err := s.rdb.Get(r.Context(), sessionKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return session, nil
		}
		return session, err
	}
	if err := securecookie.DecodeMulti(name, data, &session.Values, s.codecs...); err != nil {
		return session, err
	}
	session.ID = id
	session.IsNew = false
	return session, nil
}

// Save はセッションを保存します。MaxAge が負の場合はセッションを破棄します。
func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, session *gsessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.rdb.Del(r.Context(), sessionKey(session.ID)).Err(); err != nil {
				return err
			}
		}
		for k := range session.Values {
			delete(session.Values, k)
		}
		http.SetCookie(w, gsessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	payload, err := securecookie.EncodeMulti(session.Name(), session.Values, s.codecs...)
	if err != nil {
		return err
	}
	ttl := time.Duration(session.Options.MaxAge) * time.Second
	if err := s.rdb.Set(r.Context(), sessionKey(session.ID), payload, ttl).Err(); err != nil {
		return err
	}
	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, gsessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}
