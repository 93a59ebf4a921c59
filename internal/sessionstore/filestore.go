package sessionstore

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-contrib/sessions"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	gsessions "github.com/gorilla/sessions"
)

const sessionFilePrefix = "session_"

// FileStore はセッションを1件につき1ファイルとして保存するストアです。
type FileStore struct {
	dir     string
	codecs  []securecookie.Codec
	options *gsessions.Options
}

var _ sessions.Store = (*FileStore)(nil)

// NewFileStore は保存先ディレクトリを作成し FileStore を返します。
// sessionSecret はセッションID署名用、cookieSecret はCookie暗号化用の秘密鍵です。
func NewFileStore(dir string, sessionSecret, cookieSecret string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("session directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileStore{
		dir:    dir,
		codecs: newCodecs(sessionSecret, cookieSecret),
		options: &gsessions.Options{
			Path:   "/",
			MaxAge: 86400,
		},
	}, nil
}

// Options は以後発行するセッションのCookie属性を設定します。
func (s *FileStore) Options(options sessions.Options) {
	s.options = options.ToGorillaOptions()
	setCodecMaxAge(s.codecs, s.options.MaxAge)
}

// Get は同一リクエスト内でキャッシュされたセッションを返します。
func (s *FileStore) Get(r *http.Request, name string) (*gsessions.Session, error) {
	return gsessions.GetRegistry(r).Get(s, name)
}

// New はCookieからセッションを復元し、復元できなければ新規セッションを返します。
func (s *FileStore) New(r *http.Request, name string) (*gsessions.Session, error) {
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
		// UUID以外のIDはファイル名に使わせない
		return session, nil
	}
	session.ID = id
	if err := s.load(session); err != nil {
		if os.IsNotExist(err) {
			// ストレージ側だけ消えていた場合は新規セッションとして扱う
			session.ID = ""
			return session, nil
		}
		return session, err
	}
	session.IsNew = false
	return session, nil
}

// Save はセッションを保存します。MaxAge が負の場合はセッションを破棄します。
func (s *FileStore) Save(r *http.Request, w http.ResponseWriter, session *gsessions.Session) error {
	if session.Options.MaxAge < 0 {
		return s.destroy(w, session)
	}

	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if err := s.write(session); err != nil {
		return err
	}
	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, gsessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

// destroy はセッションファイルを削除しCookieを失効させます。
// 既に存在しないセッションの破棄はエラーにしません。
func (s *FileStore) destroy(w http.ResponseWriter, session *gsessions.Session) error {
	if session.ID != "" {
		if err := os.Remove(s.filename(session.ID)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	for k := range session.Values {
		delete(session.Values, k)
	}
	http.SetCookie(w, gsessions.NewCookie(session.Name(), "", session.Options))
	return nil
}

func (s *FileStore) write(session *gsessions.Session) error {
	encoded, err := securecookie.EncodeMulti(session.Name(), session.Values, s.codecs...)
	if err != nil {
		return err
	}
	return os.WriteFile(s.filename(session.ID), []byte(encoded), 0o600)
}

func (s *FileStore) load(session *gsessions.Session) error {
	data, err := os.ReadFile(s.filename(session.ID))
	if err != nil {
		return err
	}
	return securecookie.DecodeMulti(session.Name(), string(data), &session.Values, s.codecs...)
}

func (s *FileStore) filename(id string) string {
	return filepath.Join(s.dir, sessionFilePrefix+id)
}
