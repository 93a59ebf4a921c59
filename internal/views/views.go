// Package views はサーバーサイドレンダリング用のHTMLテンプレートを提供します。
package views

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Templates は埋め込み済みテンプレートをパースして返します。
// html/template のコンテキストに応じた自動エスケープがXSS対策を兼ねます。
func Templates() *template.Template {
	return template.Must(template.ParseFS(files, "templates/*.html"))
}
