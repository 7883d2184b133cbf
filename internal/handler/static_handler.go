package handler

import (
	"net/http"
)

// indexPath はルートパスのリダイレクト先。
const indexPath = "/static/index.html"

// RedirectToIndex はブラウザ向けフロントエンドへリダイレクトする。
// GET /
func RedirectToIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, indexPath, http.StatusTemporaryRedirect)
}

// NewStaticHandler は指定ディレクトリの静的ファイルを/static/配下で配信するハンドラーを返す。
func NewStaticHandler(dir string) http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.Dir(dir)))
}

// Health はプロセスの稼働確認に応答する。
// GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
