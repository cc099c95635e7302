package middleware

import (
	"net/http"
	"strings"

	chimid "github.com/go-chi/chi/v5/middleware"
)

// RequestID 沿用 chi 產生/沿用 X-Request-Id，並回寫到回應標頭方便對 log
func RequestID(next http.Handler) http.Handler {
	return chimid.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimid.GetReqID(r.Context()); id != "" {
			w.Header().Set(chimid.RequestIDHeader, id)
		}
		next.ServeHTTP(w, r)
	}))
}

// Recover 把 handler 的 panic 轉成 500，server 不會因單一請求崩潰
func Recover(next http.Handler) http.Handler {
	return chimid.Recoverer(next)
}

func GetReqId(r *http.Request) string {
	return chimid.GetReqID(r.Context())
}

// GetReqIdNumPart 只取 request id 最後的流水號部分
func GetReqIdNumPart(r *http.Request) string {
	str := GetReqId(r)
	i := strings.LastIndex(str, "-")
	if i < 0 || i+1 >= len(str) {
		return str
	}
	return str[i+1:]
}
