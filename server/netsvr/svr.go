package netsvr

import (
	"net/http"

	"github.com/zintix-labs/droplab/server/app"
	"github.com/zintix-labs/droplab/setting"
)

// DefaultAddr 預設監聽位址
const DefaultAddr = setting.DefaultAddr

// NetSvr 路由行為 + 服務啟停。
//   - 只給最外層組裝使用，其他層只面向 NetRouter。
//   - 本身實作 app.Component，可直接交給 app.App 管理生命週期。
//   - handler / middleware 一律走 net/http 介面。
type NetSvr interface {
	NetRouter
	app.Component
	Handler() http.Handler
	Address() string
}

// NetRouter 純路由行為；刻意不含 Run/Shutdown，子模組拿到它也無法控制 server 啟停。
type NetRouter interface {
	Use(middleware func(http.Handler) http.Handler)

	Get(path string, h http.HandlerFunc)
	Post(path string, h http.HandlerFunc)
	Put(path string, h http.HandlerFunc)
	Delete(path string, h http.HandlerFunc)

	Group(path string, fn func(NetRouter))
}
