package setting

import (
	"fmt"
	"slices"
	"time"

	"github.com/zintix-labs/droplab/errs"
	"github.com/zintix-labs/droplab/sdk/grid"
)

// LabSetting 包含啟動 droplab（CLI 或 server）所需的所有設定。
// 零值經過 Init() 之後即為合法的預設設定。
type LabSetting struct {
	Width        int           `yaml:"width"          json:"width"`
	Workers      int           `yaml:"workers"        json:"workers"`
	LogMode      string        `yaml:"log_mode"       json:"log_mode"`
	ReportFormat string        `yaml:"report_format"  json:"report_format"`
	Server       ServerSetting `yaml:"server"         json:"server"`
	Cache        CacheSetting  `yaml:"cache"          json:"cache"`
	initFlag     bool
}

// ServerSetting HTTP 服務設定
type ServerSetting struct {
	Addr      string `yaml:"addr"        json:"addr"`
	TimeoutMs int    `yaml:"timeout_ms"  json:"timeout_ms"`
	BufSize   int    `yaml:"buf"         json:"buf"` // 非同步 log 緩衝
}

// CacheSetting 結果快取設定。Driver: none | mem | redis
type CacheSetting struct {
	Driver   string `yaml:"driver"    json:"driver"`
	Addr     string `yaml:"addr"      json:"addr"`
	Password string `yaml:"password"  json:"password"`
	DB       int    `yaml:"db"        json:"db"`
	TTLSec   int    `yaml:"ttl_sec"   json:"ttl_sec"`
}

const (
	DefaultAddr      = ":5808"
	DefaultTimeoutMs = 5000
	DefaultBufSize   = 4096
	DefaultRedisAddr = "localhost:6379"
)

// 快取驅動
const (
	CacheNone  = "none"
	CacheMem   = "mem"
	CacheRedis = "redis"
)

var (
	logModes      = []string{"ModeDev", "ModeProd", "ModeSilence"}
	reportFormats = []string{"text", "json", "yaml"}
	cacheDrivers  = []string{CacheNone, CacheMem, CacheRedis}
)

// Default 回傳已初始化的預設設定
func Default() *LabSetting {
	ls := &LabSetting{}
	_ = ls.Init()
	return ls
}

// Init 補上預設值並檢查設定；重複呼叫不會重做
func (ls *LabSetting) Init() error {
	if ls.initFlag {
		return nil
	}
	if ls.Width == 0 {
		ls.Width = grid.DefaultWidth
	}
	if ls.Workers == 0 {
		ls.Workers = 1
	}
	if ls.LogMode == "" {
		ls.LogMode = "ModeDev"
	}
	if ls.ReportFormat == "" {
		ls.ReportFormat = "text"
	}
	if ls.Server.Addr == "" {
		ls.Server.Addr = DefaultAddr
	}
	if ls.Server.TimeoutMs == 0 {
		ls.Server.TimeoutMs = DefaultTimeoutMs
	}
	if ls.Server.BufSize == 0 {
		ls.Server.BufSize = DefaultBufSize
	}
	if ls.Cache.Driver == "" {
		ls.Cache.Driver = CacheNone
	}
	if ls.Cache.Driver == CacheRedis && ls.Cache.Addr == "" {
		ls.Cache.Addr = DefaultRedisAddr
	}
	if err := ls.valid(); err != nil {
		return err
	}
	ls.initFlag = true
	return nil
}

// Reinit 覆寫欄位後重新補預設值並檢查（命令列旗標覆寫設定檔時使用）
func (ls *LabSetting) Reinit() error {
	ls.initFlag = false
	return ls.Init()
}

// valid 執行最基本的設定檔檢查
func (ls *LabSetting) valid() error {
	if ls.Width < 1 {
		return errs.Input(errs.InvalidSetting, fmt.Sprintf("width must > 0, got %d", ls.Width))
	}
	if ls.Workers < 1 {
		return errs.Input(errs.InvalidSetting, fmt.Sprintf("workers must > 0, got %d", ls.Workers))
	}
	if !slices.Contains(logModes, ls.LogMode) {
		return errs.Input(errs.InvalidSetting, "unknown log_mode: "+ls.LogMode)
	}
	if !slices.Contains(reportFormats, ls.ReportFormat) {
		return errs.Input(errs.InvalidSetting, "unknown report_format: "+ls.ReportFormat)
	}
	if !slices.Contains(cacheDrivers, ls.Cache.Driver) {
		return errs.Input(errs.InvalidSetting, "unknown cache driver: "+ls.Cache.Driver)
	}
	if ls.Server.TimeoutMs < 0 || ls.Cache.TTLSec < 0 || ls.Cache.DB < 0 {
		return errs.Input(errs.InvalidSetting, "timeout_ms / ttl_sec / db must >= 0")
	}
	return nil
}

// Timeout 單次請求的處理時限
func (ls *LabSetting) Timeout() time.Duration {
	return time.Duration(ls.Server.TimeoutMs) * time.Millisecond
}

// TTL 快取存活時間，0 代表不過期
func (ls *LabSetting) TTL() time.Duration {
	return ls.Cache.TTL()
}

func (cs CacheSetting) TTL() time.Duration {
	return time.Duration(cs.TTLSec) * time.Second
}
