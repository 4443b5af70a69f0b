package app

import (
	"os"
	"strings"
	"time"

	"github.com/ezlab-crm/internal/config"
	"github.com/ezlab-crm/internal/logger"

	"go.uber.org/zap"
)

// 启动模式
const (
	ModeAll    = "all"
	ModeAPI    = "api"
	ModeWorker = "worker"
)

const defaultShutdownTimeout = 10 * time.Second

// Options 应用启动选项
type Options struct {
	Config  *config.Config
	Logger  *zap.SugaredLogger
	Signals []os.Signal
	Mode    string
	// ShutdownTimeout 为 0 时取 server.shutdown_timeout_seconds
	ShutdownTimeout time.Duration
}

// IsValidMode 判断启动模式是否合法
func IsValidMode(mode string) bool {
	return mode == ModeAll || mode == ModeAPI || mode == ModeWorker
}

func normalizeOptions(o Options) Options {
	if o.Logger == nil {
		o.Logger = logger.S()
	}
	o.Mode = strings.ToLower(strings.TrimSpace(o.Mode))
	if o.Mode == "" {
		o.Mode = ModeAll
	}
	if o.ShutdownTimeout <= 0 && o.Config != nil {
		o.ShutdownTimeout = seconds(o.Config.Server.ShutdownTimeoutSeconds)
	}
	if o.ShutdownTimeout <= 0 {
		o.ShutdownTimeout = defaultShutdownTimeout
	}
	return o
}
