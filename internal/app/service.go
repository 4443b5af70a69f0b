package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"time"

	"go.uber.org/zap"
)

// Service 可启停的后台服务，Start 阻塞直到服务结束
type Service interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Runner 并发运行一组服务：任一服务退出或 ctx 取消时，按逆序停止全部服务
type Runner struct {
	services []Service
	log      *zap.SugaredLogger
}

// NewRunner 创建服务运行器，忽略 nil 服务
func NewRunner(services ...Service) *Runner {
	r := &Runner{log: zap.NewNop().Sugar()}
	for _, svc := range services {
		if svc != nil {
			r.services = append(r.services, svc)
		}
	}
	return r
}

// WithLogger 设置运行日志
func (r *Runner) WithLogger(log *zap.SugaredLogger) *Runner {
	if log != nil {
		r.log = log
	}
	return r
}

// RunWithOptions 运行服务并在收到信号时优雅退出
func RunWithOptions(runner *Runner, opts Options) error {
	if runner == nil {
		return errors.New("runner is nil")
	}
	opts = normalizeOptions(opts)
	ctx := context.Background()
	if len(opts.Signals) > 0 {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, opts.Signals...)
		defer stop()
	}
	return runner.WithLogger(opts.Logger).Run(ctx, opts.ShutdownTimeout)
}

type exit struct {
	name string
	err  error
}

// Run 阻塞至首个服务退出或 ctx 取消。返回首个退出原因与各服务停止错误的合并结果，
// ctx 取消视为正常退出。
func (r *Runner) Run(ctx context.Context, stopTimeout time.Duration) error {
	if len(r.services) == 0 {
		return errors.New("no services to run")
	}
	if stopTimeout <= 0 {
		stopTimeout = defaultShutdownTimeout
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	exits := make(chan exit, len(r.services))
	for _, svc := range r.services {
		r.log.Infow("service_start", "service", svc.Name())
		go func(svc Service) {
			exits <- exit{name: svc.Name(), err: svc.Start(ctx)}
		}(svc)
	}

	var cause error
	select {
	case <-ctx.Done():
		r.log.Infow("runner_shutdown", "reason", context.Cause(ctx))
	case first := <-exits:
		r.log.Infow("service_exit", "service", first.name, "error", first.err)
		if first.err != nil {
			cause = fmt.Errorf("%s: %w", first.name, first.err)
		}
	}
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()
	var stopErrs []error
	for i := len(r.services) - 1; i >= 0; i-- {
		svc := r.services[i]
		if err := svc.Stop(stopCtx); err != nil {
			r.log.Errorw("service_stop_failed", "service", svc.Name(), "error", err)
			stopErrs = append(stopErrs, fmt.Errorf("stop %s: %w", svc.Name(), err))
		}
	}
	return errors.Join(append([]error{cause}, stopErrs...)...)
}
