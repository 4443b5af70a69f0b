package worker

import (
	"context"

	"github.com/ezlab-crm/internal/logger"
	"github.com/ezlab-crm/internal/provider"
	"github.com/ezlab-crm/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册任务处理函数
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskImageCleanup, c.handleImageCleanup)
}

func (c *Consumer) handleImageCleanup(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_image_cleanup_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseImageCleanupPayload(task)
	if err != nil {
		logger.Warnw("worker_image_cleanup_unmarshal_failed", "error", err)
		return err
	}
	if len(payload.ImageURLs) == 0 {
		logger.Debugw("worker_image_cleanup_skip_empty_payload", "product_id", payload.ProductID)
		return nil
	}
	if c.Container == nil || c.ProductService == nil {
		logger.Warnw("worker_image_cleanup_skip_product_service_nil", "product_id", payload.ProductID)
		return nil
	}
	// 返回错误交给 asynq 重试
	return c.ProductService.CleanupImages(payload.ProductID, payload.ImageURLs)
}
