package queue

import (
	"encoding/json"

	"github.com/ezlab-crm/internal/constants"

	"github.com/hibiken/asynq"
)

// TaskImageCleanup 商品图片文件清理任务
const TaskImageCleanup = constants.TaskProductImageCleanup

// ImageCleanupPayload 图片清理任务载荷
type ImageCleanupPayload struct {
	ProductID uint     `json:"product_id"`
	ImageURLs []string `json:"image_urls"`
}

// NewImageCleanupTask 创建图片清理任务
func NewImageCleanupTask(payload ImageCleanupPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskImageCleanup, body), nil
}

// ParseImageCleanupPayload 解析图片清理任务载荷
func ParseImageCleanupPayload(task *asynq.Task) (ImageCleanupPayload, error) {
	var payload ImageCleanupPayload
	if task == nil {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
