package provider

import (
	"fmt"

	"github.com/ezlab-crm/internal/authz"
	"github.com/ezlab-crm/internal/cache"
	"github.com/ezlab-crm/internal/config"
	"github.com/ezlab-crm/internal/logger"
	"github.com/ezlab-crm/internal/models"
	"github.com/ezlab-crm/internal/queue"
	"github.com/ezlab-crm/internal/repository"
	"github.com/ezlab-crm/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo    repository.UserRepository
	ProductRepo repository.ProductRepository
	CartRepo    repository.CartRepository
	OrderRepo   repository.OrderRepository

	// Services
	AuthzService     *authz.Service
	SessionGuard     *service.SessionGuard
	UserAuthService  *service.UserAuthService
	UserAdminService *service.UserAdminService
	UploadService    *service.UploadService
	ProductService   *service.ProductService
	CartService      *service.CartService
	OrderService     *service.OrderService
}

// NewContainer 初始化容器，需在 models.InitDB 之后调用
func NewContainer(cfg *config.Config) (*Container, error) {
	if models.DB == nil {
		return nil, fmt.Errorf("database is not initialized")
	}

	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queue.NewClient(&cfg.Queue),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	if err := c.initServices(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
}

func (c *Container) initServices() error {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		return err
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		return err
	}
	c.AuthzService = authzService

	c.SessionGuard = service.NewSessionGuard(c.Config.JWT, c.UserRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.SessionGuard)
	c.UserAdminService = service.NewUserAdminService(c.UserRepo, c.CartRepo)
	c.UploadService = service.NewUploadService(c.Config.Upload)
	c.ProductService = service.NewProductService(c.ProductRepo, c.UploadService, c.QueueClient)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo)
	return nil
}

// Close 释放容器持有的外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
