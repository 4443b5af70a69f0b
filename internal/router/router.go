package router

import (
	"github.com/ezlab-crm/internal/authz"
	"github.com/ezlab-crm/internal/cache"
	"github.com/ezlab-crm/internal/config"
	"github.com/ezlab-crm/internal/constants"
	adminhandlers "github.com/ezlab-crm/internal/http/handlers/admin"
	publichandlers "github.com/ezlab-crm/internal/http/handlers/public"
	"github.com/ezlab-crm/internal/http/response"
	"github.com/ezlab-crm/internal/logger"
	"github.com/ezlab-crm/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20

	// 初始化 Handler（公开/登录用户与管理员分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisClient := cache.Client()
	limit := cfg.Security.LoginRateLimit
	loginRule := RateLimitRule{
		Prefix:        cache.BuildKey("rate", "login"),
		WindowSeconds: limit.WindowSeconds,
		MaxRequests:   limit.MaxRequests,
		Message:       "too many login attempts",
	}
	registerRule := RateLimitRule{
		Prefix:        cache.BuildKey("rate", "register"),
		WindowSeconds: limit.WindowSeconds,
		MaxRequests:   limit.MaxRequests,
		Message:       "too many registration attempts",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 静态文件服务（上传的图片）
	r.Static(constants.UploadURLPrefix, cfg.Upload.Dir)

	r.GET("/health", func(ctx *gin.Context) {
		response.Success(ctx, gin.H{"status": "ok"})
	})

	session := SessionAuthMiddleware(c.SessionGuard)

	// 认证接口
	auth := r.Group("/auth")
	{
		auth.POST("/register", RateLimitMiddleware(redisClient, registerRule, KeyByIP), publicHandler.Register)
		auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("username")), publicHandler.Login)
		auth.POST("/logout", session, publicHandler.Logout)
	}

	api := r.Group("/api")
	{
		// 商品
		products := api.Group("/products")
		{
			products.GET("", publicHandler.ListProducts)
			products.POST("", session, AdminOnly(c.AuthzService, authz.ResourceProducts), adminHandler.CreateProduct)
			products.DELETE("/:id", session, AdminOnly(c.AuthzService, authz.ResourceProducts), adminHandler.DeleteProduct)
		}

		// 购物车
		cart := api.Group("/cart", session)
		{
			cart.GET("", publicHandler.GetCart)
			cart.POST("/add", publicHandler.AddCartItem)
			cart.PUT("/update/:itemId", publicHandler.UpdateCartItem)
			cart.DELETE("/remove/:itemId", publicHandler.RemoveCartItem)
			cart.DELETE("/clear", publicHandler.ClearCart)
		}

		// 订单
		orders := api.Group("/orders", session)
		{
			orders.POST("", publicHandler.CreateOrder)
			orders.GET("", publicHandler.ListOrders)
			orders.GET("/:orderId", publicHandler.GetOrder)
			orders.PATCH("/:orderId", publicHandler.UpdateOrderStatus)
			orders.DELETE("/:orderId", publicHandler.DeleteOrder)
			orders.POST("/:orderId/items", publicHandler.AddOrderItem)
			orders.PUT("/:orderId/items/:itemId", publicHandler.UpdateOrderItem)
			orders.DELETE("/:orderId/items/:itemId", publicHandler.RemoveOrderItem)
		}

		// 用户管理
		users := api.Group("/users", session)
		{
			users.GET("", publicHandler.ListUsers)
			manage := users.Group("", AdminOnly(c.AuthzService, authz.ResourceUsers))
			manage.DELETE("/:id", adminHandler.DeleteUser)
			manage.PUT("/:id/status", adminHandler.UpdateUserStatus)
			manage.PUT("/:id/role", adminHandler.UpdateUserRole)
		}
	}

	return r
}
