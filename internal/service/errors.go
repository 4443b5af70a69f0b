package service

import "errors"

// 输入校验错误
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrUsernameRequired     = errors.New("username is required")
	ErrPasswordRequired     = errors.New("password is required")
	ErrUsernameLength       = errors.New("username must be 3 to 50 characters")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrInvalidPrice         = errors.New("invalid price")
	ErrInvalidOrderStatus   = errors.New("invalid order status")
	ErrCustomerNameRequired = errors.New("customer name is required")
	ErrProductNameRequired  = errors.New("product name is required")
	ErrImageRequired        = errors.New("at least one image is required")
	ErrTooManyImages        = errors.New("too many images")
	ErrInvalidFileType      = errors.New("invalid file type")
	ErrFileTooLarge         = errors.New("file too large")
	ErrInvalidRole          = errors.New("invalid role")
)

// 库存错误
var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrOrderCancelled    = errors.New("cancelled order cannot be modified")
)

// 资源不存在错误
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderItemNotFound = errors.New("order item not found")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrUserNotFound      = errors.New("user not found")
)

// 冲突错误
var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrSessionConflict   = errors.New("account already logged in elsewhere")
	ErrProductInUse      = errors.New("product is referenced by orders")
)

// 权限与认证错误
var (
	ErrForbidden           = errors.New("forbidden")
	ErrSuperAdminProtected = errors.New("super admin account is protected")
	ErrAccountBlocked      = errors.New("account is blocked")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrTokenInvalid        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrSessionSuperseded   = errors.New("session superseded by a newer login")
)
