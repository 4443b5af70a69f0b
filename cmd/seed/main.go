package main

import (
	"errors"
	"os"
	"path"
	"path/filepath"

	"github.com/ezlab-crm/internal/config"
	"github.com/ezlab-crm/internal/constants"
	"github.com/ezlab-crm/internal/logger"
	"github.com/ezlab-crm/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// placeholderPNG 1x1 透明 PNG
var placeholderPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x60, 0x00, 0x02, 0x00,
	0x00, 0x05, 0x00, 0x01, 0xe9, 0xfa, 0xdc, 0xd8, 0x00, 0x00, 0x00, 0x00,
	0x49, 0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

type seedProduct struct {
	Slug        string
	Name        string
	Description string
	Price       string
	Quantity    int
}

var demoProducts = []seedProduct{
	{Slug: "field-scope", Name: "Field Scope", Description: "Portable inspection scope", Price: "129.00", Quantity: 25},
	{Slug: "sensor-kit", Name: "Sensor Kit", Description: "Temperature and humidity sensors", Price: "49.90", Quantity: 80},
	{Slug: "service-plan", Name: "Service Plan", Description: "Annual on-site maintenance", Price: "899.00", Quantity: 10},
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	log := logger.S()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, false, models.DBPoolConfig{}); err != nil {
		log.Fatalw("seed_database_init_failed", "error", err)
	}
	if err := models.AutoMigrate(models.DB); err != nil {
		log.Fatalw("seed_database_migrate_failed", "error", err)
	}
	if err := models.InitSuperAdmin(models.DB, cfg.Bootstrap.SuperAdminPassword, config.DefaultSuperAdminPassword, cfg.Bcrypt.Cost); err != nil {
		log.Fatalw("seed_super_admin_failed", "error", err)
	}

	if err := seedUser(models.DB, "demo_buyer", "demo-buyer-pass", cfg.Bcrypt.Cost); err != nil {
		log.Fatalw("seed_user_failed", "error", err)
	}
	for _, item := range demoProducts {
		created, err := seedProductWithImage(models.DB, cfg.Upload.Dir, item)
		if err != nil {
			log.Fatalw("seed_product_failed", "product", item.Name, "error", err)
		}
		log.Infow("seed_product", "product", item.Name, "created", created)
	}
	log.Infow("seed_done")
}

func seedUser(db *gorm.DB, username, password string, cost int) error {
	var existing models.User
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return err
	}
	return db.Create(&models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         constants.RoleUser,
		IsActive:     true,
	}).Error
}

func seedProductWithImage(db *gorm.DB, uploadDir string, item seedProduct) (bool, error) {
	var count int64
	if err := db.Model(&models.Product{}).Where("name = ?", item.Name).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	filename := "seed-" + item.Slug + ".png"
	folder := filepath.Join(uploadDir, constants.UploadImageFolder)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(filepath.Join(folder, filename), placeholderPNG, 0o644); err != nil {
		return false, err
	}

	product := models.Product{
		Name:        item.Name,
		Description: item.Description,
		Price:       models.NewMoneyFromDecimal(decimal.RequireFromString(item.Price)),
		Quantity:    item.Quantity,
		Images: []models.ProductImage{
			{ImageURL: path.Join(constants.UploadURLPrefix, constants.UploadImageFolder, filename)},
		},
	}
	if err := db.Create(&product).Error; err != nil {
		return false, err
	}
	return true, nil
}
