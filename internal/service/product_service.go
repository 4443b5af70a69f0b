package service

import (
	"mime/multipart"
	"strings"

	"github.com/ezlab-crm/internal/logger"
	"github.com/ezlab-crm/internal/models"
	"github.com/ezlab-crm/internal/queue"
	"github.com/ezlab-crm/internal/repository"

	"gorm.io/gorm"
)

// ProductView 商品列表项（含有序图片）
type ProductView struct {
	ID          uint         `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       models.Money `json:"price"`
	Quantity    int          `json:"quantity"`
	ImageURLs   []string     `json:"image_urls"`
}

// CreateProductInput 创建商品输入
type CreateProductInput struct {
	Name        string
	Description string
	Price       models.Money
	Quantity    int
	Images      []*multipart.FileHeader
}

// CreateProductResult 创建商品结果
type CreateProductResult struct {
	ProductID uint     `json:"product_id"`
	ImageURLs []string `json:"image_urls"`
}

// ImageStore 图片文件存储
type ImageStore interface {
	SaveImage(file *multipart.FileHeader) (string, error)
	RemoveFiles(urls []string) error
	MaxImages() int
}

// ProductService 商品业务服务
type ProductService struct {
	repo        repository.ProductRepository
	images      ImageStore
	queueClient *queue.Client
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, images ImageStore, queueClient *queue.Client) *ProductService {
	return &ProductService{
		repo:        repo,
		images:      images,
		queueClient: queueClient,
	}
}

// List 商品列表，按名称排序
func (s *ProductService) List() ([]ProductView, error) {
	products, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	views := make([]ProductView, 0, len(products))
	for i := range products {
		p := &products[i]
		views = append(views, ProductView{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Quantity:    p.Quantity,
			ImageURLs:   p.ImageURLs(),
		})
	}
	return views, nil
}

// Create 保存图片后在同一事务写入商品与图片；失败时丢弃已保存的文件
func (s *ProductService) Create(input CreateProductInput) (*CreateProductResult, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProductNameRequired
	}
	if input.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if input.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if len(input.Images) == 0 {
		return nil, ErrImageRequired
	}
	if len(input.Images) > s.images.MaxImages() {
		return nil, ErrTooManyImages
	}

	urls := make([]string, 0, len(input.Images))
	for _, file := range input.Images {
		url, err := s.images.SaveImage(file)
		if err != nil {
			s.discardFiles(0, urls)
			return nil, err
		}
		urls = append(urls, url)
	}

	product := &models.Product{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Quantity:    input.Quantity,
	}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(product); err != nil {
			return err
		}
		rows := make([]models.ProductImage, 0, len(urls))
		for _, url := range urls {
			rows = append(rows, models.ProductImage{ProductID: product.ID, ImageURL: url})
		}
		return repo.CreateImages(rows)
	})
	if err != nil {
		s.discardFiles(0, urls)
		return nil, err
	}

	logger.Infow("product_created", "product_id", product.ID, "images", len(urls))
	return &CreateProductResult{ProductID: product.ID, ImageURLs: urls}, nil
}

// Delete 删除商品与图片记录，随后尽力删除图片文件
func (s *ProductService) Delete(id uint) error {
	if id == 0 {
		return ErrInvalidInput
	}

	var urls []string
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		product, err := repo.GetByID(id)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrProductNotFound
		}
		refs, err := repo.CountOrderReferences(id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return ErrProductInUse
		}
		urls = product.ImageURLs()
		return repo.Delete(id)
	})
	if err != nil {
		return err
	}

	if len(urls) == 0 {
		return nil
	}
	if s.queueClient.Enabled() {
		payload := queue.ImageCleanupPayload{ProductID: id, ImageURLs: urls}
		err := s.queueClient.EnqueueImageCleanup(payload)
		if err == nil {
			return nil
		}
		logger.Warnw("product_image_cleanup_enqueue_failed", "product_id", id, "error", err)
	}
	s.discardFiles(id, urls)
	return nil
}

// CleanupImages 删除图片文件，供异步任务调用
func (s *ProductService) CleanupImages(productID uint, urls []string) error {
	if err := s.images.RemoveFiles(urls); err != nil {
		logger.Warnw("product_image_cleanup_failed", "product_id", productID, "images", urls, "error", err)
		return err
	}
	logger.Debugw("product_image_cleanup_done", "product_id", productID, "images", len(urls))
	return nil
}

func (s *ProductService) discardFiles(productID uint, urls []string) {
	if len(urls) == 0 {
		return
	}
	if err := s.images.RemoveFiles(urls); err != nil {
		logger.Warnw("product_image_cleanup_failed", "product_id", productID, "images", urls, "error", err)
	}
}
