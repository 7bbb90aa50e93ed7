package repository

import (
	"strings"
	"time"

	"github.com/yoonsu/baedalgo-backend/internal/app/lifecycle"
	"github.com/yoonsu/baedalgo-backend/internal/app/model"
	"github.com/yoonsu/baedalgo-backend/pkg/logger"
	"gorm.io/gorm"
)

// RestaurantFilter mirrors lifecycle.FilterCriteria at the SQL level; every
// provided field narrows the listing (logical AND)
type RestaurantFilter struct {
	Criteria lifecycle.FilterCriteria
	Page     int // 1-based
	PageSize int
}

// RestaurantListResult is one page of a filtered listing. TotalCount is the
// number of rows after filtering and before pagination.
type RestaurantListResult struct {
	Restaurants []model.Restaurant `json:"restaurants"`
	TotalCount  int64              `json:"total_count"`
	Page        int                `json:"page"`
	PageSize    int                `json:"page_size"`
}

type RestaurantRepository interface {
	Create(restaurant *model.Restaurant) error
	BulkCreate(restaurants []model.Restaurant, batchSize int) error
	Update(restaurant *model.Restaurant) error
	Delete(id uint) error
	FindByID(id uint) (*model.Restaurant, error)
	FindByOwnerID(ownerID uint) ([]model.Restaurant, error)
	FindAll(filter RestaurantFilter) (*RestaurantListResult, error)
	CountAwaitingVerification() (int64, error)

	CreateDocument(document *model.Document) error
	UpdateDocument(document *model.Document) error
	FindDocumentOwner(documentID uint) (*model.Restaurant, error)
	FindDocumentsByRestaurantID(restaurantID uint) ([]model.Document, error)
	FindRestaurantsWithExpiredDocuments(now time.Time) ([]model.Restaurant, error)
}

type restaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

func (r *restaurantRepository) Create(restaurant *model.Restaurant) error {
	logger.Debug("Creating restaurant in database", map[string]interface{}{
		"name":     restaurant.Name,
		"city":     restaurant.City,
		"owner_id": restaurant.OwnerID,
	})

	if err := r.db.Create(restaurant).Error; err != nil {
		logger.Error("Failed to create restaurant in database", err, map[string]interface{}{
			"name": restaurant.Name,
			"city": restaurant.City,
		})
		return err
	}

	logger.Debug("Restaurant created in database", map[string]interface{}{
		"restaurant_id": restaurant.ID,
		"name":          restaurant.Name,
	})
	return nil
}

// BulkCreate inserts imported listings in batches
func (r *restaurantRepository) BulkCreate(restaurants []model.Restaurant, batchSize int) error {
	logger.Info("Bulk creating restaurants", map[string]interface{}{
		"count":      len(restaurants),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(restaurants, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create restaurants", err, map[string]interface{}{
			"count": len(restaurants),
		})
		return err
	}

	return nil
}

func (r *restaurantRepository) Update(restaurant *model.Restaurant) error {
	logger.Debug("Updating restaurant in database", map[string]interface{}{
		"restaurant_id": restaurant.ID,
	})

	if err := r.db.Save(restaurant).Error; err != nil {
		logger.Error("Failed to update restaurant in database", err, map[string]interface{}{
			"restaurant_id": restaurant.ID,
		})
		return err
	}

	return nil
}

func (r *restaurantRepository) Delete(id uint) error {
	logger.Debug("Deleting restaurant from database", map[string]interface{}{
		"restaurant_id": id,
	})

	if err := r.db.Delete(&model.Restaurant{}, id).Error; err != nil {
		logger.Error("Failed to delete restaurant from database", err, map[string]interface{}{
			"restaurant_id": id,
		})
		return err
	}

	return nil
}

func (r *restaurantRepository) FindByID(id uint) (*model.Restaurant, error) {
	logger.Debug("Finding restaurant by ID", map[string]interface{}{
		"restaurant_id": id,
	})

	var restaurant model.Restaurant
	err := r.db.
		Preload("Documents", func(db *gorm.DB) *gorm.DB {
			return db.Order("documents.created_at ASC")
		}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("restaurant_images.position ASC")
		}).
		Preload("Owner").
		First(&restaurant, id).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find restaurant", err, map[string]interface{}{
				"restaurant_id": id,
			})
		}
		return nil, err
	}

	return &restaurant, nil
}

func (r *restaurantRepository) FindByOwnerID(ownerID uint) ([]model.Restaurant, error) {
	logger.Debug("Finding restaurants by owner ID", map[string]interface{}{
		"owner_id": ownerID,
	})

	var restaurants []model.Restaurant
	err := r.db.
		Preload("Documents", func(db *gorm.DB) *gorm.DB {
			return db.Order("documents.created_at ASC")
		}).
		Where("owner_id = ?", ownerID).
		Order("name ASC").
		Find(&restaurants).Error
	if err != nil {
		logger.Error("Failed to find restaurants by owner ID", err, map[string]interface{}{
			"owner_id": ownerID,
		})
		return nil, err
	}

	return restaurants, nil
}

// applyFilter translates lifecycle.FilterCriteria into SQL with identical
// semantics: AND across criteria, case-insensitive city/search matching,
// unverified-documents as an EXISTS over pending/rejected documents.
func applyFilter(query *gorm.DB, c lifecycle.FilterCriteria) *gorm.DB {
	if c.Status != nil {
		query = query.Where("restaurants.status = ?", *c.Status)
	}
	if c.VerificationStatus != nil {
		query = query.Where("restaurants.verification_status = ?", *c.VerificationStatus)
	}
	if c.Cuisine != "" {
		// cuisine_types is a JSON array column; match the quoted element
		like := "%\"" + strings.ToLower(c.Cuisine) + "\"%"
		query = query.Where("LOWER(restaurants.cuisine_types) LIKE ?", like)
	}
	if c.PriceRange != "" {
		query = query.Where("restaurants.price_range = ?", c.PriceRange)
	}
	if c.City != "" {
		query = query.Where("LOWER(restaurants.city) LIKE ?", "%"+strings.ToLower(c.City)+"%")
	}
	if c.Search != "" {
		like := "%" + strings.ToLower(c.Search) + "%"
		query = query.Where(
			"LOWER(restaurants.name) LIKE ? OR LOWER(restaurants.description) LIKE ? OR LOWER(restaurants.owner_name) LIKE ? OR LOWER(restaurants.email) LIKE ?",
			like, like, like, like,
		)
	}
	if c.HasUnverifiedDocuments != nil {
		sub := "EXISTS (SELECT 1 FROM documents WHERE documents.restaurant_id = restaurants.id AND documents.verification_status IN ? AND documents.deleted_at IS NULL)"
		statuses := []model.DocumentVerificationStatus{
			model.DocumentStatusPending,
			model.DocumentStatusRejected,
		}
		if *c.HasUnverifiedDocuments {
			query = query.Where(sub, statuses)
		} else {
			query = query.Where("NOT "+sub, statuses)
		}
	}
	return query
}

func (r *restaurantRepository) FindAll(filter RestaurantFilter) (*RestaurantListResult, error) {
	logger.Debug("Finding restaurants", map[string]interface{}{
		"page":      filter.Page,
		"page_size": filter.PageSize,
	})

	// Total is counted after filtering, before pagination
	var total int64
	if err := applyFilter(r.db.Model(&model.Restaurant{}), filter.Criteria).Count(&total).Error; err != nil {
		logger.Error("Failed to count restaurants", err)
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize

	listQuery := applyFilter(r.db.Model(&model.Restaurant{}), filter.Criteria).
		Preload("Documents", func(db *gorm.DB) *gorm.DB {
			return db.Order("documents.created_at ASC")
		}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("restaurant_images.position ASC")
		}).
		Order("name ASC")

	if pageSize > 0 {
		listQuery = listQuery.Offset((page - 1) * pageSize).Limit(pageSize)
	}

	var restaurants []model.Restaurant
	if err := listQuery.Find(&restaurants).Error; err != nil {
		logger.Error("Failed to find restaurants", err)
		return nil, err
	}

	logger.Debug("Restaurants found", map[string]interface{}{
		"count": len(restaurants),
		"total": total,
	})
	return &RestaurantListResult{
		Restaurants: restaurants,
		TotalCount:  total,
		Page:        page,
		PageSize:    pageSize,
	}, nil
}

func (r *restaurantRepository) CountAwaitingVerification() (int64, error) {
	logger.Debug("Counting restaurants awaiting verification")

	var count int64
	err := r.db.Model(&model.Restaurant{}).
		Where(
			"restaurants.verification_status IN ? OR EXISTS (SELECT 1 FROM documents WHERE documents.restaurant_id = restaurants.id AND documents.verification_status = ? AND documents.deleted_at IS NULL)",
			[]model.VerificationStatus{
				model.VerificationStatusPending,
				model.VerificationStatusUnderReview,
			},
			model.DocumentStatusPending,
		).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to count restaurants awaiting verification", err)
		return 0, err
	}

	return count, nil
}

func (r *restaurantRepository) CreateDocument(document *model.Document) error {
	logger.Debug("Creating document in database", map[string]interface{}{
		"restaurant_id": document.RestaurantID,
		"type":          document.Type,
	})

	if err := r.db.Create(document).Error; err != nil {
		logger.Error("Failed to create document in database", err, map[string]interface{}{
			"restaurant_id": document.RestaurantID,
			"type":          document.Type,
		})
		return err
	}

	return nil
}

func (r *restaurantRepository) UpdateDocument(document *model.Document) error {
	logger.Debug("Updating document in database", map[string]interface{}{
		"document_id": document.ID,
	})

	if err := r.db.Save(document).Error; err != nil {
		logger.Error("Failed to update document in database", err, map[string]interface{}{
			"document_id": document.ID,
		})
		return err
	}

	return nil
}

// FindDocumentOwner returns the restaurant that owns the document, with its
// full document list loaded, or gorm.ErrRecordNotFound when no restaurant in
// the collection contains that document id.
func (r *restaurantRepository) FindDocumentOwner(documentID uint) (*model.Restaurant, error) {
	logger.Debug("Finding document owner", map[string]interface{}{
		"document_id": documentID,
	})

	var document model.Document
	if err := r.db.First(&document, documentID).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find document", err, map[string]interface{}{
				"document_id": documentID,
			})
		}
		return nil, err
	}

	return r.FindByID(document.RestaurantID)
}

func (r *restaurantRepository) FindDocumentsByRestaurantID(restaurantID uint) ([]model.Document, error) {
	logger.Debug("Finding documents by restaurant ID", map[string]interface{}{
		"restaurant_id": restaurantID,
	})

	var documents []model.Document
	err := r.db.
		Where("restaurant_id = ?", restaurantID).
		Order("created_at ASC").
		Find(&documents).Error
	if err != nil {
		logger.Error("Failed to find documents by restaurant ID", err, map[string]interface{}{
			"restaurant_id": restaurantID,
		})
		return nil, err
	}

	return documents, nil
}

// FindRestaurantsWithExpiredDocuments returns restaurants holding approved
// documents whose validity ended before now, documents preloaded.
func (r *restaurantRepository) FindRestaurantsWithExpiredDocuments(now time.Time) ([]model.Restaurant, error) {
	logger.Debug("Finding restaurants with expired documents")

	var restaurants []model.Restaurant
	err := r.db.
		Preload("Documents", func(db *gorm.DB) *gorm.DB {
			return db.Order("documents.created_at ASC")
		}).
		Where(
			"EXISTS (SELECT 1 FROM documents WHERE documents.restaurant_id = restaurants.id AND documents.verification_status = ? AND documents.expires_at < ? AND documents.deleted_at IS NULL)",
			model.DocumentStatusApproved, now,
		).
		Find(&restaurants).Error
	if err != nil {
		logger.Error("Failed to find restaurants with expired documents", err)
		return nil, err
	}

	return restaurants, nil
}
