package service

import (
	"context"
	"errors"
	"time"

	"github.com/yoonsu/baedalgo-backend/internal/app/lifecycle"
	"github.com/yoonsu/baedalgo-backend/internal/app/model"
	"github.com/yoonsu/baedalgo-backend/internal/app/repository"
	"github.com/yoonsu/baedalgo-backend/internal/websocket"
	"github.com/yoonsu/baedalgo-backend/pkg/logger"
	"github.com/yoonsu/baedalgo-backend/pkg/redis"
	"gorm.io/gorm"
)

var (
	ErrDocumentNotFound          = errors.New("document not found")
	ErrInvalidVerificationStatus = errors.New("invalid verification status")
	ErrInvalidDocumentStatus     = errors.New("invalid document status")
	ErrInvalidDocumentType       = errors.New("invalid document type")
)

const pendingCountCacheTTL = 30 * time.Second

// SubmitDocumentInput carries an operator's document submission
type SubmitDocumentInput struct {
	Type      model.DocumentType
	Name      string
	FileURL   string
	ExpiresAt *time.Time
	IPAddress string
	UserAgent string
}

type VerificationService interface {
	DecideRestaurant(reviewerID uint, restaurantID uint, action lifecycle.VerificationAction) (*model.Restaurant, error)
	DecideDocument(reviewerID uint, documentID uint, status model.DocumentVerificationStatus, rejectionReason string) (*model.Restaurant, error)
	SubmitDocument(actorID uint, actorRole model.UserRole, restaurantID uint, input SubmitDocumentInput) (*model.Document, error)
	GetDocuments(actorID uint, actorRole model.UserRole, restaurantID uint) ([]model.Document, error)
	ListQueue(status *model.VerificationStatus, page, pageSize int) (*repository.RestaurantListResult, error)
	PendingCount(ctx context.Context) (int64, error)
	ExpireDocuments(now time.Time) (int, error)
}

type verificationService struct {
	restaurantRepo repository.RestaurantRepository
	hub            *websocket.Hub
}

// NewVerificationService creates the service. hub may be nil when no
// event feed is running (tests, the seed command).
func NewVerificationService(restaurantRepo repository.RestaurantRepository, hub *websocket.Hub) VerificationService {
	return &verificationService{
		restaurantRepo: restaurantRepo,
		hub:            hub,
	}
}

// DecideRestaurant records a restaurant-level verification decision. Any
// status may follow any other; a verified restaurant can later be rejected
// without losing its verified_at stamp.
func (s *verificationService) DecideRestaurant(reviewerID uint, restaurantID uint, action lifecycle.VerificationAction) (*model.Restaurant, error) {
	if !model.ValidVerificationStatus(action.Status) {
		return nil, ErrInvalidVerificationStatus
	}
	for _, docType := range action.RequiredDocuments {
		if !model.ValidDocumentType(docType) {
			return nil, ErrInvalidDocumentType
		}
	}

	restaurant, err := s.restaurantRepo.FindByID(restaurantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		logger.Error("Failed to load restaurant for verification", err, map[string]interface{}{
			"restaurant_id": restaurantID,
		})
		return nil, err
	}

	updated := lifecycle.ApplyVerification(*restaurant, action, time.Now())
	if err := s.restaurantRepo.Update(&updated); err != nil {
		logger.Error("Failed to persist verification decision", err, map[string]interface{}{
			"restaurant_id": restaurantID,
			"status":        action.Status,
		})
		return nil, err
	}

	redis.InvalidatePendingCount(context.Background())
	s.publish(websocket.Event{
		Type:         websocket.EventRestaurantDecided,
		RestaurantID: restaurantID,
		Status:       string(action.Status),
	})

	logger.Info("Restaurant verification decided", map[string]interface{}{
		"restaurant_id": restaurantID,
		"status":        action.Status,
		"reviewer_id":   reviewerID,
	})

	return &updated, nil
}

// DecideDocument records a decision for one document. The parent
// restaurant's verification status is left untouched; promoting the
// restaurant stays a separate decision.
func (s *verificationService) DecideDocument(reviewerID uint, documentID uint, status model.DocumentVerificationStatus, rejectionReason string) (*model.Restaurant, error) {
	if !model.ValidDocumentStatus(status) {
		return nil, ErrInvalidDocumentStatus
	}

	restaurant, err := s.restaurantRepo.FindDocumentOwner(documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		logger.Error("Failed to load document owner", err, map[string]interface{}{
			"document_id": documentID,
		})
		return nil, err
	}

	updated, err := lifecycle.ApplyDocumentDecision(*restaurant, lifecycle.DocumentVerificationAction{
		DocumentID:      documentID,
		Status:          status,
		RejectionReason: rejectionReason,
		ReviewedBy:      &reviewerID,
	}, time.Now())
	if err != nil {
		return nil, ErrDocumentNotFound
	}

	for i := range updated.Documents {
		if updated.Documents[i].ID == documentID {
			if err := s.restaurantRepo.UpdateDocument(&updated.Documents[i]); err != nil {
				logger.Error("Failed to persist document decision", err, map[string]interface{}{
					"document_id": documentID,
				})
				return nil, err
			}
			break
		}
	}

	redis.InvalidatePendingCount(context.Background())
	s.publish(websocket.Event{
		Type:         websocket.EventDocumentDecided,
		RestaurantID: updated.ID,
		DocumentID:   documentID,
		Status:       string(status),
	})

	logger.Info("Document verification decided", map[string]interface{}{
		"restaurant_id": updated.ID,
		"document_id":   documentID,
		"status":        status,
		"reviewer_id":   reviewerID,
	})

	return &updated, nil
}

func (s *verificationService) SubmitDocument(actorID uint, actorRole model.UserRole, restaurantID uint, input SubmitDocumentInput) (*model.Document, error) {
	if !model.ValidDocumentType(input.Type) {
		return nil, ErrInvalidDocumentType
	}

	restaurant, err := s.restaurantRepo.FindByID(restaurantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	if !canManage(actorID, actorRole, restaurant) {
		logger.Warn("Document submission denied", map[string]interface{}{
			"restaurant_id": restaurantID,
			"actor_id":      actorID,
			"actor_role":    actorRole,
		})
		return nil, ErrRestaurantAccessDenied
	}

	document := &model.Document{
		RestaurantID:       restaurantID,
		Type:               input.Type,
		Name:               input.Name,
		FileURL:            input.FileURL,
		VerificationStatus: model.DocumentStatusPending,
		ExpiresAt:          input.ExpiresAt,
		IPAddress:          input.IPAddress,
		UserAgent:          input.UserAgent,
	}

	if err := s.restaurantRepo.CreateDocument(document); err != nil {
		logger.Error("Failed to create document", err, map[string]interface{}{
			"restaurant_id": restaurantID,
			"type":          input.Type,
		})
		return nil, err
	}

	redis.InvalidatePendingCount(context.Background())
	s.publish(websocket.Event{
		Type:         websocket.EventDocumentSubmitted,
		RestaurantID: restaurantID,
		DocumentID:   document.ID,
		Status:       string(document.VerificationStatus),
	})

	logger.Info("Document submitted", map[string]interface{}{
		"restaurant_id": restaurantID,
		"document_id":   document.ID,
		"type":          input.Type,
	})

	return document, nil
}

func (s *verificationService) GetDocuments(actorID uint, actorRole model.UserRole, restaurantID uint) ([]model.Document, error) {
	restaurant, err := s.restaurantRepo.FindByID(restaurantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	if !canManage(actorID, actorRole, restaurant) {
		return nil, ErrRestaurantAccessDenied
	}

	return s.restaurantRepo.FindDocumentsByRestaurantID(restaurantID)
}

// ListQueue pages through restaurants by verification status. With no
// status given it defaults to pending, the reviewer's usual inbox.
func (s *verificationService) ListQueue(status *model.VerificationStatus, page, pageSize int) (*repository.RestaurantListResult, error) {
	if status == nil {
		pending := model.VerificationStatusPending
		status = &pending
	}
	if !model.ValidVerificationStatus(*status) {
		return nil, ErrInvalidVerificationStatus
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	return s.restaurantRepo.FindAll(repository.RestaurantFilter{
		Criteria: lifecycle.FilterCriteria{VerificationStatus: status},
		Page:     page,
		PageSize: pageSize,
	})
}

// PendingCount returns the number of restaurants awaiting any verification:
// restaurant-level pending or under review, or at least one pending document.
func (s *verificationService) PendingCount(ctx context.Context) (int64, error) {
	if count, ok := redis.GetPendingCount(ctx); ok {
		return count, nil
	}

	count, err := s.restaurantRepo.CountAwaitingVerification()
	if err != nil {
		logger.Error("Failed to count pending verifications", err, nil)
		return 0, err
	}

	if err := redis.CachePendingCount(ctx, count, pendingCountCacheTTL); err != nil {
		logger.Warn("Failed to cache pending count", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return count, nil
}

// ExpireDocuments marks approved documents past their validity as expired
// and returns how many were expired across all restaurants.
func (s *verificationService) ExpireDocuments(now time.Time) (int, error) {
	restaurants, err := s.restaurantRepo.FindRestaurantsWithExpiredDocuments(now)
	if err != nil {
		logger.Error("Failed to load restaurants with expired documents", err, nil)
		return 0, err
	}

	total := 0
	for i := range restaurants {
		updated, expired := lifecycle.ExpireDocuments(restaurants[i], now)
		if expired == 0 {
			continue
		}

		for j := range updated.Documents {
			if updated.Documents[j].VerificationStatus != model.DocumentStatusExpired {
				continue
			}
			if updated.Documents[j].UpdatedAt != now {
				continue
			}
			if err := s.restaurantRepo.UpdateDocument(&updated.Documents[j]); err != nil {
				logger.Error("Failed to persist expired document", err, map[string]interface{}{
					"document_id": updated.Documents[j].ID,
				})
				return total, err
			}
		}

		total += expired
		s.publish(websocket.Event{
			Type:         websocket.EventDocumentsExpired,
			RestaurantID: updated.ID,
		})
	}

	if total > 0 {
		redis.InvalidatePendingCount(context.Background())
		logger.Info("Expired documents", map[string]interface{}{
			"count": total,
		})
	}

	return total, nil
}

func (s *verificationService) publish(event websocket.Event) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(event)
}
