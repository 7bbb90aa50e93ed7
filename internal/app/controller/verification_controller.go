package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yoonsu/baedalgo-backend/internal/app/lifecycle"
	"github.com/yoonsu/baedalgo-backend/internal/app/model"
	"github.com/yoonsu/baedalgo-backend/internal/app/service"
	apperrors "github.com/yoonsu/baedalgo-backend/internal/errors"
	"github.com/yoonsu/baedalgo-backend/internal/middleware"
)

type VerificationController struct {
	verificationService service.VerificationService
}

func NewVerificationController(verificationService service.VerificationService) *VerificationController {
	return &VerificationController{
		verificationService: verificationService,
	}
}

type DecideRestaurantRequest struct {
	Status            string   `json:"status" binding:"required"`
	Notes             string   `json:"notes"`
	RequiredDocuments []string `json:"required_documents"`
}

type DecideDocumentRequest struct {
	Status          string `json:"status" binding:"required"`
	RejectionReason string `json:"rejection_reason"`
}

type SubmitDocumentRequest struct {
	Type      string     `json:"type" binding:"required"`
	Name      string     `json:"name" binding:"required"`
	FileURL   string     `json:"file_url" binding:"required,url"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// DecideRestaurant records a restaurant-level verification decision
// PATCH /api/v1/admin/restaurants/:id/verification
func (ctrl *VerificationController) DecideRestaurant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	reviewerID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	var req DecideRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid verification input")
		return
	}

	requiredDocs := make([]model.DocumentType, 0, len(req.RequiredDocuments))
	for _, d := range req.RequiredDocuments {
		requiredDocs = append(requiredDocs, model.DocumentType(d))
	}

	restaurant, err := ctrl.verificationService.DecideRestaurant(reviewerID, id, lifecycle.VerificationAction{
		Status:            model.VerificationStatus(req.Status),
		Notes:             req.Notes,
		RequiredDocuments: requiredDocs,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRestaurantNotFound):
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
		case errors.Is(err, service.ErrInvalidVerificationStatus):
			apperrors.BadRequest(c, apperrors.VerificationInvalidStatus, "Unknown verification status")
		case errors.Is(err, service.ErrInvalidDocumentType):
			apperrors.BadRequest(c, apperrors.VerificationInvalidDocType, "Unknown document type")
		default:
			log.Error("Verification decision failed", err, map[string]interface{}{
				"restaurant_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "verification decision")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Verification decision recorded",
		"restaurant": restaurant,
	})
}

// DecideDocument records a decision for a single document
// PATCH /api/v1/admin/documents/:id/verification
func (ctrl *VerificationController) DecideDocument(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	reviewerID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	var req DecideDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid document decision input")
		return
	}

	restaurant, err := ctrl.verificationService.DecideDocument(reviewerID, id, model.DocumentVerificationStatus(req.Status), req.RejectionReason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDocumentNotFound):
			apperrors.NotFound(c, apperrors.VerificationDocumentNotFound, "Document not found")
		case errors.Is(err, service.ErrInvalidDocumentStatus):
			apperrors.BadRequest(c, apperrors.VerificationInvalidStatus, "Unknown document status")
		default:
			log.Error("Document decision failed", err, map[string]interface{}{
				"document_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "verification decision")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Document decision recorded",
		"restaurant": restaurant,
	})
}

// SubmitDocument uploads a compliance document for review
// POST /api/v1/restaurants/:id/documents
func (ctrl *VerificationController) SubmitDocument(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	userID, userRole, ok := requireActor(c)
	if !ok {
		return
	}

	var req SubmitDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid document input")
		return
	}

	document, err := ctrl.verificationService.SubmitDocument(userID, userRole, id, service.SubmitDocumentInput{
		Type:      model.DocumentType(req.Type),
		Name:      req.Name,
		FileURL:   req.FileURL,
		ExpiresAt: req.ExpiresAt,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRestaurantNotFound):
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
		case errors.Is(err, service.ErrRestaurantAccessDenied):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "You do not manage this restaurant")
		case errors.Is(err, service.ErrInvalidDocumentType):
			apperrors.BadRequest(c, apperrors.VerificationInvalidDocType, "Unknown document type")
		default:
			log.Error("Document submission failed", err, map[string]interface{}{
				"restaurant_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create document")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Document submitted for review",
		"document": document,
	})
}

// GetDocuments lists a restaurant's compliance documents
// GET /api/v1/restaurants/:id/documents
func (ctrl *VerificationController) GetDocuments(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	userID, userRole, ok := requireActor(c)
	if !ok {
		return
	}

	documents, err := ctrl.verificationService.GetDocuments(userID, userRole, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRestaurantNotFound):
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
		case errors.Is(err, service.ErrRestaurantAccessDenied):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "You do not manage this restaurant")
		default:
			log.Error("Failed to list documents", err, map[string]interface{}{
				"restaurant_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list documents")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": documents,
	})
}

// ListQueue pages through restaurants by verification status
// GET /api/v1/admin/verifications
func (ctrl *VerificationController) ListQueue(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var status *model.VerificationStatus
	if v := c.Query("status"); v != "" {
		s := model.VerificationStatus(v)
		status = &s
	}

	page := parseIntQuery(c, "page", 1)
	limit := parseIntQuery(c, "limit", 20)

	result, err := ctrl.verificationService.ListQueue(status, page, limit)
	if err != nil {
		if errors.Is(err, service.ErrInvalidVerificationStatus) {
			apperrors.BadRequest(c, apperrors.VerificationInvalidStatus, "Unknown verification status")
			return
		}
		log.Error("Failed to list verification queue", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list restaurants")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurants": result.Restaurants,
		"pagination": gin.H{
			"page":        result.Page,
			"limit":       result.PageSize,
			"total_count": result.TotalCount,
		},
	})
}

// PendingCount returns the dashboard badge count of restaurants awaiting
// any verification
// GET /api/v1/admin/verifications/pending-count
func (ctrl *VerificationController) PendingCount(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	count, err := ctrl.verificationService.PendingCount(c.Request.Context())
	if err != nil {
		log.Error("Failed to count pending verifications", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "pending count")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pending_count": count,
	})
}
