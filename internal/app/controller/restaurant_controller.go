package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yoonsu/baedalgo-backend/internal/app/lifecycle"
	"github.com/yoonsu/baedalgo-backend/internal/app/model"
	"github.com/yoonsu/baedalgo-backend/internal/app/repository"
	"github.com/yoonsu/baedalgo-backend/internal/app/service"
	apperrors "github.com/yoonsu/baedalgo-backend/internal/errors"
	"github.com/yoonsu/baedalgo-backend/internal/middleware"
	"github.com/yoonsu/baedalgo-backend/pkg/logger"
)

type RestaurantController struct {
	restaurantService service.RestaurantService
}

func NewRestaurantController(restaurantService service.RestaurantService) *RestaurantController {
	return &RestaurantController{
		restaurantService: restaurantService,
	}
}

type CreateRestaurantRequest struct {
	Name         string   `json:"name" binding:"required"`
	Description  string   `json:"description"`
	OwnerName    string   `json:"owner_name"`
	Email        string   `json:"email" binding:"omitempty,email"`
	PhoneNumber  string   `json:"phone_number"`
	Address      string   `json:"address"`
	City         string   `json:"city" binding:"required"`
	District     string   `json:"district"`
	CuisineTypes []string `json:"cuisine_types"`
	PriceRange   string   `json:"price_range"`
	OpenTime     string   `json:"open_time"`
	CloseTime    string   `json:"close_time"`
	ImageURL     string   `json:"image_url"`
}

type UpdateRestaurantRequest struct {
	Name         *string   `json:"name"`
	Description  *string   `json:"description"`
	OwnerName    *string   `json:"owner_name"`
	Email        *string   `json:"email" binding:"omitempty,email"`
	PhoneNumber  *string   `json:"phone_number"`
	Address      *string   `json:"address"`
	City         *string   `json:"city"`
	District     *string   `json:"district"`
	CuisineTypes *[]string `json:"cuisine_types"`
	PriceRange   *string   `json:"price_range"`
	OpenTime     *string   `json:"open_time"`
	CloseTime    *string   `json:"close_time"`
	ImageURL     *string   `json:"image_url"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListRestaurants returns a filtered, paginated restaurant listing
// GET /api/v1/restaurants
func (ctrl *RestaurantController) ListRestaurants(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.RestaurantFilter{
		Page:     parseIntQuery(c, "page", 1),
		PageSize: parseIntQuery(c, "limit", 20),
		Criteria: buildFilterCriteria(c),
	}

	result, err := ctrl.restaurantService.ListRestaurants(filter)
	if err != nil {
		log.Error("Failed to list restaurants", err, nil)
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

// GetRestaurant returns one restaurant with its documents and images
// GET /api/v1/restaurants/:id
func (ctrl *RestaurantController) GetRestaurant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	restaurant, err := ctrl.restaurantService.GetRestaurantByID(id)
	if err != nil {
		if errors.Is(err, service.ErrRestaurantNotFound) {
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
			return
		}
		log.Error("Failed to fetch restaurant", err, map[string]interface{}{
			"restaurant_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get restaurant")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurant": restaurant,
	})
}

// GetMyRestaurants lists the restaurants owned by the caller
// GET /api/v1/restaurants/mine
func (ctrl *RestaurantController) GetMyRestaurants(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	restaurants, err := ctrl.restaurantService.GetRestaurantsByOwner(userID)
	if err != nil {
		log.Error("Failed to list owned restaurants", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list restaurants")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurants": restaurants,
	})
}

// CreateRestaurant registers a new restaurant for the calling operator
// POST /api/v1/restaurants
func (ctrl *RestaurantController) CreateRestaurant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid restaurant input", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid restaurant input")
		return
	}

	restaurant, err := ctrl.restaurantService.CreateRestaurant(userID, service.CreateRestaurantInput{
		Name:         req.Name,
		Description:  req.Description,
		OwnerName:    req.OwnerName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
		City:         req.City,
		District:     req.District,
		CuisineTypes: req.CuisineTypes,
		PriceRange:   req.PriceRange,
		OpenTime:     req.OpenTime,
		CloseTime:    req.CloseTime,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		log.Error("Failed to create restaurant", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create restaurant")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Restaurant created",
		"restaurant": restaurant,
	})
}

// UpdateRestaurant updates listing fields on an owned restaurant
// PUT /api/v1/restaurants/:id
func (ctrl *RestaurantController) UpdateRestaurant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	userID, userRole, ok := requireActor(c)
	if !ok {
		return
	}

	var req UpdateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid restaurant input")
		return
	}

	restaurant, err := ctrl.restaurantService.UpdateRestaurant(userID, userRole, id, service.UpdateRestaurantInput{
		Name:         req.Name,
		Description:  req.Description,
		OwnerName:    req.OwnerName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
		City:         req.City,
		District:     req.District,
		CuisineTypes: req.CuisineTypes,
		PriceRange:   req.PriceRange,
		OpenTime:     req.OpenTime,
		CloseTime:    req.CloseTime,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		respondRestaurantError(c, log, err, id, "update restaurant")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Restaurant updated",
		"restaurant": restaurant,
	})
}

// DeleteRestaurant removes an owned restaurant
// DELETE /api/v1/restaurants/:id
func (ctrl *RestaurantController) DeleteRestaurant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	userID, userRole, ok := requireActor(c)
	if !ok {
		return
	}

	if err := ctrl.restaurantService.DeleteRestaurant(userID, userRole, id); err != nil {
		respondRestaurantError(c, log, err, id, "delete restaurant")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Restaurant deleted",
	})
}

// ChangeStatus moves the restaurant to a new operational status
// PATCH /api/v1/restaurants/:id/status
func (ctrl *RestaurantController) ChangeStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	userID, userRole, ok := requireActor(c)
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Status is required")
		return
	}

	restaurant, err := ctrl.restaurantService.ChangeStatus(userID, userRole, id, model.RestaurantStatus(req.Status))
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidStatus, "Unknown restaurant status")
			return
		}
		respondRestaurantError(c, log, err, id, "update restaurant")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Status changed",
		"restaurant": restaurant,
	})
}

// buildFilterCriteria reads listing filters from the query string
func buildFilterCriteria(c *gin.Context) lifecycle.FilterCriteria {
	criteria := lifecycle.FilterCriteria{
		Cuisine:    c.Query("cuisine"),
		PriceRange: c.Query("price_range"),
		City:       c.Query("city"),
		Search:     c.Query("search"),
	}

	if v := c.Query("status"); v != "" {
		status := model.RestaurantStatus(v)
		criteria.Status = &status
	}
	if v := c.Query("verification_status"); v != "" {
		status := model.VerificationStatus(v)
		criteria.VerificationStatus = &status
	}
	if v := c.Query("has_unverified_documents"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			criteria.HasUnverifiedDocuments = &parsed
		}
	}

	return criteria
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	value, err := strconv.Atoi(c.DefaultQuery(key, strconv.Itoa(fallback)))
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid id parameter")
		return 0, false
	}
	return uint(id), true
}

func requireActor(c *gin.Context) (uint, model.UserRole, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return 0, "", false
	}
	userRole, ok := middleware.GetUserRole(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return 0, "", false
	}
	return userID, userRole, true
}

func respondRestaurantError(c *gin.Context, log *logger.Logger, err error, id uint, context string) {
	switch {
	case errors.Is(err, service.ErrRestaurantNotFound):
		apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
	case errors.Is(err, service.ErrRestaurantAccessDenied):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "You do not manage this restaurant")
	default:
		log.Error("Restaurant operation failed", err, map[string]interface{}{
			"restaurant_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}
