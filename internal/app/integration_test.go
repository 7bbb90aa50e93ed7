package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoonsu/baedalgo-backend/internal/app/controller"
	"github.com/yoonsu/baedalgo-backend/internal/app/model"
	"github.com/yoonsu/baedalgo-backend/internal/app/repository"
	"github.com/yoonsu/baedalgo-backend/internal/app/service"
	"github.com/yoonsu/baedalgo-backend/internal/db"
	"github.com/yoonsu/baedalgo-backend/internal/middleware"
	"github.com/yoonsu/baedalgo-backend/pkg/util"
	"gorm.io/gorm"
)

type TestServer struct {
	Router      *gin.Engine
	DB          *gorm.DB
	AuthService service.AuthService
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	restaurantRepo := repository.NewRestaurantRepository(testDB)

	authService := service.NewAuthService(
		userRepo,
		"test-secret",
		15*time.Minute,
		7*24*time.Hour,
	)
	restaurantService := service.NewRestaurantService(restaurantRepo)
	verificationService := service.NewVerificationService(restaurantRepo, nil)

	authController := controller.NewAuthController(authService)
	restaurantController := controller.NewRestaurantController(restaurantService)
	verificationController := controller.NewVerificationController(verificationService)

	authMiddleware := middleware.NewAuthMiddleware("test-secret")

	router := gin.New()

	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	restaurants := router.Group("/api/v1/restaurants")
	{
		restaurants.GET("", restaurantController.ListRestaurants)
		restaurants.POST("",
			authMiddleware.Authenticate(),
			authMiddleware.RequireRole("operator", "admin"),
			restaurantController.CreateRestaurant,
		)
		restaurants.PATCH("/:id/status",
			authMiddleware.Authenticate(),
			authMiddleware.RequireRole("operator", "admin"),
			restaurantController.ChangeStatus,
		)
		restaurants.POST("/:id/documents",
			authMiddleware.Authenticate(),
			authMiddleware.RequireRole("operator", "admin"),
			verificationController.SubmitDocument,
		)
		restaurants.GET("/:id/documents",
			authMiddleware.Authenticate(),
			authMiddleware.RequireRole("operator", "admin"),
			verificationController.GetDocuments,
		)
	}

	admin := router.Group("/api/v1/admin",
		authMiddleware.Authenticate(),
		authMiddleware.RequireRole("admin"),
	)
	{
		admin.GET("/verifications", verificationController.ListQueue)
		admin.GET("/verifications/pending-count", verificationController.PendingCount)
		admin.PATCH("/restaurants/:id/verification", verificationController.DecideRestaurant)
		admin.PATCH("/documents/:id/verification", verificationController.DecideDocument)
	}

	return &TestServer{
		Router:      router,
		DB:          testDB,
		AuthService: authService,
	}
}

func (ts *TestServer) do(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func (ts *TestServer) createAdmin(t *testing.T) string {
	t.Helper()

	hash, err := util.HashPassword("password123")
	require.NoError(t, err)
	admin := &model.User{
		Email:        "admin@baedalgo.com",
		PasswordHash: hash,
		Name:         "Platform Admin",
		Role:         model.RoleAdmin,
	}
	require.NoError(t, ts.DB.Create(admin).Error)

	_, tokens, err := ts.AuthService.Login("admin@baedalgo.com", "password123")
	require.NoError(t, err)
	return tokens.AccessToken
}

func TestRestaurantOnboardingJourney(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	// 1. Operator signs up
	w := ts.do(t, "POST", "/api/v1/auth/register", "", map[string]string{
		"email":    "operator@example.com",
		"password": "password123",
		"name":     "Park Jiho",
		"phone":    "010-1234-5678",
		"role":     "operator",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var registerResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registerResp))
	operatorToken := registerResp["tokens"].(map[string]interface{})["access_token"].(string)

	// 2. Operator registers a restaurant; it starts inactive and unverified
	w = ts.do(t, "POST", "/api/v1/restaurants", operatorToken, map[string]interface{}{
		"name":          "Jiho Kitchen",
		"address":       "42 Teheran-ro",
		"city":          "Seoul",
		"cuisine_types": []string{"korean"},
		"price_range":   "$$",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var createResp struct {
		Restaurant model.Restaurant `json:"restaurant"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &createResp))
	restaurantID := createResp.Restaurant.ID
	assert.Equal(t, model.RestaurantStatusInactive, createResp.Restaurant.Status)
	assert.Equal(t, model.VerificationStatusPending, createResp.Restaurant.VerificationStatus)

	// 3. Operator uploads the business license
	w = ts.do(t, "POST", fmt.Sprintf("/api/v1/restaurants/%d/documents", restaurantID), operatorToken, map[string]interface{}{
		"type":     "business_license",
		"name":     "license.pdf",
		"file_url": "https://files.baedalgo.com/documents/license.pdf",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var docResp struct {
		Document model.Document `json:"document"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &docResp))
	documentID := docResp.Document.ID
	assert.Equal(t, model.DocumentStatusPending, docResp.Document.VerificationStatus)

	// 4. Operator cannot reach the admin queue
	w = ts.do(t, "GET", "/api/v1/admin/verifications", operatorToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken := ts.createAdmin(t)

	// 5. The restaurant shows up in the pending queue and count
	w = ts.do(t, "GET", "/api/v1/admin/verifications", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var queueResp struct {
		Restaurants []model.Restaurant `json:"restaurants"`
		Pagination  struct {
			TotalCount int64 `json:"total_count"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &queueResp))
	assert.Equal(t, int64(1), queueResp.Pagination.TotalCount)

	w = ts.do(t, "GET", "/api/v1/admin/verifications/pending-count", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var countResp struct {
		PendingCount int64 `json:"pending_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &countResp))
	assert.Equal(t, int64(1), countResp.PendingCount)

	// 6. Admin approves the document
	w = ts.do(t, "PATCH", fmt.Sprintf("/api/v1/admin/documents/%d/verification", documentID), adminToken, map[string]interface{}{
		"status": "approved",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// 7. Admin asks for more info, then verifies the restaurant
	w = ts.do(t, "PATCH", fmt.Sprintf("/api/v1/admin/restaurants/%d/verification", restaurantID), adminToken, map[string]interface{}{
		"status":             "additional_info_required",
		"notes":              "Please provide the tax certificate as well",
		"required_documents": []string{"tax_certificate"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var decideResp struct {
		Restaurant model.Restaurant `json:"restaurant"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decideResp))
	assert.Equal(t, model.VerificationStatusAdditionalInfo, decideResp.Restaurant.VerificationStatus)
	assert.Equal(t, model.StringArray{"tax_certificate"}, decideResp.Restaurant.RequestedDocuments)
	assert.Nil(t, decideResp.Restaurant.VerifiedAt)

	w = ts.do(t, "PATCH", fmt.Sprintf("/api/v1/admin/restaurants/%d/verification", restaurantID), adminToken, map[string]interface{}{
		"status": "verified",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decideResp))
	assert.Equal(t, model.VerificationStatusVerified, decideResp.Restaurant.VerificationStatus)
	require.NotNil(t, decideResp.Restaurant.VerifiedAt)

	// 8. The queue is empty once the restaurant is verified
	w = ts.do(t, "GET", "/api/v1/admin/verifications/pending-count", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &countResp))
	assert.Equal(t, int64(0), countResp.PendingCount)

	// 9. Operator activates the listing
	w = ts.do(t, "PATCH", fmt.Sprintf("/api/v1/restaurants/%d/status", restaurantID), operatorToken, map[string]string{
		"status": "active",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// 10. The public listing now shows it as active and verified
	w = ts.do(t, "GET", "/api/v1/restaurants?status=active&verification_status=verified", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listResp struct {
		Restaurants []model.Restaurant `json:"restaurants"`
		Pagination  struct {
			TotalCount int64 `json:"total_count"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	require.Equal(t, int64(1), listResp.Pagination.TotalCount)
	assert.Equal(t, "Jiho Kitchen", listResp.Restaurants[0].Name)
}

func TestVerificationRejectionFlow(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	w := ts.do(t, "POST", "/api/v1/auth/register", "", map[string]string{
		"email":    "rejected-op@example.com",
		"password": "password123",
		"name":     "Lee Haneul",
		"role":     "operator",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var registerResp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registerResp))
	operatorToken := registerResp["tokens"].(map[string]interface{})["access_token"].(string)

	w = ts.do(t, "POST", "/api/v1/restaurants", operatorToken, map[string]interface{}{
		"name":    "Shady Snacks",
		"address": "9 Alley-gil",
		"city":    "Incheon",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var createResp struct {
		Restaurant model.Restaurant `json:"restaurant"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &createResp))

	adminToken := ts.createAdmin(t)

	w = ts.do(t, "PATCH", fmt.Sprintf("/api/v1/admin/restaurants/%d/verification", createResp.Restaurant.ID), adminToken, map[string]interface{}{
		"status": "rejected",
		"notes":  "Business registration could not be confirmed",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var decideResp struct {
		Restaurant model.Restaurant `json:"restaurant"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decideResp))
	assert.Equal(t, model.VerificationStatusRejected, decideResp.Restaurant.VerificationStatus)
	assert.Equal(t, "Business registration could not be confirmed", decideResp.Restaurant.VerificationNotes)
	assert.Nil(t, decideResp.Restaurant.VerifiedAt)

	// unknown status is refused
	w = ts.do(t, "PATCH", fmt.Sprintf("/api/v1/admin/restaurants/%d/verification", createResp.Restaurant.ID), adminToken, map[string]interface{}{
		"status": "super_verified",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
