package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoonsu/baedalgo-backend/internal/app/lifecycle"
	"github.com/yoonsu/baedalgo-backend/internal/app/model"
	"github.com/yoonsu/baedalgo-backend/internal/db"
	"gorm.io/gorm"
)

func setupRepoTestDB(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func seedRestaurant(t *testing.T, testDB *gorm.DB, r model.Restaurant) *model.Restaurant {
	require.NoError(t, testDB.Create(&r).Error)
	return &r
}

func TestRestaurantRepository_FindAll_Filters(t *testing.T) {
	testDB := setupRepoTestDB(t)
	repo := NewRestaurantRepository(testDB)

	seedRestaurant(t, testDB, model.Restaurant{
		Name:               "Seoul BBQ House",
		City:               "Seoul",
		Address:            "1 Gangnam-daero",
		CuisineTypes:       model.StringArray{"korean", "bbq"},
		PriceRange:         "$$",
		Status:             model.RestaurantStatusActive,
		VerificationStatus: model.VerificationStatusVerified,
	})
	seedRestaurant(t, testDB, model.Restaurant{
		Name:               "Busan Noodle Bar",
		City:               "Busan",
		Address:            "2 Haeundae-ro",
		OwnerName:          "Kim Minji",
		CuisineTypes:       model.StringArray{"korean", "noodles"},
		PriceRange:         "$",
		Status:             model.RestaurantStatusActive,
		VerificationStatus: model.VerificationStatusPending,
	})
	seedRestaurant(t, testDB, model.Restaurant{
		Name:               "Pasta Palace",
		City:               "Seoul",
		Address:            "3 Itaewon-ro",
		Description:        "Fresh handmade pasta",
		CuisineTypes:       model.StringArray{"italian"},
		PriceRange:         "$$$",
		Status:             model.RestaurantStatusInactive,
		VerificationStatus: model.VerificationStatusPending,
	})

	t.Run("no filter returns everything", func(t *testing.T) {
		result, err := repo.FindAll(RestaurantFilter{Page: 1, PageSize: 20})
		require.NoError(t, err)
		assert.Equal(t, int64(3), result.TotalCount)
		assert.Len(t, result.Restaurants, 3)
	})

	t.Run("city filter is case-insensitive substring", func(t *testing.T) {
		result, err := repo.FindAll(RestaurantFilter{
			Criteria: lifecycle.FilterCriteria{City: "seo"},
			Page:     1, PageSize: 20,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.TotalCount)
		for _, r := range result.Restaurants {
			assert.Equal(t, "Seoul", r.City)
		}
	})

	t.Run("cuisine matches a single array element", func(t *testing.T) {
		result, err := repo.FindAll(RestaurantFilter{
			Criteria: lifecycle.FilterCriteria{Cuisine: "BBQ"},
			Page:     1, PageSize: 20,
		})
		require.NoError(t, err)
		require.Equal(t, int64(1), result.TotalCount)
		assert.Equal(t, "Seoul BBQ House", result.Restaurants[0].Name)
	})

	t.Run("search covers owner name", func(t *testing.T) {
		result, err := repo.FindAll(RestaurantFilter{
			Criteria: lifecycle.FilterCriteria{Search: "minji"},
			Page:     1, PageSize: 20,
		})
		require.NoError(t, err)
		require.Equal(t, int64(1), result.TotalCount)
		assert.Equal(t, "Busan Noodle Bar", result.Restaurants[0].Name)
	})

	t.Run("search covers description", func(t *testing.T) {
		result, err := repo.FindAll(RestaurantFilter{
			Criteria: lifecycle.FilterCriteria{Search: "handmade"},
			Page:     1, PageSize: 20,
		})
		require.NoError(t, err)
		require.Equal(t, int64(1), result.TotalCount)
		assert.Equal(t, "Pasta Palace", result.Restaurants[0].Name)
	})

	t.Run("criteria combine with AND", func(t *testing.T) {
		status := model.RestaurantStatusActive
		verification := model.VerificationStatusPending
		result, err := repo.FindAll(RestaurantFilter{
			Criteria: lifecycle.FilterCriteria{
				Status:             &status,
				VerificationStatus: &verification,
			},
			Page: 1, PageSize: 20,
		})
		require.NoError(t, err)
		require.Equal(t, int64(1), result.TotalCount)
		assert.Equal(t, "Busan Noodle Bar", result.Restaurants[0].Name)
	})

	t.Run("price range is an exact match", func(t *testing.T) {
		result, err := repo.FindAll(RestaurantFilter{
			Criteria: lifecycle.FilterCriteria{PriceRange: "$$$"},
			Page:     1, PageSize: 20,
		})
		require.NoError(t, err)
		require.Equal(t, int64(1), result.TotalCount)
		assert.Equal(t, "Pasta Palace", result.Restaurants[0].Name)
	})
}

func TestRestaurantRepository_FindAll_UnverifiedDocumentsFilter(t *testing.T) {
	testDB := setupRepoTestDB(t)
	repo := NewRestaurantRepository(testDB)

	withPending := seedRestaurant(t, testDB, model.Restaurant{
		Name: "Docs Pending", City: "Seoul", Address: "10 Mapo-daero",
	})
	clean := seedRestaurant(t, testDB, model.Restaurant{
		Name: "Docs Clean", City: "Seoul", Address: "11 Mapo-daero",
	})

	require.NoError(t, testDB.Create(&model.Document{
		RestaurantID:       withPending.ID,
		Type:               model.DocumentTypeBusinessLicense,
		FileURL:            "https://files.example.com/license.pdf",
		VerificationStatus: model.DocumentStatusPending,
	}).Error)
	require.NoError(t, testDB.Create(&model.Document{
		RestaurantID:       clean.ID,
		Type:               model.DocumentTypeBusinessLicense,
		FileURL:            "https://files.example.com/license2.pdf",
		VerificationStatus: model.DocumentStatusApproved,
	}).Error)

	unverified := true
	result, err := repo.FindAll(RestaurantFilter{
		Criteria: lifecycle.FilterCriteria{HasUnverifiedDocuments: &unverified},
		Page:     1, PageSize: 20,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), result.TotalCount)
	assert.Equal(t, "Docs Pending", result.Restaurants[0].Name)

	unverified = false
	result, err = repo.FindAll(RestaurantFilter{
		Criteria: lifecycle.FilterCriteria{HasUnverifiedDocuments: &unverified},
		Page:     1, PageSize: 20,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), result.TotalCount)
	assert.Equal(t, "Docs Clean", result.Restaurants[0].Name)
}

func TestRestaurantRepository_FindAll_Pagination(t *testing.T) {
	testDB := setupRepoTestDB(t)
	repo := NewRestaurantRepository(testDB)

	for i := 1; i <= 12; i++ {
		seedRestaurant(t, testDB, model.Restaurant{
			Name:    fmt.Sprintf("Restaurant %02d", i),
			City:    "Seoul",
			Address: fmt.Sprintf("%d Sejong-daero", i),
		})
	}

	result, err := repo.FindAll(RestaurantFilter{Page: 2, PageSize: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(12), result.TotalCount)
	assert.Len(t, result.Restaurants, 5)
	assert.Equal(t, 2, result.Page)
	// name-ordered, so page 2 starts at the sixth restaurant
	assert.Equal(t, "Restaurant 06", result.Restaurants[0].Name)

	result, err = repo.FindAll(RestaurantFilter{Page: 3, PageSize: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(12), result.TotalCount)
	assert.Len(t, result.Restaurants, 2)
}

func TestRestaurantRepository_CountAwaitingVerification(t *testing.T) {
	testDB := setupRepoTestDB(t)
	repo := NewRestaurantRepository(testDB)

	// pending restaurant, no documents
	seedRestaurant(t, testDB, model.Restaurant{
		Name: "Pending Place", City: "Seoul", Address: "1 A-ro",
		VerificationStatus: model.VerificationStatusPending,
	})
	// verified restaurant with a stray pending document still counts
	verifiedWithDoc := seedRestaurant(t, testDB, model.Restaurant{
		Name: "Verified With Doc", City: "Seoul", Address: "2 A-ro",
		VerificationStatus: model.VerificationStatusVerified,
	})
	require.NoError(t, testDB.Create(&model.Document{
		RestaurantID:       verifiedWithDoc.ID,
		Type:               model.DocumentTypeTaxCertificate,
		FileURL:            "https://files.example.com/tax.pdf",
		VerificationStatus: model.DocumentStatusPending,
	}).Error)
	// neither axis awaiting
	seedRestaurant(t, testDB, model.Restaurant{
		Name: "Verified Clean", City: "Seoul", Address: "3 A-ro",
		VerificationStatus: model.VerificationStatusVerified,
	})
	seedRestaurant(t, testDB, model.Restaurant{
		Name: "Rejected Place", City: "Seoul", Address: "4 A-ro",
		VerificationStatus: model.VerificationStatusRejected,
	})

	count, err := repo.CountAwaitingVerification()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRestaurantRepository_BulkCreate(t *testing.T) {
	testDB := setupRepoTestDB(t)
	repo := NewRestaurantRepository(testDB)

	restaurants := make([]model.Restaurant, 0, 7)
	for i := 1; i <= 7; i++ {
		restaurants = append(restaurants, model.Restaurant{
			Name:    fmt.Sprintf("Imported %d", i),
			Slug:    fmt.Sprintf("seoul-imported-%d", i),
			City:    "Seoul",
			Address: fmt.Sprintf("%d Import-ro", i),
			Status:  model.RestaurantStatusInactive,
		})
	}

	require.NoError(t, repo.BulkCreate(restaurants, 3))

	var count int64
	require.NoError(t, testDB.Model(&model.Restaurant{}).Count(&count).Error)
	assert.Equal(t, int64(7), count)
}

func TestRestaurantRepository_FindDocumentOwner(t *testing.T) {
	testDB := setupRepoTestDB(t)
	repo := NewRestaurantRepository(testDB)

	restaurant := seedRestaurant(t, testDB, model.Restaurant{
		Name: "Owner Lookup", City: "Seoul", Address: "5 B-ro",
	})
	doc := model.Document{
		RestaurantID:       restaurant.ID,
		Type:               model.DocumentTypeBusinessLicense,
		FileURL:            "https://files.example.com/license.pdf",
		VerificationStatus: model.DocumentStatusPending,
	}
	require.NoError(t, testDB.Create(&doc).Error)

	found, err := repo.FindDocumentOwner(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, restaurant.ID, found.ID)
	require.NotEmpty(t, found.Documents)

	_, err = repo.FindDocumentOwner(99999)
	assert.Error(t, err)
}

func TestRestaurantRepository_FindRestaurantsWithExpiredDocuments(t *testing.T) {
	testDB := setupRepoTestDB(t)
	repo := NewRestaurantRepository(testDB)

	now := time.Now()
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	expired := seedRestaurant(t, testDB, model.Restaurant{
		Name: "Has Expired Doc", City: "Seoul", Address: "6 C-ro",
	})
	require.NoError(t, testDB.Create(&model.Document{
		RestaurantID:       expired.ID,
		Type:               model.DocumentTypeInsuranceCertificate,
		FileURL:            "https://files.example.com/insurance.pdf",
		VerificationStatus: model.DocumentStatusApproved,
		ExpiresAt:          &past,
	}).Error)

	valid := seedRestaurant(t, testDB, model.Restaurant{
		Name: "Still Valid", City: "Seoul", Address: "7 C-ro",
	})
	require.NoError(t, testDB.Create(&model.Document{
		RestaurantID:       valid.ID,
		Type:               model.DocumentTypeInsuranceCertificate,
		FileURL:            "https://files.example.com/insurance2.pdf",
		VerificationStatus: model.DocumentStatusApproved,
		ExpiresAt:          &future,
	}).Error)

	results, err := repo.FindRestaurantsWithExpiredDocuments(now)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, expired.ID, results[0].ID)
}
