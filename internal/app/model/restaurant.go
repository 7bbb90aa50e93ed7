package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"
)

// StringArray stores a string slice as a JSON column so the same model
// works on PostgreSQL and the SQLite test database
type StringArray []string

// Value implements database/sql/driver.Valuer
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements database/sql.Scanner
func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		if str, isStr := value.(string); isStr {
			bytes = []byte(str)
		} else {
			return errors.New("failed to scan StringArray")
		}
	}

	return json.Unmarshal(bytes, s)
}

// RestaurantStatus is the operational availability state, independent of verification
type RestaurantStatus string

const (
	RestaurantStatusActive            RestaurantStatus = "active"
	RestaurantStatusInactive          RestaurantStatus = "inactive"
	RestaurantStatusSuspended         RestaurantStatus = "suspended"
	RestaurantStatusTemporarilyClosed RestaurantStatus = "temporarily_closed"
)

// ValidRestaurantStatus reports whether s is a known operational status
func ValidRestaurantStatus(s RestaurantStatus) bool {
	switch s {
	case RestaurantStatusActive, RestaurantStatusInactive,
		RestaurantStatusSuspended, RestaurantStatusTemporarilyClosed:
		return true
	}
	return false
}

// VerificationStatus is the onboarding/compliance approval state of the
// restaurant as a business entity
type VerificationStatus string

const (
	VerificationStatusPending            VerificationStatus = "pending"
	VerificationStatusUnderReview        VerificationStatus = "under_review"
	VerificationStatusAdditionalInfo     VerificationStatus = "additional_info_required"
	VerificationStatusVerified           VerificationStatus = "verified"
	VerificationStatusRejected           VerificationStatus = "rejected"
)

// ValidVerificationStatus reports whether s is a known verification status
func ValidVerificationStatus(s VerificationStatus) bool {
	switch s {
	case VerificationStatusPending, VerificationStatusUnderReview,
		VerificationStatusAdditionalInfo, VerificationStatusVerified,
		VerificationStatusRejected:
		return true
	}
	return false
}

// RestaurantMetrics carries read-only aggregates maintained by reporting
// jobs; lifecycle operations never touch these columns
type RestaurantMetrics struct {
	TotalOrders   int64   `gorm:"default:0" json:"total_orders"`
	TotalRevenue  float64 `gorm:"default:0" json:"total_revenue"`
	AverageRating float64 `gorm:"default:0" json:"average_rating"`
	RatingCount   int64   `gorm:"default:0" json:"rating_count"`
}

type Restaurant struct {
	ID          uint     `gorm:"primarykey" json:"id"`
	OwnerID     *uint    `gorm:"index" json:"owner_id"` // operator account (nullable for imported listings)
	Owner       *User    `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"owner,omitempty"`
	Name        string   `gorm:"not null" json:"name"`
	Slug        string   `gorm:"uniqueIndex" json:"slug"` // URL identifier (SEO)
	Description string   `gorm:"type:text" json:"description"`
	OwnerName   string   `json:"owner_name"` // contact person shown on the listing
	Email       string   `gorm:"index" json:"email"`
	PhoneNumber string   `gorm:"type:varchar(30)" json:"phone_number"`
	Address     string   `gorm:"type:text" json:"address"`
	City        string   `gorm:"index;not null" json:"city"`
	District    string   `gorm:"index" json:"district"`

	CuisineTypes StringArray `gorm:"type:text" json:"cuisine_types"`          // e.g. ["korean", "bbq"]
	PriceRange   string      `gorm:"type:varchar(10)" json:"price_range"`     // $, $$, $$$, $$$$
	OpenTime     string      `gorm:"type:varchar(10)" json:"open_time"`       // "09:00"
	CloseTime    string      `gorm:"type:varchar(10)" json:"close_time"`      // "22:00"
	ImageURL     string      `json:"image_url"`

	// Operational status and onboarding verification are independent axes;
	// an active restaurant can still be rejected
	Status             RestaurantStatus   `gorm:"type:varchar(30);default:'inactive';index" json:"status"`
	VerificationStatus VerificationStatus `gorm:"type:varchar(30);default:'pending';index" json:"verification_status"`
	VerificationNotes  string             `gorm:"type:text" json:"verification_notes,omitempty"`
	RequestedDocuments StringArray        `gorm:"type:text" json:"requested_documents,omitempty"` // document types requested on additional_info_required
	VerifiedAt         *time.Time         `json:"verified_at,omitempty"`                          // set on transition into verified, never cleared

	Metrics RestaurantMetrics `gorm:"embedded;embeddedPrefix:metrics_" json:"metrics"`

	Documents []Document        `gorm:"foreignKey:RestaurantID" json:"documents,omitempty"`
	Images    []RestaurantImage `gorm:"foreignKey:RestaurantID" json:"images,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Restaurant) TableName() string {
	return "restaurants"
}

// RestaurantImage is a gallery image; Position keeps the operator's ordering
type RestaurantImage struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	RestaurantID uint      `gorm:"not null;index" json:"restaurant_id"`
	URL          string    `gorm:"type:text;not null" json:"url"`
	Caption      string    `json:"caption,omitempty"`
	Position     int       `gorm:"default:0" json:"position"`
	CreatedAt    time.Time `json:"created_at"`
}

func (RestaurantImage) TableName() string {
	return "restaurant_images"
}

// generateSlug builds a URL slug from the city and restaurant name
func generateSlug(city, name string) string {
	slug := fmt.Sprintf("%s-%s", city, name)

	// Keep letters, digits and hyphens only
	reg := regexp.MustCompile(`[^\p{L}\p{N}-]+`)
	slug = reg.ReplaceAllString(slug, "-")

	// Collapse consecutive hyphens
	reg = regexp.MustCompile(`-+`)
	slug = reg.ReplaceAllString(slug, "-")

	slug = strings.Trim(slug, "-")
	slug = strings.ToLower(slug)

	return slug
}

// BeforeCreate generates a unique slug when none was provided
func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.Slug == "" {
		baseSlug := generateSlug(r.City, r.Name)
		slug := baseSlug

		counter := 1
		for {
			var count int64
			if err := tx.Model(&Restaurant{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
				return err
			}

			if count == 0 {
				break
			}

			counter++
			slug = fmt.Sprintf("%s-%d", baseSlug, counter)
		}

		r.Slug = slug
	}
	return nil
}
