package model

import (
	"time"

	"gorm.io/gorm"
)

// DocumentType identifies what kind of compliance document was uploaded
type DocumentType string

const (
	DocumentTypeBusinessLicense       DocumentType = "business_license"
	DocumentTypeFoodSafetyCertificate DocumentType = "food_safety_certificate"
	DocumentTypeTaxCertificate        DocumentType = "tax_certificate"
	DocumentTypeInsuranceCertificate  DocumentType = "insurance_certificate"
	DocumentTypeIdentityProof         DocumentType = "identity_proof"
	DocumentTypeOther                 DocumentType = "other"
)

// ValidDocumentType reports whether t is a known document type
func ValidDocumentType(t DocumentType) bool {
	switch t {
	case DocumentTypeBusinessLicense, DocumentTypeFoodSafetyCertificate,
		DocumentTypeTaxCertificate, DocumentTypeInsuranceCertificate,
		DocumentTypeIdentityProof, DocumentTypeOther:
		return true
	}
	return false
}

// DocumentVerificationStatus is the per-document approval state, independent
// of the parent restaurant's verification status
type DocumentVerificationStatus string

const (
	DocumentStatusPending  DocumentVerificationStatus = "pending"
	DocumentStatusApproved DocumentVerificationStatus = "approved"
	DocumentStatusRejected DocumentVerificationStatus = "rejected"
	DocumentStatusExpired  DocumentVerificationStatus = "expired"
)

// ValidDocumentStatus reports whether s is a known document status
func ValidDocumentStatus(s DocumentVerificationStatus) bool {
	switch s {
	case DocumentStatusPending, DocumentStatusApproved,
		DocumentStatusRejected, DocumentStatusExpired:
		return true
	}
	return false
}

// Document is a compliance document uploaded by an operator during onboarding
type Document struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	RestaurantID uint        `gorm:"not null;index" json:"restaurant_id"`
	Restaurant   *Restaurant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	Type    DocumentType `gorm:"type:varchar(40);not null;index" json:"type"`
	Name    string       `json:"name"`                        // original file name
	FileURL string       `gorm:"type:text;not null" json:"file_url"` // S3 object URL

	VerificationStatus DocumentVerificationStatus `gorm:"type:varchar(20);default:'pending';index" json:"verification_status"`
	RejectionReason    string                     `gorm:"type:text" json:"rejection_reason,omitempty"`
	ExpiresAt          *time.Time                 `json:"expires_at,omitempty"` // certificate validity end
	ReviewedAt         *time.Time                 `json:"reviewed_at,omitempty"`
	ReviewedBy         *uint                      `json:"reviewed_by,omitempty"` // reviewing admin user id

	// Submission tracking
	IPAddress string `gorm:"type:varchar(50)" json:"ip_address,omitempty"`
	UserAgent string `gorm:"type:text" json:"user_agent,omitempty"`
}

func (Document) TableName() string {
	return "documents"
}
