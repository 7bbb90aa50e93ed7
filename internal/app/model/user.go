package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleCustomer  UserRole = "customer"  // ordering customer
	RoleOperator  UserRole = "operator"  // restaurant operator
	RoleAffiliate UserRole = "affiliate" // affiliate partner
	RoleAdmin     UserRole = "admin"     // platform staff
)

// ValidRole reports whether the role is one of the registerable roles
func ValidRole(role UserRole) bool {
	switch role {
	case RoleCustomer, RoleOperator, RoleAffiliate, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Phone        string         `json:"phone"`
	ProfileImage string         `json:"profile_image"`
	Role         UserRole       `gorm:"type:varchar(20);default:'customer'" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Restaurants []Restaurant `gorm:"foreignKey:OwnerID" json:"restaurants,omitempty"` // restaurants owned by an operator
}

func (User) TableName() string {
	return "users"
}
