// Package lifecycle implements the restaurant onboarding workflow rules as
// pure functions over entity snapshots. Callers load a snapshot through a
// repository, apply a function, and persist the returned value; concurrency
// and storage are entirely the caller's concern.
package lifecycle

import (
	"errors"
	"strings"
	"time"

	"github.com/yoonsu/baedalgo-backend/internal/app/model"
)

var ErrDocumentNotFound = errors.New("document not found in restaurant")

// VerificationAction is an operator command deciding a restaurant's
// verification status
type VerificationAction struct {
	Status            model.VerificationStatus
	Notes             string
	RequiredDocuments []model.DocumentType // meaningful when Status is additional_info_required
}

// DocumentVerificationAction is an operator command deciding a single
// document's status
type DocumentVerificationAction struct {
	DocumentID      uint
	Status          model.DocumentVerificationStatus
	RejectionReason string
	ReviewedBy      *uint
}

// ChangeStatus sets the operational status. Any status may follow any other;
// the workflow deliberately enforces no transition table.
func ChangeStatus(r model.Restaurant, status model.RestaurantStatus, now time.Time) model.Restaurant {
	r.Status = status
	r.UpdatedAt = now
	return r
}

// ApplyVerification sets the restaurant-level verification status. The five
// states form a free transition graph with no terminal state: a verified
// restaurant can later be rejected. VerifiedAt is stamped only on a
// transition into verified and is never cleared afterwards.
func ApplyVerification(r model.Restaurant, action VerificationAction, now time.Time) model.Restaurant {
	r.VerificationStatus = action.Status
	r.VerificationNotes = action.Notes

	r.RequestedDocuments = nil
	if len(action.RequiredDocuments) > 0 {
		docs := make(model.StringArray, 0, len(action.RequiredDocuments))
		for _, d := range action.RequiredDocuments {
			docs = append(docs, string(d))
		}
		r.RequestedDocuments = docs
	}

	if action.Status == model.VerificationStatusVerified {
		verifiedAt := now
		r.VerifiedAt = &verifiedAt
	}

	r.UpdatedAt = now
	return r
}

// ApplyDocumentDecision decides a single document inside the restaurant.
// Only the targeted document changes; the parent's verification status is
// not recomputed (promoting a restaurant stays a separate admin decision).
// The rejection reason is stored as given even when the status is not
// rejected, matching the decision workflow's permissive writes.
func ApplyDocumentDecision(r model.Restaurant, action DocumentVerificationAction, now time.Time) (model.Restaurant, error) {
	idx := -1
	for i := range r.Documents {
		if r.Documents[i].ID == action.DocumentID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return r, ErrDocumentNotFound
	}

	// Copy the document list so the caller's snapshot is untouched
	docs := make([]model.Document, len(r.Documents))
	copy(docs, r.Documents)

	docs[idx].VerificationStatus = action.Status
	docs[idx].RejectionReason = action.RejectionReason
	docs[idx].ReviewedBy = action.ReviewedBy
	reviewedAt := now
	docs[idx].ReviewedAt = &reviewedAt
	docs[idx].UpdatedAt = now

	r.Documents = docs
	r.UpdatedAt = now
	return r, nil
}

// ExpireDocuments marks approved documents whose validity ended before now
// as expired, returning the updated snapshot and how many were expired.
func ExpireDocuments(r model.Restaurant, now time.Time) (model.Restaurant, int) {
	expired := 0
	var docs []model.Document
	for i := range r.Documents {
		doc := r.Documents[i]
		if doc.VerificationStatus == model.DocumentStatusApproved &&
			doc.ExpiresAt != nil && doc.ExpiresAt.Before(now) {
			if docs == nil {
				docs = make([]model.Document, len(r.Documents))
				copy(docs, r.Documents)
			}
			docs[i].VerificationStatus = model.DocumentStatusExpired
			docs[i].UpdatedAt = now
			expired++
		}
	}
	if expired > 0 {
		r.Documents = docs
		r.UpdatedAt = now
	}
	return r, expired
}

// IsAwaitingAnyVerification reports whether the restaurant still needs
// reviewer attention: restaurant-level verification pending or under review,
// OR any document pending. The disjunction is deliberate; a fully verified
// restaurant with one stray pending document still counts.
func IsAwaitingAnyVerification(r model.Restaurant) bool {
	if r.VerificationStatus == model.VerificationStatusPending ||
		r.VerificationStatus == model.VerificationStatusUnderReview {
		return true
	}
	for i := range r.Documents {
		if r.Documents[i].VerificationStatus == model.DocumentStatusPending {
			return true
		}
	}
	return false
}

// PendingVerificationCount counts restaurants awaiting any verification
func PendingVerificationCount(restaurants []model.Restaurant) int {
	count := 0
	for i := range restaurants {
		if IsAwaitingAnyVerification(restaurants[i]) {
			count++
		}
	}
	return count
}

// HasUnverifiedDocuments reports whether any document is pending or rejected
func HasUnverifiedDocuments(r model.Restaurant) bool {
	for i := range r.Documents {
		switch r.Documents[i].VerificationStatus {
		case model.DocumentStatusPending, model.DocumentStatusRejected:
			return true
		}
	}
	return false
}

// FilterCriteria narrows a restaurant listing. Every provided field must
// match (logical AND); zero values mean "no constraint".
type FilterCriteria struct {
	Status                 *model.RestaurantStatus
	VerificationStatus     *model.VerificationStatus
	Cuisine                string
	PriceRange             string
	City                   string // case-insensitive substring
	Search                 string // case-insensitive over name/description/owner name/email
	HasUnverifiedDocuments *bool
}

// Matches reports whether the restaurant satisfies every provided criterion
func (c FilterCriteria) Matches(r model.Restaurant) bool {
	if c.Status != nil && r.Status != *c.Status {
		return false
	}
	if c.VerificationStatus != nil && r.VerificationStatus != *c.VerificationStatus {
		return false
	}
	if c.Cuisine != "" {
		found := false
		for _, cuisine := range r.CuisineTypes {
			if strings.EqualFold(cuisine, c.Cuisine) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if c.PriceRange != "" && r.PriceRange != c.PriceRange {
		return false
	}
	if c.City != "" && !strings.Contains(strings.ToLower(r.City), strings.ToLower(c.City)) {
		return false
	}
	if c.Search != "" {
		needle := strings.ToLower(c.Search)
		haystack := strings.ToLower(r.Name + " " + r.Description + " " + r.OwnerName + " " + r.Email)
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	if c.HasUnverifiedDocuments != nil && HasUnverifiedDocuments(r) != *c.HasUnverifiedDocuments {
		return false
	}
	return true
}

// Filter applies the criteria then paginates, returning the page and the
// total count after filtering and before pagination. Pages start at 1.
func Filter(restaurants []model.Restaurant, criteria FilterCriteria, page, limit int) ([]model.Restaurant, int) {
	matched := make([]model.Restaurant, 0, len(restaurants))
	for i := range restaurants {
		if criteria.Matches(restaurants[i]) {
			matched = append(matched, restaurants[i])
		}
	}

	total := len(matched)

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		return matched, total
	}

	start := (page - 1) * limit
	if start >= total {
		return []model.Restaurant{}, total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total
}
