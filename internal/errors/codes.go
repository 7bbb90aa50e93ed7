package errors

// Error code constants
// Format: CATEGORY_SPECIFIC_DETAIL
// The front-end consoles map these codes to user-facing messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // token expired
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // malformed or tampered token
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // token blacklisted after logout
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // duplicate email on registration
	AuthInvalidRole        = "AUTH_INVALID_ROLE"        // unknown registration role

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // no access to this resource
	AuthzAccessDenied = "AUTHZ_ACCESS_DENIED"  // no permission for this operation
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // role missing from context
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"     // admin-only operation
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"     // restaurant owner only

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // malformed request body
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // non-numeric id parameter
	ValidationInvalidStatus = "VALIDATION_INVALID_STATUS" // unknown status value
	ValidationRequired      = "VALIDATION_REQUIRED"       // required field missing

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // referenced entity missing
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // duplicate entity
	ResourceConflict      = "RESOURCE_CONFLICT"       // conflicting state

	// ==================== Restaurant (RESTAURANT_) ====================
	RestaurantNotFound = "RESTAURANT_NOT_FOUND" // restaurant missing

	// ==================== Verification (VERIFICATION_) ====================
	VerificationDocumentNotFound = "VERIFICATION_DOCUMENT_NOT_FOUND" // document missing
	VerificationInvalidStatus    = "VERIFICATION_INVALID_STATUS"     // unknown verification status
	VerificationInvalidDocType   = "VERIFICATION_INVALID_DOC_TYPE"   // unknown document type

	// ==================== User (USER_) ====================
	UserNotFound = "USER_NOT_FOUND" // user missing

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // disallowed content type
	UploadFailed          = "UPLOAD_FAILED"            // presign or upload failure

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // unexpected failure
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // database failure
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // upstream service failure
)
