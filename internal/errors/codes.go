package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// Clients map messages from these codes.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // token expired
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // malformed or forged token
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // token logged out
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // duplicate email

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // no access
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // role missing from context
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"     // admin capability required

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // invalid payload or parameters
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // malformed identifier
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // malformed body
	ValidationRequired      = "VALIDATION_REQUIRED"       // required field missing

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // no such resource
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // duplicate unique value
	ResourceConflict      = "RESOURCE_CONFLICT"       // state conflict

	// ==================== Pagination (PAGE_) ====================
	PageInvalid = "PAGE_INVALID" // page outside result range

	// ==================== Cart (CART_) ====================
	CartInsufficientStock = "CART_INSUFFICIENT_STOCK" // quantity over stock
	CartProductInactive   = "CART_PRODUCT_INACTIVE"   // product not purchasable

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // content type rejected
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"    // file too large
	UploadFailed          = "UPLOAD_FAILED"            // presign failed

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // server error
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB error
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // dependency unavailable
)
