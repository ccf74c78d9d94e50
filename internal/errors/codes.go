package errors

// Error codes returned in the "error" field of every error response.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map these to display text.

const (
	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // malformed body or query
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // non-numeric or zero id
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // unparsable form
	ValidationRequired      = "VALIDATION_REQUIRED"       // missing mandatory field

	// ==================== Items (ITEM_) ====================
	ItemNotFound = "ITEM_NOT_FOUND"

	// ==================== Tags (TAG_) ====================
	TagInvalid  = "TAG_INVALID"  // value outside the vocabulary
	TagRequired = "TAG_REQUIRED" // empty tag list

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType     = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge        = "UPLOAD_FILE_TOO_LARGE"
	UploadFileRequired        = "UPLOAD_FILE_REQUIRED"
	UploadFailed              = "UPLOAD_FAILED"
	UploadPresignNotSupported = "UPLOAD_PRESIGN_NOT_SUPPORTED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
