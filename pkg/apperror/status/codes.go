package status

// ErrorCode classifies API errors in a stable, numeric way.
type ErrorCode int

// Reserved ranges by domain:
//   1000-1999: Auth
//   2000-2999: Content
//   3000-3999: Image processing
//   4000-4999: Search

// Auth (1000-1999)
const (
	AuthInvalidRequestBody ErrorCode = 1000 + iota
	AuthMissingCredentials
	AuthInvalidCredentials
	AuthInactiveAccount
	AuthDuplicateUser
	AuthTokenMissing
	AuthTokenInvalid
	AuthInternal ErrorCode = 1500
)

// Content (2000-2999)
const (
	ContentInvalidRequestBody ErrorCode = 2000 + iota
	ContentMissingParams
	ContentNameRequired
	ContentNotFound
	ContentAccessDenied
	ContentInternal ErrorCode = 2500
)

// Image processing (3000-3999)
const (
	ImageMissingFile ErrorCode = 3000 + iota
	ImageUnsupportedType
	ImageTooLarge
	ImageInvalidPayload
	ImageFileNotFound
	ImageInternal ErrorCode = 3500
)

// Search (4000-4999)
const (
	SearchMissingQuery ErrorCode = 4000 + iota
	SearchInternal     ErrorCode = 4500
)

// SuccessCode mirrors the shape of ErrorCode for success envelopes.
type SuccessCode int

const (
	OK      SuccessCode = 200
	Created SuccessCode = 201
)
