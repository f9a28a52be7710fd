package constants

// Pagination
const (
	DefaultPageSize = 100
	MaxPageSize     = 1000
)

// Context keys
const (
	ContextKeyRequestID = "request_id"
	ContextKeyPathIDs   = "path_ids"
)

// RequestIDHeader carries the request id in and out of the service.
const RequestIDHeader = "X-Request-ID"

// TotalCountHeader exposes the unpaginated size of list responses.
const TotalCountHeader = "X-Total-Count"

// DeletedUserName is reported when a referenced user no longer exists.
const DeletedUserName = "Deleted user"

// ServiceName identifies this API in health and banner responses.
const ServiceName = "project-manager-api"

// Version is reported by the banner endpoint.
const Version = "1.0.0"
