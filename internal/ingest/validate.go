package ingest

// MaxFileSize bounds uploads at 10 MiB.
const MaxFileSize = 10 * 1024 * 1024

var acceptedTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
}

// ValidationError rejects an upload before any side effect happens. The
// message is user-facing.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateUpload checks presence, size and MIME type. No side effects are
// performed for a rejected upload.
func ValidateUpload(up Upload) *ValidationError {
	if len(up.Data) == 0 || up.Filename == "" {
		return &ValidationError{Message: "File is required"}
	}
	if len(up.Data) > MaxFileSize {
		return &ValidationError{Message: "File size must be less than 10MB"}
	}
	if !acceptedTypes[up.ContentType] {
		return &ValidationError{Message: "File must be PDF, JPEG, or PNG"}
	}
	return nil
}
