package config

// DefaultMaxFileSize caps attachment uploads at 10MB, enforced before any
// filesystem write.
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

// DefaultAllowedTypes returns the attachment MIME allow list
func DefaultAllowedTypes() []string {
	return []string{
		"application/pdf",
		"image/jpeg",
		"image/png",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
}
