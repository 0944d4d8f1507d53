package model

import "errors"

const (
	MaxImageSizeBytes = 10 * 1024 * 1024 // 10MB per upload
	ImageFolder       = "posts/images"
	ImageCacheControl = "public, max-age=31536000" // 1 year
)

// Supported image content types for upload validation
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeGIF  = "image/gif"
)

var imageExtensions = map[string]string{
	ContentTypeJPEG: ".jpg",
	ContentTypePNG:  ".png",
	ContentTypeGIF:  ".gif",
}

// Error codes for HTTP responses
const (
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeInvalidImageType = "INVALID_IMAGE_TYPE"
)

// Domain errors for media operations
var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidImageType = errors.New("invalid image type")
)

// ImageUpload describes a stored image. FileSize and Dimensions are meant
// to be passed verbatim as the metadata of an image post.
type ImageUpload struct {
	URL        string `json:"url"`
	Key        string `json:"key"`
	FileSize   int64  `json:"file_size"`
	Dimensions string `json:"dimensions"`
	Format     string `json:"format"`
}

// PostMetadata returns the upload as image post metadata.
func (u *ImageUpload) PostMetadata() Metadata {
	return Metadata{
		"file_size":  u.FileSize,
		"dimensions": u.Dimensions,
		"format":     u.Format,
		"url":        u.URL,
	}
}

// ImageExtension returns the file extension for a supported content type.
func ImageExtension(contentType string) (string, bool) {
	ext, ok := imageExtensions[contentType]
	return ext, ok
}
