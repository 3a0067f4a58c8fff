package validation

import (
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lumenlabs/studyportal/internal/apperr"
)

// FileConstraints defines validation rules for file uploads
type FileConstraints struct {
	AllowedMimeTypes  map[string]bool
	AllowedExtensions map[string]bool
	MaxSize           int64
}

// StudyPhotoConstraints bounds weekly photo submissions. Only size and
// basic content sniffing are checked here; anything deeper is out of
// scope for the portal.
var StudyPhotoConstraints = FileConstraints{
	AllowedMimeTypes: map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
	},
	AllowedExtensions: map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
	},
	MaxSize: 5 << 20, // 5MB
}

// ValidateStudyPhoto checks one uploaded photo against the study
// constraints. Failures are validation errors keyed by filename so a
// batch can report every failing file at once.
func ValidateStudyPhoto(header *multipart.FileHeader) error {
	return validateAgainstConstraint(header, StudyPhotoConstraints)
}

func validateAgainstConstraint(header *multipart.FileHeader, constraints FileConstraints) error {
	// Check file size first (before reading content)
	if header.Size > constraints.MaxSize {
		maxMB := constraints.MaxSize / (1 << 20)
		return apperr.NewValidationError(apperr.FieldError{
			Field:  header.Filename,
			Reason: "file too large: maximum size is " + strconv.FormatInt(maxMB, 10) + " MB",
		})
	}

	file, err := header.Open()
	if err != nil {
		return apperr.Transient(err)
	}
	defer func() { _ = file.Close() }()

	// Read up to 512 bytes for magic number detection; that is all
	// http.DetectContentType looks at.
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return apperr.Transient(err)
	}

	if seeker, ok := file.(io.Seeker); ok {
		_, err = seeker.Seek(0, 0)
		if err != nil {
			return apperr.Transient(err)
		}
	}

	// Detect the actual content type from file content; a spoofed
	// Content-Type header does not get past this.
	detectedType := http.DetectContentType(buffer[:n])
	if !constraints.AllowedMimeTypes[detectedType] {
		return apperr.NewValidationError(apperr.FieldError{
			Field:  header.Filename,
			Reason: "invalid file type (detected: " + detectedType + ")",
		})
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !constraints.AllowedExtensions[ext] {
		return apperr.NewValidationError(apperr.FieldError{
			Field:  header.Filename,
			Reason: "invalid file extension: " + ext,
		})
	}

	return nil
}
