package validation

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenlabs/studyportal/internal/apperr"
)

var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
	pngMagic  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("files", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&buf, mw.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["files"][0]
}

func TestValidateStudyPhoto(t *testing.T) {
	oversized := make([]byte, StudyPhotoConstraints.MaxSize+1)
	copy(oversized, jpegMagic)

	tests := []struct {
		name    string
		file    string
		content []byte
		wantErr bool
	}{
		{name: "valid jpeg", file: "front.jpg", content: jpegMagic, wantErr: false},
		{name: "valid png", file: "side.png", content: pngMagic, wantErr: false},
		{name: "text masquerading as jpeg", file: "notes.jpg", content: []byte("dear diary"), wantErr: true},
		{name: "jpeg with wrong extension", file: "front.gif", content: jpegMagic, wantErr: true},
		{name: "too large", file: "huge.jpg", content: oversized, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStudyPhoto(fileHeader(t, tt.file, tt.content))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			ve, ok := apperr.AsValidation(err)
			require.True(t, ok, "expected a validation error, got %v", err)
			assert.Equal(t, tt.file, ve.Fields[0].Field, "failures are keyed by filename")
		})
	}
}
