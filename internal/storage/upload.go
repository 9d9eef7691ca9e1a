package storage

import (
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/buildpanel/internal/common"
	"github.com/google/uuid"
)

// MaxFilesPerUpload caps the number of images in one upload request.
const MaxFilesPerUpload = 5

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// File is one uploaded file as received from the client.
type File struct {
	Name string
	Size int64
	Body io.ReadSeeker
}

// Image is a validated upload ready to be stored.
type Image struct {
	Key         string
	ContentType string
	Body        io.ReadSeeker
}

// PrepareImages checks count, size and content type of files and assigns
// each a fresh key under prefix. Errors wrap common.ErrorValidation.
func PrepareImages(prefix string, files []File, maxSize int64) ([]Image, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no images uploaded", common.ErrorValidation)
	}
	if len(files) > MaxFilesPerUpload {
		return nil, fmt.Errorf("%w: at most %d images per upload", common.ErrorValidation, MaxFilesPerUpload)
	}

	out := make([]Image, 0, len(files))
	for _, f := range files {
		if maxSize > 0 && f.Size > maxSize {
			return nil, fmt.Errorf("%w: %s exceeds %d bytes", common.ErrorValidation, f.Name, maxSize)
		}

		ct, ext, err := DetectImage(f.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}

		out = append(out, Image{
			Key:         prefix + "/" + uuid.NewString() + ext,
			ContentType: ct,
			Body:        f.Body,
		})
	}
	return out, nil
}

// DetectImage sniffs the first bytes of r and rewinds it. Only jpeg, png,
// gif and webp are accepted.
func DetectImage(r io.ReadSeeker) (contentType string, ext string, err error) {
	buf := make([]byte, 512)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", "", err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", "", err
	}

	ct := http.DetectContentType(buf[:n])
	ext, ok := imageExtensions[ct]
	if !ok {
		return "", "", fmt.Errorf("%w: only image files are allowed (jpeg, png, gif, webp), got %s", common.ErrorValidation, ct)
	}
	return ct, ext, nil
}
