package helpers

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gabriel-vasile/mimetype"
)

const (
	EventsFolder = "DevEvent"

	MaxImageSize = 5 * 1024 * 1024
)

var AllowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

var (
	ErrImageTooLarge   = errors.New("file size exceeds 5MB limit")
	ErrImageType       = errors.New("invalid file type. Only JPEG, PNG, WebP, and GIF are allowed")
	ErrImageEmpty      = errors.New("image file is empty")
	errUploaderMissing = errors.New("cloudinary client is not initialized")
)

// CheckImage enforces the size limit and sniffs the content type from the bytes
// themselves rather than trusting the client supplied header.
func CheckImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrImageEmpty
	}
	if len(data) > MaxImageSize {
		return "", ErrImageTooLarge
	}
	mtype := mimetype.Detect(data)
	for m := mtype; m != nil; m = m.Parent() {
		if AllowedImageTypes[m.String()] {
			return m.String(), nil
		}
	}
	return "", ErrImageType
}

// UploadedImage is what the CDN hands back for a stored asset.
type UploadedImage struct {
	URL      string
	PublicID string
}

type CloudinaryUploader struct {
	cld  *cloudinary.Cloudinary
	tags []string
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cld, tags: []string{"devevent"}}
}

func (u *CloudinaryUploader) Upload(ctx context.Context, data []byte, folder string) (*UploadedImage, error) {
	if u.cld == nil {
		return nil, errUploaderMissing
	}
	res, err := u.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:       folder,
		ResourceType: "image",
		Tags:         u.tags,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("failed to upload image: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return nil, fmt.Errorf("failed to upload image: empty url returned")
	}
	return &UploadedImage{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

// Delete removes previously uploaded assets. It is used to roll back an
// upload when the store write that follows it fails.
func (u *CloudinaryUploader) Delete(ctx context.Context, publicIDs ...string) error {
	if u.cld == nil {
		return errUploaderMissing
	}
	var errs []error
	for _, id := range publicIDs {
		if id == "" {
			continue
		}
		res, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{
			PublicID:     id,
			ResourceType: "image",
			Invalidate:   api.Bool(true),
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to delete image %s: %w", id, err))
			continue
		}
		if res.Error.Message != "" {
			errs = append(errs, fmt.Errorf("failed to delete image %s: %s", id, res.Error.Message))
		}
	}
	return errors.Join(errs...)
}
