package services

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// VariantConfig describes a resized rendition of an uploaded image.
type VariantConfig struct {
	Name   string
	Width  int
	Height int
	Fit    imaging.ResampleFilter
}

var productImageVariants = []VariantConfig{
	{Name: "thumbnail", Width: 200, Height: 200, Fit: imaging.Lanczos},
	{Name: "card", Width: 480, Height: 360, Fit: imaging.Lanczos},
	{Name: "full", Width: 1200, Height: 900, Fit: imaging.Lanczos},
}

// UploadedImage is the stored original plus its resized variants.
type UploadedImage struct {
	Key      string            `json:"key"`
	URL      string            `json:"url"`
	Variants map[string]string `json:"variants"`
}

// ImageService processes uploads and hands them to storage.
type ImageService struct {
	storage StorageService
}

// NewImageService creates a new image service
func NewImageService(storage StorageService) *ImageService {
	return &ImageService{storage: storage}
}

const maxUploadSize = 10 << 20

// UploadProductImage validates, resizes and stores a product photo under
// a generated key. The original is stored alongside JPEG variants.
func (s *ImageService) UploadProductImage(ctx context.Context, filename string, data []byte, contentType string) (*UploadedImage, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty upload")
	}
	if len(data) > maxUploadSize {
		return nil, fmt.Errorf("image exceeds 10MB limit")
	}
	switch contentType {
	case "image/jpeg", "image/png":
	default:
		return nil, fmt.Errorf("unsupported image type %q", contentType)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	baseKey := fmt.Sprintf("products/%s", uuid.New().String())

	originalURL, err := s.storage.Upload(ctx, baseKey+"/original"+ext, data, contentType)
	if err != nil {
		return nil, err
	}

	result := &UploadedImage{
		Key:      baseKey,
		URL:      originalURL,
		Variants: make(map[string]string, len(productImageVariants)),
	}

	for _, variant := range productImageVariants {
		resized := imaging.Fit(img, variant.Width, variant.Height, variant.Fit)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85}); err != nil {
			return nil, fmt.Errorf("failed to encode %s variant: %w", variant.Name, err)
		}

		url, err := s.storage.Upload(ctx, fmt.Sprintf("%s/%s.jpg", baseKey, variant.Name), buf.Bytes(), "image/jpeg")
		if err != nil {
			return nil, err
		}
		result.Variants[variant.Name] = url
	}

	return result, nil
}

// UploadInspirationImage stores a consultation reference image without
// resizing; it is only ever viewed by the florist.
func (s *ImageService) UploadInspirationImage(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty upload")
	}
	if len(data) > maxUploadSize {
		return "", fmt.Errorf("image exceeds 10MB limit")
	}
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		return "", fmt.Errorf("unsupported image type %q", contentType)
	}

	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("consultations/%s%s", uuid.New().String(), ext)
	return s.storage.Upload(ctx, key, data, contentType)
}

// DeleteImage removes a stored image and its variants.
func (s *ImageService) DeleteImage(ctx context.Context, key string) error {
	if strings.HasPrefix(key, "products/") {
		for _, variant := range productImageVariants {
			if err := s.storage.Delete(ctx, fmt.Sprintf("%s/%s.jpg", key, variant.Name)); err != nil {
				return err
			}
		}
	}
	return s.storage.Delete(ctx, key)
}
