package dto

import apperr "image-optimizer/pkg/errors"

// ResizeMetadataDTO is one element of the "metadata" multipart field.
type ResizeMetadataDTO struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	IsOptimized  bool   `json:"isOptimized"`
	ResizeWidth  *int   `json:"resizeWidth,omitempty"`
	ResizeHeight *int   `json:"resizeHeight,omitempty"`
}

// ResFileDTO describes one optimized image or the archive.
// File holds the payload as a data URI.
type ResFileDTO struct {
	ID        *int   `json:"id,omitempty"`
	File      string `json:"file"`
	Name      string `json:"name"`
	Extension string `json:"extension"`
	MimeType  string `json:"mimeType"`
	Size      int    `json:"size"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

type OptimizeResponse struct {
	OptimizedImages []ResFileDTO         `json:"optimizedImages"`
	ZippedImages    *ResFileDTO          `json:"zippedImages,omitempty"`
	FailedImages    []apperr.ItemFailure `json:"failedImages,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
