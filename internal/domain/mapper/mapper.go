package mapper

import (
	"encoding/base64"
	"fmt"
	"strings"

	"image-optimizer/internal/domain/dto"
	"image-optimizer/internal/domain/entities"
	consts "image-optimizer/pkg/constants"
	apperr "image-optimizer/pkg/errors"

	"github.com/bytedance/sonic"
)

// ParseDirectives decodes the JSON directive list sent in the metadata field.
func ParseDirectives(raw []byte) ([]entities.ResizeDirective, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, nil
	}
	var items []dto.ResizeMetadataDTO
	if err := sonic.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parse resize metadata: %w", err)
	}
	return DirectivesFromDTO(items), nil
}

func DirectivesFromDTO(items []dto.ResizeMetadataDTO) []entities.ResizeDirective {
	out := make([]entities.ResizeDirective, 0, len(items))
	for _, m := range items {
		out = append(out, entities.ResizeDirective{
			ID:           m.ID,
			Name:         m.Name,
			SourceWidth:  m.Width,
			SourceHeight: m.Height,
			TargetWidth:  m.ResizeWidth,
			TargetHeight: m.ResizeHeight,
		})
	}
	return out
}

func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func ResultToDTO(r entities.TransformResult) dto.ResFileDTO {
	id := r.DirectiveID
	return dto.ResFileDTO{
		ID:        &id,
		File:      DataURI(r.MimeType, r.EncodedBytes),
		Name:      r.Filename,
		Extension: r.Format,
		MimeType:  r.MimeType,
		Size:      r.ByteSize,
		Width:     r.Width,
		Height:    r.Height,
	}
}

func ArchiveToDTO(archive []byte, name string) dto.ResFileDTO {
	return dto.ResFileDTO{
		File:      DataURI(consts.ArchiveMimeType, archive),
		Name:      name,
		Extension: consts.ArchiveExtension,
		MimeType:  consts.ArchiveMimeType,
		Size:      len(archive),
		Width:     -1,
		Height:    -1,
	}
}

// OutcomeToResponse builds the JSON body; the archive descriptor is only
// present when more than one image succeeded.
func OutcomeToResponse(outcome *entities.BatchOutcome, archiveName string) dto.OptimizeResponse {
	resp := dto.OptimizeResponse{
		OptimizedImages: make([]dto.ResFileDTO, 0, len(outcome.Results)),
	}
	for _, r := range outcome.Results {
		resp.OptimizedImages = append(resp.OptimizedImages, ResultToDTO(r))
	}
	if outcome.IsArchive() {
		zipped := ArchiveToDTO(outcome.Archive, archiveName)
		resp.ZippedImages = &zipped
	}
	for _, f := range outcome.Failures {
		resp.FailedImages = append(resp.FailedImages, apperr.ItemFailure{Name: f.Identifier, Error: f.Reason})
	}
	return resp
}
