package entities

// UploadedItem is one binary part of an optimize request.
type UploadedItem struct {
	Identifier   string // original filename, join key against ResizeDirective.Name
	Bytes        []byte
	DeclaredName string
}

// ResizeDirective is the client-declared resize intention for one uploaded item.
type ResizeDirective struct {
	ID           int
	Name         string
	SourceWidth  int
	SourceHeight int
	TargetWidth  *int
	TargetHeight *int
}

// HasTarget reports whether at least one target dimension is set. Zero counts as unset.
func (d ResizeDirective) HasTarget() bool {
	return positive(d.TargetWidth) || positive(d.TargetHeight)
}

func positive(v *int) bool {
	return v != nil && *v > 0
}

// EffectiveTransform holds resolved resize parameters. Zero dimension means unset.
type EffectiveTransform struct {
	TargetWidth  int
	TargetHeight int
	AllowUpscale bool
}

type TransformResult struct {
	Identifier   string
	Filename     string
	DirectiveID  int // -1 when no directive matched
	EncodedBytes []byte
	Width        int
	Height       int
	ByteSize     int
	Format       string
	MimeType     string
}

type ItemFailure struct {
	Identifier string
	Reason     string
	Err        error
}
