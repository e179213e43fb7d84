package constants

const (
	StatusOK = "ok"
)

const (
	OutputFormat    = "webp"
	OutputExtension = ".webp"
	OutputMimeType  = "image/webp"

	ArchiveExtension = "zip"
	ArchiveMimeType  = "application/zip"
	ArchiveName      = "images.zip"

	DefaultWidth   = 1024
	DefaultQuality = 80
	MaxFiles       = 20
)

const (
	ResponseModeJSON   = "json"
	ResponseModeBinary = "binary"
)
