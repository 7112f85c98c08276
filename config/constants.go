package config

import "time"

// Upload endpoint defaults
const (
	// DefaultUploadURL is the backend that receives exported designs
	DefaultUploadURL = "https://admin.levebrasa.com/api/canva/export"

	// DefaultFollowUpURL is opened after a successful upload, with the title as ?arte=
	DefaultFollowUpURL = "https://mockup.levebrasa.com/internal/mockup"

	// FollowUpTitleParam carries the URL-encoded design title
	FollowUpTitleParam = "arte"
)

// Export defaults
const (
	// DefaultExportFormat is the only raster format requested from the exporter
	DefaultExportFormat = "png"

	// DefaultTitlePrefix prefixes synthetic titles: <prefix>-<unix millis>
	DefaultTitlePrefix = "CanvaDesign"

	// ArchiveSuffix marks a multi-page export bundled as an archive
	ArchiveSuffix = ".zip"
)

// User-facing messages
const (
	// MsgSelectSinglePage is shown when a multi-page export was selected
	MsgSelectSinglePage = "Selecione apenas uma página!"

	// MsgUploadFailed is shown only under the "surface" upload failure policy
	MsgUploadFailed = "Falha ao enviar o design. Tente novamente."
)

// Service defaults
const (
	DefaultAPIPort      = "8081"
	DefaultReceiverPort = "8080"
	DefaultRedisAddr    = "localhost:6379"
	DefaultKafkaBrokers = "localhost:9093"
	DefaultKafkaTopic   = "design-uploads"
	DefaultKafkaGroupID = "artexport-watch-group"
	DefaultPresignTTL   = 1 * time.Hour
	DefaultHTTPTimeout  = 30 * time.Second
	MaxLogEntries       = 50
)
