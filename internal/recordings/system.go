package recordings

import (
	"context"
	"database/sql"

	"github.com/JaimeStill/callvault/internal/archive"
	"github.com/JaimeStill/callvault/internal/locator"
	"github.com/JaimeStill/callvault/internal/tenant"
	"github.com/JaimeStill/callvault/pkg/pagination"
)

// System defines the public contract for recording operations.
type System interface {
	Handler(maxBodySize int64, maxBatchSize int) *Handler

	Search(ctx context.Context, req SearchRequest) (*pagination.PageResult[Recording], error)
	Metadata(ctx context.Context, req MetadataRequest) (*Recording, error)

	Resolve(ctx context.Context, req locator.Request) (locator.Resolved, error)
	Audio(ctx context.Context, req locator.Request) (*Audio, error)
	Download(ctx context.Context, reqs []locator.Request) (archive.Result, error)
}

// Databases hands out the catalog database of an enabled tenant.
// *tenant.Registry satisfies it.
type Databases interface {
	DB(t tenant.Tenant) (*sql.DB, error)
}

// Batcher builds batch archives. *archive.Builder satisfies it.
type Batcher interface {
	Build(ctx context.Context, reqs []locator.Request) (archive.Result, error)
}

// Audio is a transcoded recording ready for delivery.
type Audio struct {
	Resolved locator.Resolved
	FileName string
	Data     []byte
}
