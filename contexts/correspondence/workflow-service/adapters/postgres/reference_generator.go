package postgresadapter

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// ULIDReferenceGenerator mints REF-<year>-<ULID> reference numbers. ULIDs
// are lexicographically sortable by creation time, which keeps registry
// listings in registration order even when sorted by reference.
type ULIDReferenceGenerator struct{}

func (ULIDReferenceGenerator) NewReference(_ context.Context, at time.Time) (string, error) {
	return "REF-" + at.UTC().Format("2006") + "-" + ulid.Make().String(), nil
}
