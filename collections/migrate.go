package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/services"
)

// MigrateBusinessStatus backfills business_status on quotes saved before the
// field existed. Safe to call on every startup -- returns early if nothing to
// migrate.
func MigrateBusinessStatus(app core.App) error {
	col, err := findCollection(app, QuotesCollection)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	stale, err := app.FindRecordsByFilter(col, "business_status = ''", "", 0, 0)
	if err != nil {
		return fmt.Errorf("migrate: could not query quotes: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}

	log.Printf("migrate: found %d quote(s) without business status\n", len(stale))

	for _, r := range stale {
		r.Set("business_status", string(services.BusinessActive))
		if err := app.Save(r); err != nil {
			log.Printf("migrate: failed to backfill quote %s: %v\n", r.GetString("quote_code"), err)
			continue
		}
	}
	return nil
}
