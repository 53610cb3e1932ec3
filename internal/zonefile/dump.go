package zonefile

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jroosing/zonegen/internal/database"
)

// Store is the committed record state Dump renders from.
type Store interface {
	ListZones() ([]database.Zone, error)
	ListRecords(zoneID int64) ([]database.Record, error)
}

// Dump renders every zone of store, in name order, and saves it to dir.
//
// A failure to write one zone's file does not stop the others; all such
// failures are returned joined, each as a *FileError. A failure to read the
// store aborts immediately.
func Dump(store Store, dir string, logger *slog.Logger) error {
	zones, err := store.ListZones()
	if err != nil {
		return fmt.Errorf("failed to list zones: %w", err)
	}

	var errs []error
	for _, z := range zones {
		records, err := store.ListRecords(z.ID)
		if err != nil {
			return fmt.Errorf("failed to list records of zone %s: %w", z.Name, err)
		}

		path := Path(dir, z.Name)
		outcome, err := Save(dir, z.Name, Render(z.Name, records))
		if err != nil {
			logger.Error("cannot save zone file", "zone", z.Name, "path", path, "err", err)
			errs = append(errs, err)
			continue
		}

		switch outcome {
		case Unchanged:
			logger.Info("zone file did not change, ignoring", "zone", z.Name, "path", path)
		case Written:
			logger.Info("zone file changed, saved", "zone", z.Name, "path", path, "records", len(records))
		}
	}

	return errors.Join(errs...)
}
