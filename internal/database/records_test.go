package database_test

import (
	"path/filepath"
	"testing"

	"github.com/jroosing/zonegen/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), database.FileName))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// apply runs fn inside a transaction and commits it.
func apply(t *testing.T, db *database.DB, fn func(tx *database.Tx)) {
	t.Helper()
	tx, err := db.Begin()
	require.NoError(t, err)
	fn(tx)
	require.NoError(t, tx.Commit())
}

func zoneRecords(t *testing.T, db *database.DB, name string) []database.Record {
	t.Helper()
	zones, err := db.ListZones()
	require.NoError(t, err)
	for _, z := range zones {
		if z.Name == name {
			records, err := db.ListRecords(z.ID)
			require.NoError(t, err)
			return records
		}
	}
	t.Fatalf("zone %s not found", name)
	return nil
}

func rr(sub string, ttl uint32, class, typ, data string) database.Record {
	return database.Record{Subdomain: sub, TTL: ttl, Class: class, Type: typ, Data: data}
}

// =============================================================================
// Open / Migrations
// =============================================================================

func TestOpen_AppliesMigrations(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Health())
	version, err := db.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(3), version)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name    string
		closed  bool
		wantErr bool
	}{
		{"open database", false, false},
		{"closed database", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := database.Open(filepath.Join(t.TempDir(), database.FileName))
			require.NoError(t, err)
			if tt.closed {
				require.NoError(t, db.Close())
			} else {
				t.Cleanup(func() { db.Close() })
			}

			if tt.wantErr {
				assert.Error(t, db.Health())
			} else {
				assert.NoError(t, db.Health())
			}
		})
	}
}

func TestOpen_ReopenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), database.FileName)

	db, err := database.Open(path)
	require.NoError(t, err)
	apply(t, db, func(tx *database.Tx) {
		require.NoError(t, tx.Add("example.org", rr("www", 60, "IN", "A", "1.2.3.4")))
	})
	require.NoError(t, db.Close())

	db, err = database.Open(path)
	require.NoError(t, err)
	defer db.Close()

	records := zoneRecords(t, db, "example.org")
	require.Len(t, records, 1)
	assert.Equal(t, "1.2.3.4", records[0].Data)
}

// =============================================================================
// Add
// =============================================================================

func TestAdd_CreatesZoneAndRecord(t *testing.T) {
	db := openTestDB(t)
	apply(t, db, func(tx *database.Tx) {
		require.NoError(t, tx.Add("example.org", rr("a", 60, "IN", "A", "1.2.3.4")))
	})

	zones, err := db.ListZones()
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, "example.org", zones[0].Name)

	records := zoneRecords(t, db, "example.org")
	require.Len(t, records, 1)
	assert.Equal(t, zones[0].ID, records[0].ZoneID)
	assert.Equal(t, "a", records[0].Subdomain)
	assert.Equal(t, uint32(60), records[0].TTL)
	assert.Equal(t, "IN", records[0].Class)
	assert.Equal(t, "A", records[0].Type)
	assert.Equal(t, "1.2.3.4", records[0].Data)
}

func TestAdd_SameRecordTwiceIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	apply(t, db, func(tx *database.Tx) {
		require.NoError(t, tx.Add("example.org", rr("a", 60, "IN", "A", "1.2.3.4")))
		require.NoError(t, tx.Add("example.org", rr("a", 60, "IN", "A", "1.2.3.4")))
	})

	assert.Len(t, zoneRecords(t, db, "example.org"), 1)

	zones, err := db.ListZones()
	require.NoError(t, err)
	assert.Len(t, zones, 1, "zone must not be duplicated")
}

func TestAdd_UpsertsByNaturalKey(t *testing.T) {
	db := openTestDB(t)
	apply(t, db, func(tx *database.Tx) {
		require.NoError(t, tx.Add("example.org", rr("a", 60, "IN", "A", "1.2.3.4")))
	})
	apply(t, db, func(tx *database.Tx) {
		require.NoError(t, tx.Add("example.org", rr("a", 300, "IN", "A", "5.6.7.8")))
	})

	records := zoneRecords(t, db, "example.org")
	require.Len(t, records, 1)
	assert.Equal(t, uint32(300), records[0].TTL)
	assert.Equal(t, "5.6.7.8", records[0].Data)
}

func TestAdd_DistinctTypesCoexist(t *testing.T) {
	db := openTestDB(t)
	apply(t, db, func(tx *database.Tx) {
		require.NoError(t, tx.Add("example.org", rr("a", 60, "IN", "A", "1.2.3.4")))
		require.NoError(t, tx.Add("example.org", rr("a", 60, "IN", "AAAA", "::1")))
		require.NoError(t, tx.Add("example.org", rr("b", 60, "IN", "A", "1.2.3.4")))
		require.NoError(t, tx.Add("example.net", rr("a", 60, "IN", "A", "1.2.3.4")))
	})

	assert.Len(t, zoneRecords(t, db, "example.org"), 3)
	assert.Len(t, zoneRecords(t, db, "example.net"), 1)
}

func TestAdd_MaxTTL(t *testing.T) {
	db := openTestDB(t)
	apply(t, db, func(tx *database.Tx) {
		require.NoError(t, tx.Add("example.org", rr("@", 4294967295, "IN", "A", "1.2.3.4")))
	})

	records := zoneRecords(t, db, "example.org")
	require.Len(t, records, 1)
	assert.Equal(t, uint32(4294967295), records[0].TTL)
}

// =============================================================================
// Delete / Drop
// =============================================================================

func TestDelete_MatchesNaturalKeyOnly(t *testing.T) {
	db := openTestDB(t)
	apply(t, db, func(tx *database.Tx) {
		require.NoError(t, tx.Add("example.org", rr("a", 60, "IN", "A", "1.2.3.4")))
		require.NoError(t, tx.Add("example.org", rr("a", 60, "IN", "AAAA", "::1")))
	})

	apply(t, db, func(tx *database.Tx) {
		n, err := tx.Delete("example.org", "a", "IN", "A")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	records := zoneRecords(t, db, "example.org")
	require.Len(t, records, 1)
	assert.Equal(t, "AAAA", records[0].Type)
}

func TestDelete_NonExistentIsNoop(t *testing.T) {
	db := openTestDB(t)
	apply(t, db, func(tx *database.Tx) {
		require.NoError(t, tx.Add("example.org", rr("a", 60, "IN", "A", "1.2.3.4")))
	})

	apply(t, db, func(tx *database.Tx) {
		n, err := tx.Delete("example.org", "b", "IN", "A")
		require.NoError(t, err)
		assert.Zero(t, n)

		n, err = tx.Delete("unknown.org", "a", "IN", "A")
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	assert.Len(t, zoneRecords(t, db, "example.org"), 1)
	zones, err := db.ListZones()
	require.NoError(t, err)
	assert.Len(t, zones, 1, "delete must not create zones")
}

func TestDrop_KeepsZones(t *testing.T) {
	db := openTestDB(t)
	apply(t, db, func(tx *database.Tx) {
		require.NoError(t, tx.Add("example.org", rr("a", 60, "IN", "A", "1.2.3.4")))
		require.NoError(t, tx.Add("example.net", rr("@", 60, "IN", "A", "1.2.3.4")))
	})

	apply(t, db, func(tx *database.Tx) {
		n, err := tx.Drop()
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	zones, err := db.ListZones()
	require.NoError(t, err)
	require.Len(t, zones, 2)
	assert.Equal(t, "example.net", zones[0].Name)
	assert.Equal(t, "example.org", zones[1].Name)
	assert.Empty(t, zoneRecords(t, db, "example.org"))
	assert.Empty(t, zoneRecords(t, db, "example.net"))
}

// =============================================================================
// Transactions
// =============================================================================

func TestRollback_DiscardsChanges(t *testing.T) {
	db := openTestDB(t)

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, tx.Add("example.org", rr("a", 60, "IN", "A", "1.2.3.4")))
	require.NoError(t, tx.Rollback())

	zones, err := db.ListZones()
	require.NoError(t, err)
	assert.Empty(t, zones)
}

func TestListZones_SeesCommittedStateOnly(t *testing.T) {
	db := openTestDB(t)
	apply(t, db, func(tx *database.Tx) {
		require.NoError(t, tx.Add("example.org", rr("a", 60, "IN", "A", "1.2.3.4")))
	})

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, tx.Add("example.org", rr("b", 60, "IN", "A", "1.2.3.4")))
	require.NoError(t, tx.Add("example.net", rr("b", 60, "IN", "A", "1.2.3.4")))

	zones, err := db.ListZones()
	require.NoError(t, err)
	assert.Len(t, zones, 1)
	assert.Len(t, zoneRecords(t, db, "example.org"), 1)

	require.NoError(t, tx.Rollback())
}

func TestCommit_Twice(t *testing.T) {
	db := openTestDB(t)
	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	err = tx.Commit()
	require.Error(t, err)
	assert.ErrorIs(t, err, database.ErrStore)
}

// =============================================================================
// Ordering
// =============================================================================

func TestListRecords_CanonicalOrder(t *testing.T) {
	db := openTestDB(t)
	apply(t, db, func(tx *database.Tx) {
		require.NoError(t, tx.Add("example.org", rr("www", 60, "IN", "A", "1.2.3.4")))
		require.NoError(t, tx.Add("example.org", rr("@", 300, "IN", "NS", "ns1.example.org.")))
		require.NoError(t, tx.Add("example.org", rr("@", 60, "IN", "A", "1.2.3.4")))
		require.NoError(t, tx.Add("example.org", rr("mail", 60, "IN", "AAAA", "::1")))
		require.NoError(t, tx.Add("example.org", rr("mail", 60, "CH", "TXT", "x")))
	})

	records := zoneRecords(t, db, "example.org")
	var got []string
	for _, r := range records {
		got = append(got, r.Subdomain+" "+r.Class+" "+r.Type)
	}
	assert.Equal(t, []string{
		"@ IN A",
		"@ IN NS",
		"mail CH TXT",
		"mail IN AAAA",
		"www IN A",
	}, got)
}
