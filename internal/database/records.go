package database

import (
	"database/sql"

	"github.com/jroosing/zonegen/internal/helpers"
)

// Zone is a registrable domain that owns records.
type Zone struct {
	ID   int64
	Name string
}

// Record is a resource record. Subdomain is relative to the owning zone,
// "@" for the apex. At most one record exists per (zone, subdomain, class, type).
type Record struct {
	ID        int64
	ZoneID    int64
	Subdomain string
	TTL       uint32
	Class     string
	Type      string
	Data      string
}

// Tx is an open unit of work against the store. It is closed exactly once,
// by Commit or Rollback.
type Tx struct {
	tx *sql.Tx
}

// Commit makes every mutation of the transaction durable.
func (t *Tx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return storeErr("failed to commit transaction", err)
	}
	return nil
}

// Rollback discards every mutation of the transaction.
func (t *Tx) Rollback() error {
	if err := t.tx.Rollback(); err != nil {
		return storeErr("failed to roll back transaction", err)
	}
	return nil
}

// Add inserts rr into zone, creating the zone if needed. When a record with
// the same subdomain, class and type exists, its TTL and data are replaced.
func (t *Tx) Add(zone string, rr Record) error {
	zoneID, err := t.ensureZone(zone)
	if err != nil {
		return err
	}

	var recordID int64
	err = t.tx.QueryRow(`
		SELECT id FROM records
		WHERE zoneid = ? AND subdomain = ? AND class = ? AND type = ?
		ORDER BY id
		LIMIT 1
	`, zoneID, rr.Subdomain, rr.Class, rr.Type).Scan(&recordID)

	switch {
	case err == sql.ErrNoRows:
		_, err = t.tx.Exec(`
			INSERT INTO records (zoneid, subdomain, ttl, class, type, data)
			VALUES (?, ?, ?, ?, ?, ?)
		`, zoneID, rr.Subdomain, int64(rr.TTL), rr.Class, rr.Type, rr.Data)
		if err != nil {
			return storeErr("failed to insert record", err)
		}
	case err != nil:
		return storeErr("failed to look up record", err)
	default:
		_, err = t.tx.Exec("UPDATE records SET ttl = ?, data = ? WHERE id = ?", int64(rr.TTL), rr.Data, recordID)
		if err != nil {
			return storeErr("failed to update record", err)
		}
	}

	return nil
}

// ensureZone returns the id of the named zone, inserting it if absent.
func (t *Tx) ensureZone(name string) (int64, error) {
	if _, err := t.tx.Exec("INSERT INTO zones (name) VALUES (?) ON CONFLICT(name) DO NOTHING", name); err != nil {
		return 0, storeErr("failed to insert zone "+name, err)
	}

	var id int64
	if err := t.tx.QueryRow("SELECT id FROM zones WHERE name = ?", name).Scan(&id); err != nil {
		return 0, storeErr("failed to get zone "+name, err)
	}
	return id, nil
}

// Delete removes every record of zone matching subdomain, class and type,
// and returns how many were removed. Deleting nothing is not an error.
func (t *Tx) Delete(zone, subdomain, class, typ string) (int64, error) {
	result, err := t.tx.Exec(`
		DELETE FROM records
		WHERE subdomain = ? AND class = ? AND type = ?
		AND zoneid = (SELECT id FROM zones WHERE name = ?)
	`, subdomain, class, typ, zone)
	if err != nil {
		return 0, storeErr("failed to delete records", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, storeErr("failed to get affected rows", err)
	}
	return rows, nil
}

// Drop removes all records of all zones. Zones are kept so that their
// files are regenerated empty instead of left behind stale.
func (t *Tx) Drop() (int64, error) {
	result, err := t.tx.Exec("DELETE FROM records")
	if err != nil {
		return 0, storeErr("failed to delete records", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, storeErr("failed to get affected rows", err)
	}
	return rows, nil
}

// ListZones returns every committed zone ordered by name.
func (db *DB) ListZones() ([]Zone, error) {
	rows, err := db.conn.Query("SELECT id, name FROM zones ORDER BY name")
	if err != nil {
		return nil, storeErr("failed to query zones", err)
	}
	defer rows.Close()

	var zones []Zone
	for rows.Next() {
		var z Zone
		if err := rows.Scan(&z.ID, &z.Name); err != nil {
			return nil, storeErr("failed to scan zone", err)
		}
		zones = append(zones, z)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("error iterating zones", err)
	}

	return zones, nil
}

// ListRecords returns the committed records of a zone ordered by
// (subdomain, class, type, ttl, data). Rendering relies on this order.
func (db *DB) ListRecords(zoneID int64) ([]Record, error) {
	rows, err := db.conn.Query(`
		SELECT id, zoneid, subdomain, ttl, class, type, data
		FROM records
		WHERE zoneid = ?
		ORDER BY subdomain, class, type, ttl, data
	`, zoneID)
	if err != nil {
		return nil, storeErr("failed to query records", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r   Record
			ttl int64
		)
		if err := rows.Scan(&r.ID, &r.ZoneID, &r.Subdomain, &ttl, &r.Class, &r.Type, &r.Data); err != nil {
			return nil, storeErr("failed to scan record", err)
		}
		r.TTL = helpers.ClampInt64ToUint32(ttl)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("error iterating records", err)
	}

	return records, nil
}
