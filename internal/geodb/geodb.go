// Package geodb provides read-only access to the Geograph source-of-record
// database, a sqlite snapshot keyed by gridimage id. The handle is opened
// once per process and is safe for concurrent readers.
package geodb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/commonsbots/geograph-sync/internal/model"
)

// ErrNotFound is returned by Lookup when no row matches the gridimage id.
var ErrNotFound = errors.New("geodb: gridimage not in database")

// DB is a read-only handle to the Geograph database.
type DB struct {
	db     *sql.DB
	source *time.Location
}

// Open opens the Geograph sqlite snapshot at path in read-only mode. An
// unreadable or structurally broken database is fatal for the whole run, so
// Open verifies the expected tables are queryable before returning.
func Open(path string) (*DB, error) {
	source, err := time.LoadLocation("Europe/London")
	if err != nil {
		return nil, eris.Wrap(err, "geodb: load source time zone")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "geodb: open")
	}
	for _, pragma := range []string{
		"PRAGMA query_only=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "geodb: exec %s", pragma)
		}
	}
	// Probe the join once so corruption surfaces at startup, not per item.
	if _, err := db.Exec(`SELECT gridimage_id FROM gridimage_base
		NATURAL JOIN gridimage_geo NATURAL JOIN gridimage_extra LIMIT 1`); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "geodb: probe schema")
	}

	return &DB{db: db, source: source}, nil
}

// Close releases the database handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// Lookup fetches the joined row for one gridimage id. Returns ErrNotFound
// when the id is not in the database.
func (d *DB) Lookup(ctx context.Context, gridimageID int64) (*model.GridimageRow, error) {
	var (
		row          model.GridimageRow
		updTimestamp string
	)
	err := d.db.QueryRowContext(ctx, `
		SELECT gridimage_id, realname, title, moderation_status,
		       nateastings, natnorthings, natgrlen,
		       viewpoint_eastings, viewpoint_northings, viewpoint_grlen,
		       view_direction, wgs84_lat, wgs84_long, upd_timestamp
		  FROM gridimage_base
		       NATURAL JOIN gridimage_geo
		       NATURAL JOIN gridimage_extra
		 WHERE gridimage_id = ?`, gridimageID).Scan(
		&row.GridimageID, &row.RealName, &row.Title, &row.ModerationStatus,
		&row.NatEastings, &row.NatNorthings, &row.NatGRLen,
		&row.ViewpointEastings, &row.ViewpointNorthings, &row.ViewpointGRLen,
		&row.ViewDirection, &row.WGS84Lat, &row.WGS84Lon, &updTimestamp,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "geodb: lookup %d", gridimageID)
	}

	// Geograph stores the timestamp as naive local time.
	row.UpdTimestamp, err = time.ParseInLocation("2006-01-02 15:04:05", updTimestamp, d.source)
	if err != nil {
		return nil, eris.Wrapf(err, "geodb: parse upd_timestamp %q", updTimestamp)
	}

	return &row, nil
}
