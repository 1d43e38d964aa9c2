package source

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/sifthq/corral/internal/core/model"
)

// SQLiteSource bulk-reads the corpus from a local sqlite file holding an
// `incidents` table with one row per record.
type SQLiteSource struct {
	db *sql.DB
}

func NewSQLiteSource(path string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %q: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open sqlite database %q: %w", path, err)
	}
	return &SQLiteSource{db: db}, nil
}

func (s *SQLiteSource) Close(ctx context.Context) error {
	return s.db.Close()
}

const sqliteLoadAll = `
	SELECT eventid, gname, iyear, imonth, iday,
		city, region, country,
		attack_type, target_type, weapon_type,
		casualties, wounded
	FROM incidents
	ORDER BY eventid
`

func (s *SQLiteSource) LoadAll(ctx context.Context) ([]model.Incident, error) {
	rows, err := s.db.QueryContext(ctx, sqliteLoadAll)
	if err != nil {
		return nil, fmt.Errorf("failed to query incidents: %w", err)
	}
	defer rows.Close()

	var incidents []model.Incident
	for rows.Next() {
		var (
			inc                             model.Incident
			gname, city, region, country    sql.NullString
			attackT, targetT, weaponT       sql.NullString
			year, month, day, killed, wound sql.NullInt64
		)
		if err := rows.Scan(&inc.EventID, &gname, &year, &month, &day,
			&city, &region, &country,
			&attackT, &targetT, &weaponT,
			&killed, &wound); err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		inc.GroupName = gname.String
		inc.Year = int(year.Int64)
		inc.Month = int(month.Int64)
		inc.Day = int(day.Int64)
		inc.City = city.String
		inc.Region = region.String
		inc.Country = country.String
		inc.AttackType = attackT.String
		inc.TargetType = targetT.String
		inc.WeaponType = weaponT.String
		inc.Casualties = int(killed.Int64)
		inc.Wounded = int(wound.Int64)
		incidents = append(incidents, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read incident rows: %w", err)
	}
	return incidents, nil
}
