// Package sqlstore serves precomputed climate data from the trial database.
// MySQL is the production backend; SQLite is used for local fixtures.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/couchcryptid/climax-batch/internal/domain"
	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// paramTolerance is how far stored soil parameters may differ from the
// requested ones and still be considered the same trial setup.
const paramTolerance = 1e-9

// Store implements domain.ClimateService on top of the
// culture_climate_stress table.
type Store struct {
	db     *sql.DB
	driver string
}

// MySQLDSN builds a MySQL DSN from discrete credentials.
func MySQLDSN(host, user, password, database string) string {
	cfg := mysql.NewConfig()
	cfg.User = user
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = host
	cfg.DBName = database
	return cfg.FormatDSN()
}

// Open connects to the trial database and verifies the connection.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	if driver != DriverMySQL && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s connection: %w", driver, err)
	}

	if driver == DriverSQLite {
		// SQLite supports one writer at a time.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)
		db.SetConnMaxIdleTime(10 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	return New(db, driver), nil
}

// New wraps an open database handle.
func New(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

// Migrate creates the culture_climate_stress table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	ddl := createTableSQLite
	if s.driver == DriverMySQL {
		ddl = createTableMySQL
	}
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create culture_climate_stress table: %w", err)
	}
	return nil
}

// ClimateData looks up the climate data stored for the trial's culture and
// flowering date. The stored soil volume and field capacity must match the
// request.
func (s *Store) ClimateData(ctx context.Context, p domain.TrialParams) (domain.ClimateData, error) {
	var (
		rec                record
		droughtB, droughtA sql.NullInt64
		controlB, controlA sql.NullInt64
		stressB, stressA   sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, selectClimateData, p.CultureID, p.FloweringDate).Scan(
		&rec.soilVolume, &rec.fieldCapacity, &rec.data.Irrigated,
		&droughtB, &droughtA,
		&controlB, &controlA,
		&stressB, &stressA,
		&rec.data.Cold.Before, &rec.data.Cold.After,
		&rec.data.Heat.Before, &rec.data.Heat.After,
		&rec.data.Light.Before, &rec.data.Light.After,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ClimateData{}, fmt.Errorf("culture %d flowering %s: %w", p.CultureID, p.FloweringDate, domain.ErrClimateDataNotFound)
	}
	if err != nil {
		return domain.ClimateData{}, fmt.Errorf("query climate data: %w", err)
	}

	if !near(rec.soilVolume, p.SoilVolume) || !near(rec.fieldCapacity, p.FieldCapacity) {
		return domain.ClimateData{}, fmt.Errorf(
			"culture %d: stored climate data was derived for soil volume %g and field capacity %g, not %g and %g",
			p.CultureID, rec.soilVolume, rec.fieldCapacity, p.SoilVolume, p.FieldCapacity)
	}

	rec.data.Drought = pairFromNull(droughtB, droughtA)
	rec.data.ControlDrought = pairFromNull(controlB, controlA)
	rec.data.StressDrought = pairFromNull(stressB, stressA)
	return rec.data, nil
}

// Put stores or replaces the climate data of a trial.
func (s *Store) Put(ctx context.Context, p domain.TrialParams, data domain.ClimateData) error {
	query := upsertSQLite
	if s.driver == DriverMySQL {
		query = upsertMySQL
	}
	droughtB, droughtA := pairToNull(data.Drought)
	controlB, controlA := pairToNull(data.ControlDrought)
	stressB, stressA := pairToNull(data.StressDrought)

	_, err := s.db.ExecContext(ctx, query,
		p.CultureID, p.FloweringDate, p.SoilVolume, p.FieldCapacity, data.Irrigated,
		droughtB, droughtA,
		controlB, controlA,
		stressB, stressA,
		data.Cold.Before, data.Cold.After,
		data.Heat.Before, data.Heat.After,
		data.Light.Before, data.Light.After,
	)
	if err != nil {
		return fmt.Errorf("store climate data for culture %d: %w", p.CultureID, err)
	}
	return nil
}

// CheckReadiness pings the database.
func (s *Store) CheckReadiness(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

type record struct {
	soilVolume    float64
	fieldCapacity float64
	data          domain.ClimateData
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= paramTolerance
}

func pairFromNull(before, after sql.NullInt64) *domain.StressPair {
	if !before.Valid || !after.Valid {
		return nil
	}
	return &domain.StressPair{Before: int(before.Int64), After: int(after.Int64)}
}

func pairToNull(p *domain.StressPair) (sql.NullInt64, sql.NullInt64) {
	if p == nil {
		return sql.NullInt64{}, sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(p.Before), Valid: true}, sql.NullInt64{Int64: int64(p.After), Valid: true}
}
