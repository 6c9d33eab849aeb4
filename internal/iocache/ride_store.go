package iocache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/ridestats/internal/contract"
	"github.com/huangsam/ridestats/schema"
)

// Table names for ride storage.
const (
	ridesTable       = "ride_rides"
	trackPointsTable = "ride_track_points"
	batchesTable     = "ride_ingest_batches"
)

// rideTables lists ride tables in dependency order, children first.
var rideTables = []string{trackPointsTable, ridesTable, batchesTable}

const rideColumns = `id, label, start_time, end_time, created_at, max_speed, elevation_gain, elevation_loss,
	fast_acceleration_count, fast_deceleration_count, distance, smoothness_score`

// RideStoreImpl implements the RideStore interface.
type RideStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RideStore = &RideStoreImpl{} // Compile-time check

// NewRideStore opens the ride store and brings its schema up to date.
func NewRideStore(backend schema.DatabaseBackend, connStr string) (contract.RideStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled persistence
		return &RideStoreImpl{backend: backend}, nil
	}

	if err := migrateRidesLatest(backend, connStr); err != nil {
		return nil, fmt.Errorf("failed to migrate ride tables: %w", err)
	}

	db, err := openDB(backend, connStr, GetRideDBFilePath())
	if err != nil {
		return nil, err
	}

	return &RideStoreImpl{db: db, backend: backend}, nil
}

// disabled reports whether the store is a no-op.
func (rs *RideStoreImpl) disabled() bool {
	return rs.backend == schema.NoneBackend || rs.db == nil
}

func (rs *RideStoreImpl) table(name string) string {
	return quoteTableName(name, rs.backend)
}

// toNanos stores zero times as 0 since UnixNano is undefined for them.
func toNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromNanos(ns int64) time.Time {
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns).UTC()
}

// SaveRides stores rides and their track points in one transaction under a new ingest batch.
func (rs *RideStoreImpl) SaveRides(rides []schema.Ride) (int64, []schema.Ride, error) {
	saved := make([]schema.Ride, len(rides))
	for i, r := range rides {
		r.ID = uuid.NewString()
		points := make([]schema.TrackPoint, len(r.TrackPoints))
		for j, p := range r.TrackPoints {
			p.RideID = r.ID
			points[j] = p
		}
		r.TrackPoints = points
		saved[i] = r
	}

	if rs.disabled() {
		return 0, saved, nil
	}

	tx, err := rs.db.Begin()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to begin ride transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	batchID, generation, err := rs.insertBatch(tx, len(saved))
	if err != nil {
		return 0, nil, err
	}

	rideQuery := fmt.Sprintf("INSERT INTO %s (batch_id, %s) VALUES (%s)",
		rs.table(ridesTable), rideColumns, placeholders(rs.backend, 1, 13))
	rideStmt, err := tx.Prepare(rideQuery)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to prepare ride insert: %w", err)
	}
	defer func() { _ = rideStmt.Close() }()

	pointQuery := fmt.Sprintf("INSERT INTO %s (ride_id, seq, point_time, latitude, longitude, elevation, hdop, speed) VALUES (%s)",
		rs.table(trackPointsTable), placeholders(rs.backend, 1, 8))
	pointStmt, err := tx.Prepare(pointQuery)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to prepare track point insert: %w", err)
	}
	defer func() { _ = pointStmt.Close() }()

	for _, r := range saved {
		if _, err := rideStmt.Exec(batchID, r.ID, r.Label, toNanos(r.Start), toNanos(r.End), toNanos(r.Created),
			r.MaxSpeed, r.ElevationGain, r.ElevationLoss, r.FastAccelerationCount, r.FastDecelerationCount,
			r.Distance, r.SmoothnessScore); err != nil {
			return 0, nil, fmt.Errorf("failed to insert ride %s: %w", r.Label, err)
		}
		for seq, p := range r.TrackPoints {
			if _, err := pointStmt.Exec(r.ID, seq, toNanos(p.Time), p.Latitude, p.Longitude, p.Elevation, p.Hdop, p.Speed); err != nil {
				return 0, nil, fmt.Errorf("failed to insert track point %d of ride %s: %w", seq, r.Label, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, nil, fmt.Errorf("failed to commit rides: %w", err)
	}
	contract.Log().Debug().Int("rides", len(saved)).Int64("generation", generation).Msg("saved rides")
	return generation, saved, nil
}

// insertBatch records an ingest batch and returns its row ID and generation.
// The generation is the batch timestamp in nanoseconds, bumped past the latest
// one, so it keeps increasing after the store is cleared and recreated.
func (rs *RideStoreImpl) insertBatch(tx *sql.Tx, rideCount int) (int64, int64, error) {
	var latest int64
	latestQuery := fmt.Sprintf("SELECT COALESCE(MAX(created_at), 0) FROM %s", rs.table(batchesTable))
	if err := tx.QueryRow(latestQuery).Scan(&latest); err != nil {
		return 0, 0, fmt.Errorf("failed to read latest ingest batch: %w", err)
	}
	stamp := max(time.Now().UnixNano(), latest+1)

	query := fmt.Sprintf("INSERT INTO %s (created_at, ride_count) VALUES (%s)", rs.table(batchesTable), placeholders(rs.backend, 1, 2))

	if rs.backend == schema.PostgreSQLBackend {
		var batchID int64
		if err := tx.QueryRow(query+" RETURNING id", stamp, rideCount).Scan(&batchID); err != nil {
			return 0, 0, fmt.Errorf("failed to insert ingest batch: %w", err)
		}
		return batchID, stamp, nil
	}

	res, err := tx.Exec(query, stamp, rideCount)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to insert ingest batch: %w", err)
	}
	batchID, err := res.LastInsertId()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read ingest batch ID: %w", err)
	}
	return batchID, stamp, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRide(row scanner) (schema.Ride, error) {
	var r schema.Ride
	var start, end, created int64
	err := row.Scan(&r.ID, &r.Label, &start, &end, &created, &r.MaxSpeed, &r.ElevationGain, &r.ElevationLoss,
		&r.FastAccelerationCount, &r.FastDecelerationCount, &r.Distance, &r.SmoothnessScore)
	if err != nil {
		return r, err
	}
	r.Start = fromNanos(start)
	r.End = fromNanos(end)
	r.Created = fromNanos(created)
	return r, nil
}

func (rs *RideStoreImpl) queryRides(query string, args ...any) ([]schema.Ride, error) {
	rows, err := rs.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rides: %w", err)
	}
	defer func() { _ = rows.Close() }()

	rides := make([]schema.Ride, 0)
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ride: %w", err)
		}
		rides = append(rides, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rides: %w", err)
	}
	return rides, nil
}

// ListRides returns all rides, oldest first.
func (rs *RideStoreImpl) ListRides(withPoints bool) ([]schema.Ride, error) {
	if rs.disabled() {
		return []schema.Ride{}, nil
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY start_time, id", rideColumns, rs.table(ridesTable))
	rides, err := rs.queryRides(query)
	if err != nil {
		return nil, err
	}
	if !withPoints {
		return rides, nil
	}

	points, err := rs.loadPoints("")
	if err != nil {
		return nil, err
	}
	for i := range rides {
		rides[i].TrackPoints = points[rides[i].ID]
		if rides[i].TrackPoints == nil {
			rides[i].TrackPoints = []schema.TrackPoint{}
		}
	}
	return rides, nil
}

// ListRidesPage returns one page of rides, newest first, without track points.
func (rs *RideStoreImpl) ListRidesPage(page, size int) ([]schema.Ride, error) {
	if page < 1 || size < 1 {
		return nil, fmt.Errorf("invalid page %d with size %d", page, size)
	}
	if rs.disabled() {
		return []schema.Ride{}, nil
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY start_time DESC, id DESC LIMIT %s OFFSET %s",
		rideColumns, rs.table(ridesTable), placeholder(rs.backend, 1), placeholder(rs.backend, 2))
	return rs.queryRides(query, size, (page-1)*size)
}

// GetRide returns a single ride by ID.
func (rs *RideStoreImpl) GetRide(id string, withPoints bool) (schema.Ride, error) {
	if rs.disabled() {
		return schema.Ride{}, fmt.Errorf("ride %s: %w", id, contract.ErrRideNotFound)
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = %s", rideColumns, rs.table(ridesTable), placeholder(rs.backend, 1))
	r, err := scanRide(rs.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return schema.Ride{}, fmt.Errorf("ride %s: %w", id, contract.ErrRideNotFound)
	}
	if err != nil {
		return schema.Ride{}, fmt.Errorf("failed to get ride %s: %w", id, err)
	}
	if !withPoints {
		return r, nil
	}

	points, err := rs.loadPoints(id)
	if err != nil {
		return schema.Ride{}, err
	}
	r.TrackPoints = points[id]
	if r.TrackPoints == nil {
		r.TrackPoints = []schema.TrackPoint{}
	}
	return r, nil
}

// loadPoints returns track points grouped by ride, in recorded order.
// An empty rideID loads points for every ride.
func (rs *RideStoreImpl) loadPoints(rideID string) (map[string][]schema.TrackPoint, error) {
	query := fmt.Sprintf("SELECT ride_id, point_time, latitude, longitude, elevation, hdop, speed FROM %s", rs.table(trackPointsTable))
	var args []any
	if rideID != "" {
		query += " WHERE ride_id = " + placeholder(rs.backend, 1)
		args = append(args, rideID)
	}
	query += " ORDER BY ride_id, seq"

	rows, err := rs.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query track points: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string][]schema.TrackPoint)
	for rows.Next() {
		var p schema.TrackPoint
		var ts int64
		if err := rows.Scan(&p.RideID, &ts, &p.Latitude, &p.Longitude, &p.Elevation, &p.Hdop, &p.Speed); err != nil {
			return nil, fmt.Errorf("failed to scan track point: %w", err)
		}
		p.Time = fromNanos(ts)
		result[p.RideID] = append(result[p.RideID], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating track points: %w", err)
	}
	return result, nil
}

// CountRides returns the number of stored rides.
func (rs *RideStoreImpl) CountRides() (int, error) {
	if rs.disabled() {
		return 0, nil
	}
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", rs.table(ridesTable))
	if err := rs.db.QueryRow(query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rides: %w", err)
	}
	return count, nil
}

// Totals sums distance and maneuvers over all rides.
func (rs *RideStoreImpl) Totals() (schema.RideTotals, error) {
	var totals schema.RideTotals
	if rs.disabled() {
		return totals, nil
	}

	query := fmt.Sprintf(`SELECT COUNT(*), COALESCE(SUM(distance), 0), COALESCE(SUM(fast_acceleration_count), 0),
		COALESCE(SUM(fast_deceleration_count), 0), COALESCE(AVG(smoothness_score), 0) FROM %s`, rs.table(ridesTable))
	err := rs.db.QueryRow(query).Scan(&totals.Count, &totals.Distance, &totals.FastAccelerations,
		&totals.FastDecelerations, &totals.SmoothnessScore)
	if err != nil {
		return totals, fmt.Errorf("failed to compute ride totals: %w", err)
	}
	return totals, nil
}

// Generation returns the latest ingest batch generation, or 0 for an empty store.
func (rs *RideStoreImpl) Generation() (int64, error) {
	if rs.disabled() {
		return 0, nil
	}
	var generation int64
	query := fmt.Sprintf("SELECT COALESCE(MAX(created_at), 0) FROM %s", rs.table(batchesTable))
	if err := rs.db.QueryRow(query).Scan(&generation); err != nil {
		return 0, fmt.Errorf("failed to read ride generation: %w", err)
	}
	return generation, nil
}

// Close closes the underlying connection.
func (rs *RideStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the ride store.
func (rs *RideStoreImpl) GetStatus() (schema.RideStoreStatus, error) {
	status := schema.RideStoreStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if rs.disabled() {
		return status, nil
	}

	for _, table := range rideTables {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", rs.table(table))
		if err := rs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalRides = int(status.TableSizes[ridesTable])
	status.TotalPoints = int(status.TableSizes[trackPointsTable])
	status.TotalBatches = int(status.TableSizes[batchesTable])

	if status.TotalBatches == 0 {
		return status, nil
	}

	var first, last int64
	rangeQuery := fmt.Sprintf("SELECT MIN(created_at), MAX(created_at) FROM %s", rs.table(batchesTable))
	if err := rs.db.QueryRow(rangeQuery).Scan(&first, &last); err != nil {
		return status, fmt.Errorf("failed to get ingest time range: %w", err)
	}
	status.Generation = last
	status.FirstIngestTime = fromNanos(first)
	status.LastIngestTime = fromNanos(last)

	return status, nil
}
