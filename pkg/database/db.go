// Package database is the MySQL corpus store for regions, producers, wines
// and bottles. Name columns use an accent/case-insensitive collation
// (utf8mb4_0900_ai_ci), so plain equality and LIKE comparisons already
// ignore case and diacritics; the exact-match guarantee of the duplicate
// check rests on that collation, not on any Go-side normalization.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"cellar-registry/internal/constants"
	"cellar-registry/internal/models"
	"cellar-registry/pkg/config"
	errs "cellar-registry/pkg/errors"
)

type DB struct {
	conn         *sql.DB
	stmts        map[string]*sql.Stmt
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func New(databaseURL string) (*DB, error) {
	conn, err := sql.Open("mysql", databaseURL)
	if err != nil {
		return nil, err
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(10)
	conn.SetConnMaxLifetime(10 * time.Minute)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	db := &DB{
		conn:         conn,
		stmts:        make(map[string]*sql.Stmt),
		readTimeout:  constants.DBReadTimeoutDefault,
		writeTimeout: constants.DBWriteTimeoutDefault,
	}

	if err := db.prepareStatements(); err != nil {
		return nil, errs.NewDB("database.New", "failed to prepare statements", err)
	}

	return db, nil
}

// NewWithConfig creates a database connection with pool settings from config.
func NewWithConfig(databaseURL string, cfg *config.Config) (*DB, error) {
	conn, err := sql.Open("mysql", databaseURL)
	if err != nil {
		return nil, err
	}

	conn.SetMaxOpenConns(cfg.DBMaxOpenConns)
	conn.SetMaxIdleConns(cfg.DBMaxIdleConns)
	conn.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetime) * time.Minute)
	conn.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTime) * time.Minute)

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	rt := cfg.DBReadTimeout
	if rt == 0 {
		rt = constants.DBReadTimeoutDefault
	}
	wt := cfg.DBWriteTimeout
	if wt == 0 {
		wt = constants.DBWriteTimeoutDefault
	}

	db := &DB{
		conn:         conn,
		stmts:        make(map[string]*sql.Stmt),
		readTimeout:  rt,
		writeTimeout: wt,
	}

	if err := db.prepareStatements(); err != nil {
		return nil, errs.NewDB("database.NewWithConfig", "failed to prepare statements", err)
	}

	return db, nil
}

// prepareStatements prepares the write statements used by the creation
// workflow. Read queries are built per call because their predicates vary.
func (db *DB) prepareStatements() error {
	statements := map[string]string{
		"insertRegion":   `INSERT INTO regions (name, created_at) VALUES (?, NOW())`,
		"insertProducer": `INSERT INTO producers (name, region_id, created_at) VALUES (?, ?, NOW())`,
		"insertWine":     `INSERT INTO wines (name, producer_id, year, non_vintage, created_at) VALUES (?, ?, ?, ?, NOW())`,
	}

	for name, query := range statements {
		stmt, err := db.conn.Prepare(query)
		if err != nil {
			return errs.NewDB("database.prepareStatements", fmt.Sprintf("failed to prepare statement %s", name), err)
		}
		db.stmts[name] = stmt
	}

	return nil
}

// Close closes the database connection and prepared statements.
func (db *DB) Close() error {
	for _, stmt := range db.stmts {
		stmt.Close()
	}
	return db.conn.Close()
}

// Conn exposes the raw connection for integration test harnesses.
func (db *DB) Conn() *sql.DB { return db.conn }

// PingCtx checks connectivity for health reporting.
func (db *DB) PingCtx(ctx context.Context) error {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()
	return db.conn.PingContext(ctx)
}

func (db *DB) withReadTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, db.readTimeout)
}

func (db *DB) withWriteTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, db.writeTimeout)
}

// likeClauses builds OR'd substring predicates over the given column for
// the coarse candidate filter. Tokens arrive already article- and
// accent-stripped; the column collation handles case and accents on the
// stored side.
func likeClauses(column string, tokens []string) (string, []interface{}) {
	var clauses []string
	var args []interface{}
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		clauses = append(clauses, column+" LIKE ?")
		args = append(args, "%"+tok+"%")
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return "(" + strings.Join(clauses, " OR ") + ")", args
}

// FindRegionsByNameCtx runs the unconditional collation-based exact lookup
// for regions. It is independent of the candidate filter so exact matches
// can never be missed by an imperfect recall heuristic.
func (db *DB) FindRegionsByNameCtx(ctx context.Context, name string) ([]models.Region, error) {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `SELECT id, name FROM regions WHERE name = ? ORDER BY id`, name)
	if err != nil {
		return nil, errs.NewDB("database.FindRegionsByNameCtx", "failed to query regions by name", err)
	}
	defer rows.Close()
	return scanRegions(rows)
}

// ListRegionCandidatesCtx returns a bounded candidate set for the fuzzy
// comparison stage.
func (db *DB) ListRegionCandidatesCtx(ctx context.Context, tokens []string, limit int) ([]models.Region, error) {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	where, args := likeClauses("name", tokens)
	if where == "" {
		return []models.Region{}, nil
	}
	query := fmt.Sprintf(`SELECT id, name FROM regions WHERE %s ORDER BY name LIMIT ?`, where)
	args = append(args, limit)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.NewDB("database.ListRegionCandidatesCtx", "failed to query region candidates", err)
	}
	defer rows.Close()
	return scanRegions(rows)
}

func scanRegions(rows *sql.Rows) ([]models.Region, error) {
	regions := []models.Region{}
	for rows.Next() {
		var r models.Region
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, errs.NewDB("database.scanRegions", "failed to scan region row", err)
		}
		regions = append(regions, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewDB("database.scanRegions", "failed reading region rows", err)
	}
	return regions, nil
}

// FindProducersByNameCtx runs the collation-based exact lookup for
// producers, deliberately without region filtering.
func (db *DB) FindProducersByNameCtx(ctx context.Context, name string) ([]models.Producer, error) {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	query := `SELECT p.id, p.name, p.region_id, r.name
        FROM producers p
        LEFT JOIN regions r ON p.region_id = r.id
        WHERE p.name = ?
        ORDER BY p.id`
	rows, err := db.conn.QueryContext(ctx, query, name)
	if err != nil {
		return nil, errs.NewDB("database.FindProducersByNameCtx", "failed to query producers by name", err)
	}
	defer rows.Close()
	return scanProducers(rows)
}

// ListProducerCandidatesCtx returns a bounded producer candidate set.
func (db *DB) ListProducerCandidatesCtx(ctx context.Context, tokens []string, limit int) ([]models.Producer, error) {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	where, args := likeClauses("p.name", tokens)
	if where == "" {
		return []models.Producer{}, nil
	}
	query := fmt.Sprintf(`SELECT p.id, p.name, p.region_id, r.name
        FROM producers p
        LEFT JOIN regions r ON p.region_id = r.id
        WHERE %s
        ORDER BY p.name
        LIMIT ?`, where)
	args = append(args, limit)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.NewDB("database.ListProducerCandidatesCtx", "failed to query producer candidates", err)
	}
	defer rows.Close()
	return scanProducers(rows)
}

func scanProducers(rows *sql.Rows) ([]models.Producer, error) {
	producers := []models.Producer{}
	for rows.Next() {
		var p models.Producer
		var regionID sql.NullInt64
		var regionName sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &regionID, &regionName); err != nil {
			return nil, errs.NewDB("database.scanProducers", "failed to scan producer row", err)
		}
		if regionID.Valid {
			id := regionID.Int64
			p.RegionID = &id
		}
		if regionName.Valid {
			name := regionName.String
			p.RegionName = &name
		}
		producers = append(producers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewDB("database.scanProducers", "failed reading producer rows", err)
	}
	return producers, nil
}

// wineScope renders the optional producer scoping into SQL. Both id and
// name may be present; id wins because it is unambiguous.
func wineScope(scope models.ProducerScope) (string, []interface{}) {
	if scope.ProducerID != nil {
		return " AND w.producer_id = ?", []interface{}{*scope.ProducerID}
	}
	if scope.ProducerName != nil {
		return " AND p.name = ?", []interface{}{*scope.ProducerName}
	}
	return "", nil
}

const wineSelect = `SELECT w.id, w.name, w.producer_id, p.name, w.year, w.non_vintage,
        (SELECT COUNT(*) FROM bottles b WHERE b.wine_id = w.id AND b.consumed_at IS NULL)
        FROM wines w
        JOIN producers p ON w.producer_id = p.id`

// FindWinesByNameCtx runs the collation-based exact lookup for wines,
// optionally scoped to one producer. Bottle counts ride along so the
// resolver can report on-hand stock without a second round trip.
func (db *DB) FindWinesByNameCtx(ctx context.Context, name string, scope models.ProducerScope) ([]models.Wine, error) {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	scopeSQL, scopeArgs := wineScope(scope)
	query := wineSelect + ` WHERE w.name = ?` + scopeSQL + ` ORDER BY w.id`
	args := append([]interface{}{name}, scopeArgs...)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.NewDB("database.FindWinesByNameCtx", "failed to query wines by name", err)
	}
	defer rows.Close()
	return scanWines(rows)
}

// ListWineCandidatesCtx returns a bounded wine candidate set, scoped to a
// producer when one was supplied.
func (db *DB) ListWineCandidatesCtx(ctx context.Context, tokens []string, scope models.ProducerScope, limit int) ([]models.Wine, error) {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	where, args := likeClauses("w.name", tokens)
	if where == "" {
		return []models.Wine{}, nil
	}
	scopeSQL, scopeArgs := wineScope(scope)
	query := wineSelect + ` WHERE ` + where + scopeSQL + ` ORDER BY w.name LIMIT ?`
	args = append(args, scopeArgs...)
	args = append(args, limit)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.NewDB("database.ListWineCandidatesCtx", "failed to query wine candidates", err)
	}
	defer rows.Close()
	return scanWines(rows)
}

func scanWines(rows *sql.Rows) ([]models.Wine, error) {
	wines := []models.Wine{}
	for rows.Next() {
		var w models.Wine
		var year sql.NullInt64
		if err := rows.Scan(&w.ID, &w.Name, &w.ProducerID, &w.ProducerName, &year, &w.NonVintage, &w.BottleCount); err != nil {
			return nil, errs.NewDB("database.scanWines", "failed to scan wine row", err)
		}
		if year.Valid {
			y := int(year.Int64)
			w.Year = &y
		}
		wines = append(wines, w)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewDB("database.scanWines", "failed reading wine rows", err)
	}
	return wines, nil
}

// CreateRegionCtx inserts a region and returns its id.
func (db *DB) CreateRegionCtx(ctx context.Context, name string) (int64, error) {
	ctx, cancel := db.withWriteTimeout(ctx)
	defer cancel()

	res, err := db.stmts["insertRegion"].ExecContext(ctx, name)
	if err != nil {
		return 0, errs.NewDB("database.CreateRegionCtx", "failed to insert region", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errs.NewDB("database.CreateRegionCtx", "failed to read region insert id", err)
	}
	return id, nil
}

// CreateProducerCtx inserts a producer and returns its id.
func (db *DB) CreateProducerCtx(ctx context.Context, name string, regionID *int64) (int64, error) {
	ctx, cancel := db.withWriteTimeout(ctx)
	defer cancel()

	var region interface{}
	if regionID != nil {
		region = *regionID
	}
	res, err := db.stmts["insertProducer"].ExecContext(ctx, name, region)
	if err != nil {
		return 0, errs.NewDB("database.CreateProducerCtx", "failed to insert producer", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errs.NewDB("database.CreateProducerCtx", "failed to read producer insert id", err)
	}
	return id, nil
}

// CreateWineCtx inserts a wine. A nil vintage means non-vintage.
func (db *DB) CreateWineCtx(ctx context.Context, name string, producerID int64, vintage *models.Vintage) (int64, error) {
	ctx, cancel := db.withWriteTimeout(ctx)
	defer cancel()

	var year interface{}
	nonVintage := true
	if vintage != nil && !vintage.NonVintage {
		year = vintage.Year
		nonVintage = false
	}
	res, err := db.stmts["insertWine"].ExecContext(ctx, name, producerID, year, nonVintage)
	if err != nil {
		return 0, errs.NewDB("database.CreateWineCtx", "failed to insert wine", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errs.NewDB("database.CreateWineCtx", "failed to read wine insert id", err)
	}
	return id, nil
}
