package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"MarketAdvisor/internal/model"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const sqliteDateLayout = "2006-01-02"

// SQLiteStore keeps price histories in a SQLite database. It resolves
// symbols the same way CSVStore does.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, &AccessError{Op: "mkdir", Path: filepath.Dir(dbPath), Err: err}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	zap.L().Info("sqlite store opened", zap.String("path", dbPath))
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS prices (
			symbol    TEXT NOT NULL,
			category  TEXT NOT NULL,
			date      TEXT NOT NULL,
			open      REAL NOT NULL,
			high      REAL NOT NULL,
			low       REAL NOT NULL,
			close     REAL NOT NULL,
			volume    INTEGER NOT NULL,
			PRIMARY KEY (symbol, category, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prices_symbol ON prices(symbol COLLATE NOCASE)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// Load returns the stored history of symbol. Without a category the
// categories are searched in lexical order, trying each candidate name.
func (s *SQLiteStore) Load(symbol, category string) (*model.PriceSeries, error) {
	var names []string
	if category != "" {
		names = []string{NormalizeSymbol(symbol)}
	} else {
		names = candidates(symbol)
	}

	cat, name, err := s.resolve(names, category)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, unavailable(symbol, "not in %s", s.path)
	}

	rows, err := s.db.Query(`SELECT date, open, high, low, close, volume FROM prices
		WHERE symbol = ? AND category = ? ORDER BY date`, name, cat)
	if err != nil {
		return nil, &AccessError{Op: "query", Path: s.path, Err: err}
	}
	defer rows.Close()

	var points []model.PricePoint
	for rows.Next() {
		var date string
		var p model.PricePoint
		if err := rows.Scan(&date, &p.Open, &p.High, &p.Low, &p.Close, &p.Volume); err != nil {
			return nil, &AccessError{Op: "scan", Path: s.path, Err: err}
		}
		t, err := time.Parse(sqliteDateLayout, date)
		if err != nil {
			continue
		}
		p.Date = t
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &AccessError{Op: "query", Path: s.path, Err: err}
	}
	if len(points) == 0 {
		return nil, unavailable(symbol, "no usable rows")
	}
	return &model.PriceSeries{Symbol: symbol, Category: cat, Points: points}, nil
}

// resolve finds the first (category, symbol) pair holding rows for one of
// names, honouring the priority of names within each category.
func (s *SQLiteStore) resolve(names []string, category string) (cat, name string, err error) {
	query := `SELECT DISTINCT category, symbol FROM prices ORDER BY category`
	args := []any{}
	if category != "" {
		query = `SELECT DISTINCT category, symbol FROM prices WHERE category = ? COLLATE NOCASE ORDER BY category`
		args = append(args, category)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return "", "", &AccessError{Op: "query", Path: s.path, Err: err}
	}
	defer rows.Close()

	stored := map[string][]string{}
	var order []string
	for rows.Next() {
		var c, sym string
		if err := rows.Scan(&c, &sym); err != nil {
			return "", "", &AccessError{Op: "scan", Path: s.path, Err: err}
		}
		if _, seen := stored[c]; !seen {
			order = append(order, c)
		}
		stored[c] = append(stored[c], sym)
	}
	if err := rows.Err(); err != nil {
		return "", "", &AccessError{Op: "query", Path: s.path, Err: err}
	}

	for _, c := range order {
		for _, want := range names {
			for _, sym := range stored[c] {
				if strings.EqualFold(sym, want) {
					return c, sym, nil
				}
			}
		}
	}
	return "", "", nil
}

// Write replaces the stored history of symbol in category.
func (s *SQLiteStore) Write(category, symbol string, points []model.PricePoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := NormalizeSymbol(symbol)
	tx, err := s.db.Begin()
	if err != nil {
		return &AccessError{Op: "begin", Path: s.path, Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM prices WHERE symbol = ? AND category = ?`, name, category); err != nil {
		return &AccessError{Op: "delete", Path: s.path, Err: err}
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO prices
		(symbol, category, date, open, high, low, close, volume)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return &AccessError{Op: "prepare", Path: s.path, Err: err}
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.Exec(name, category, p.Date.Format(sqliteDateLayout),
			p.Open, p.High, p.Low, p.Close, p.Volume); err != nil {
			return &AccessError{Op: "insert", Path: s.path, Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &AccessError{Op: "commit", Path: s.path, Err: err}
	}
	return nil
}

// Symbols lists every stored series.
func (s *SQLiteStore) Symbols() ([]SymbolRef, error) {
	rows, err := s.db.Query(`SELECT DISTINCT category, symbol FROM prices ORDER BY category, symbol`)
	if err != nil {
		return nil, &AccessError{Op: "query", Path: s.path, Err: err}
	}
	defer rows.Close()

	var refs []SymbolRef
	for rows.Next() {
		var ref SymbolRef
		if err := rows.Scan(&ref.Category, &ref.Symbol); err != nil {
			return nil, &AccessError{Op: "scan", Path: s.path, Err: err}
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// Source is a store that can enumerate and load its series.
type Source interface {
	Loader
	Lister
}

// Import copies every series readable from src into the database. Series
// without usable rows are skipped.
func (s *SQLiteStore) Import(src Source) (int, error) {
	refs, err := src.Symbols()
	if err != nil {
		return 0, err
	}
	imported := 0
	for _, ref := range refs {
		series, err := src.Load(ref.Symbol, ref.Category)
		if errors.Is(err, ErrUnavailable) {
			zap.L().Warn("skip series", zap.String("category", ref.Category), zap.String("symbol", ref.Symbol), zap.Error(err))
			continue
		}
		if err != nil {
			return imported, err
		}
		if err := s.Write(ref.Category, ref.Symbol, series.Points); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

func (s *SQLiteStore) Close() error {
	zap.L().Info("closing sqlite store", zap.String("path", s.path))
	return s.db.Close()
}
