package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect registration
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/htol/bookshelf/book"
	"github.com/htol/bookshelf/logger"
)

const (
	dialectSQLite = "sqlite3"
	tableBooks    = "books"
	colSeq        = "seq"
	colID         = "id"
	colTitle      = "title"
	colAuthor     = "author"
)

// seq preserves insertion order; id can repeat under IDFromCount
const schema = `
CREATE TABLE IF NOT EXISTS books (
    seq    INTEGER PRIMARY KEY AUTOINCREMENT,
    id     INTEGER NOT NULL,
    title  TEXT NOT NULL,
    author TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS I_books_id ON books (id);
`

// SQLiteRepo stores books in a private in-memory SQLite database.
// Nothing survives Close.
type SQLiteRepo struct {
	db      *sqlx.DB
	dialect goqu.DialectWrapper

	mu  sync.Mutex
	ids *idAllocator
}

type bookRow struct {
	Seq int64 `db:"seq"`
	book.Book
}

// NewSQLite opens an in-memory database, creates the schema and inserts seed
func NewSQLite(strategy IDStrategy, seed []book.Book) (*SQLiteRepo, error) {
	db, err := sqlx.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Every connection to :memory: is a separate database, so pin exactly one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	r := &SQLiteRepo{
		db:      db,
		dialect: goqu.Dialect(dialectSQLite),
		ids:     newIDAllocator(strategy, seed),
	}

	if err := r.insertSeed(seed); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Debug("SQLite registry ready", "books", len(seed), "id_strategy", strategy.String())
	return r, nil
}

func (r *SQLiteRepo) insertSeed(seed []book.Book) error {
	if len(seed) == 0 {
		return nil
	}
	rows := make([]any, 0, len(seed))
	for _, b := range seed {
		rows = append(rows, goqu.Record{colID: b.ID, colTitle: b.Title, colAuthor: b.Author})
	}
	query, args, err := r.dialect.Insert(tableBooks).Prepared(true).Rows(rows...).ToSQL()
	if err != nil {
		return fmt.Errorf("build seed insert: %w", err)
	}
	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("insert seed: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) List(ctx context.Context) ([]book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	query, args, err := r.dialect.From(tableBooks).Prepared(true).
		Select(colID, colTitle, colAuthor).
		Order(goqu.I(colSeq).Asc()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	books := []book.Book{}
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, fmt.Errorf("select books: %w", err)
	}
	return books, nil
}

func (r *SQLiteRepo) Create(ctx context.Context, in book.Input) (book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return book.Book{}, fmt.Errorf("begin: %w", err)
	}
	defer rollback(tx)

	countQuery, args, err := r.dialect.From(tableBooks).Prepared(true).
		Select(goqu.COUNT(goqu.Star())).
		ToSQL()
	if err != nil {
		return book.Book{}, fmt.Errorf("build count: %w", err)
	}
	var count int
	if err := tx.GetContext(ctx, &count, countQuery, args...); err != nil {
		return book.Book{}, fmt.Errorf("count books: %w", err)
	}

	b := book.Book{
		ID:     r.ids.next(count),
		Title:  in.Title,
		Author: in.Author,
	}

	insertQuery, args, err := r.dialect.Insert(tableBooks).Prepared(true).
		Rows(goqu.Record{colID: b.ID, colTitle: b.Title, colAuthor: b.Author}).
		ToSQL()
	if err != nil {
		return book.Book{}, fmt.Errorf("build insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, insertQuery, args...); err != nil {
		return book.Book{}, fmt.Errorf("insert book: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return book.Book{}, fmt.Errorf("commit: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepo) Delete(ctx context.Context, id uint64) (book.Book, error) {
	// SQLite integers are signed 64-bit; nothing larger can be stored.
	if id > math.MaxInt64 {
		return book.Book{}, ErrNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return book.Book{}, fmt.Errorf("begin: %w", err)
	}
	defer rollback(tx)

	findQuery, args, err := r.dialect.From(tableBooks).Prepared(true).
		Select(colSeq, colID, colTitle, colAuthor).
		Where(goqu.C(colID).Eq(id)).
		Order(goqu.I(colSeq).Asc()).
		Limit(1).
		ToSQL()
	if err != nil {
		return book.Book{}, fmt.Errorf("build find: %w", err)
	}

	var row bookRow
	if err := tx.GetContext(ctx, &row, findQuery, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return book.Book{}, ErrNotFound
		}
		return book.Book{}, fmt.Errorf("find book %d: %w", id, err)
	}

	deleteQuery, args, err := r.dialect.Delete(tableBooks).Prepared(true).
		Where(goqu.C(colSeq).Eq(row.Seq)).
		ToSQL()
	if err != nil {
		return book.Book{}, fmt.Errorf("build delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, args...); err != nil {
		return book.Book{}, fmt.Errorf("delete book %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return book.Book{}, fmt.Errorf("commit: %w", err)
	}
	return row.Book, nil
}

func (r *SQLiteRepo) Ping(ctx context.Context) error {
	if r.db != nil {
		return r.db.PingContext(ctx)
	}
	return sql.ErrConnDone
}

func (r *SQLiteRepo) Close() error {
	if r.db != nil {
		logger.Info("Closing database connection")
		return r.db.Close()
	}
	return nil
}

func rollback(tx *sqlx.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		logger.Warn("Failed to rollback transaction", "error", err)
	}
}
