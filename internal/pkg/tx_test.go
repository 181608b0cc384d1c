package pkg

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// fakeConn is a gorm.ConnPool that records how a transaction ended. As the
// pool of the outer *gorm.DB it also implements gorm.ConnPoolBeginner.
type fakeConn struct {
	beginErr   error
	tx         *fakeConn
	committed  bool
	rolledBack bool
}

func (f *fakeConn) PrepareContext(context.Context, string) (*sql.Stmt, error) { return nil, nil }
func (f *fakeConn) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, nil
}
func (f *fakeConn) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, nil
}
func (f *fakeConn) QueryRowContext(context.Context, string, ...any) *sql.Row { return nil }

func (f *fakeConn) BeginTx(context.Context, *sql.TxOptions) (gorm.ConnPool, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	f.tx = &fakeConn{}
	return f.tx, nil
}

func (f *fakeConn) Commit() error   { f.committed = true; return nil }
func (f *fakeConn) Rollback() error { f.rolledBack = true; return nil }

func newFakeDB(pool *fakeConn) *gorm.DB {
	db := &gorm.DB{Config: &gorm.Config{}}
	db.Statement = &gorm.Statement{DB: db, ConnPool: pool}
	return db
}

func TestWithTx_Outcomes(t *testing.T) {
	fnErr := errors.New("stock update failed")
	beginErr := errors.New("begin failed")

	tests := []struct {
		name         string
		beginErr     error
		fnErr        error
		wantErr      error
		wantCalled   bool
		wantCommit   bool
		wantRollback bool
	}{
		{name: "commit on success", wantCalled: true, wantCommit: true},
		{name: "rollback on fn error", fnErr: fnErr, wantErr: fnErr, wantCalled: true, wantRollback: true},
		{name: "begin error skips fn", beginErr: beginErr, wantErr: beginErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := &fakeConn{beginErr: tt.beginErr}
			called := false

			err := WithTx(newFakeDB(pool), func(*gorm.DB) error {
				called = true
				return tt.fnErr
			})

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("WithTx() error = %v, want %v", err, tt.wantErr)
			}
			if called != tt.wantCalled {
				t.Fatalf("fn called = %v, want %v", called, tt.wantCalled)
			}
			if pool.tx == nil {
				return
			}
			if pool.tx.committed != tt.wantCommit || pool.tx.rolledBack != tt.wantRollback {
				t.Fatalf("committed=%v rolledBack=%v, want %v/%v",
					pool.tx.committed, pool.tx.rolledBack, tt.wantCommit, tt.wantRollback)
			}
		})
	}
}

func TestWithTx_RollbackAndRepanic(t *testing.T) {
	pool := &fakeConn{}

	defer func() {
		if r := recover(); r != "boom" {
			t.Fatalf("recovered %v, want re-raised panic \"boom\"", r)
		}
		if pool.tx == nil || !pool.tx.rolledBack || pool.tx.committed {
			t.Fatal("expected rollback without commit on panic")
		}
	}()

	_ = WithTx(newFakeDB(pool), func(*gorm.DB) error {
		panic("boom")
	})
}

// --- SQLite integration tests ---

type stockRow struct {
	ID  uint   `gorm:"primaryKey"`
	SKU string `gorm:"size:32;uniqueIndex"`
}

func newStockDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "tx.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&stockRow{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func countStock(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&stockRow{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestWithTx_SQLite(t *testing.T) {
	errAbort := errors.New("abort")

	tests := []struct {
		name      string
		fn        func(tx *gorm.DB) error
		wantErr   error
		wantPanic bool
		wantRows  int64
	}{
		{
			name:     "commit",
			fn:       func(tx *gorm.DB) error { return tx.Create(&stockRow{SKU: "P-1"}).Error },
			wantRows: 1,
		},
		{
			name: "rollback on error",
			fn: func(tx *gorm.DB) error {
				if err := tx.Create(&stockRow{SKU: "P-2"}).Error; err != nil {
					return err
				}
				return errAbort
			},
			wantErr: errAbort,
		},
		{
			name: "rollback on panic",
			fn: func(tx *gorm.DB) error {
				if err := tx.Create(&stockRow{SKU: "P-3"}).Error; err != nil {
					return err
				}
				panic("kaboom")
			},
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newStockDB(t)

			var err error
			panicked := func() (p bool) {
				defer func() { p = recover() != nil }()
				err = WithTx(db, tt.fn)
				return false
			}()

			if panicked != tt.wantPanic {
				t.Fatalf("panicked = %v, want %v", panicked, tt.wantPanic)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("WithTx() error = %v, want %v", err, tt.wantErr)
			}
			if got := countStock(t, db); got != tt.wantRows {
				t.Fatalf("rows = %d, want %d", got, tt.wantRows)
			}
		})
	}
}

func TestTransactor_CommitsAndSharesTx(t *testing.T) {
	db := newStockDB(t)
	tr := NewTransactor(db)

	err := tr.InTx(context.Background(), func(ctx context.Context) error {
		if err := Conn(ctx, db).Create(&stockRow{SKU: "A-1"}).Error; err != nil {
			return err
		}
		// Reads inside the transaction see its own writes.
		var count int64
		if err := Conn(ctx, db).Model(&stockRow{}).Count(&count).Error; err != nil {
			return err
		}
		if count != 1 {
			t.Errorf("count inside tx = %d, want 1", count)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("InTx() error = %v", err)
	}

	if got := countStock(t, db); got != 1 {
		t.Fatalf("expected 1 row after commit, got %d", got)
	}
}

func TestTransactor_RollbackOnError(t *testing.T) {
	db := newStockDB(t)
	tr := NewTransactor(db)

	fnErr := errors.New("mail failed")
	err := tr.InTx(context.Background(), func(ctx context.Context) error {
		if err := Conn(ctx, db).Create(&stockRow{SKU: "A-2"}).Error; err != nil {
			t.Fatalf("insert should succeed: %v", err)
		}
		return fnErr
	})
	if !errors.Is(err, fnErr) {
		t.Fatalf("expected fn error, got %v", err)
	}

	if got := countStock(t, db); got != 0 {
		t.Fatalf("expected 0 rows after rollback, got %d", got)
	}
}

func TestTransactor_NestedJoinsOuter(t *testing.T) {
	db := newStockDB(t)
	tr := NewTransactor(db)

	outerErr := errors.New("outer failed")
	err := tr.InTx(context.Background(), func(ctx context.Context) error {
		if err := tr.InTx(ctx, func(ctx context.Context) error {
			return Conn(ctx, db).Create(&stockRow{SKU: "A-3"}).Error
		}); err != nil {
			return err
		}
		return outerErr
	})
	if !errors.Is(err, outerErr) {
		t.Fatalf("expected outer error, got %v", err)
	}

	if got := countStock(t, db); got != 0 {
		t.Fatalf("inner write should roll back with the outer tx, got %d rows", got)
	}
}

func TestConn_WithoutTx(t *testing.T) {
	db := newStockDB(t)
	conn := Conn(context.Background(), db)
	if err := conn.Create(&stockRow{SKU: "A-4"}).Error; err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	var item stockRow
	if err := db.First(&item).Error; err != nil {
		t.Fatalf("First() error = %v", err)
	}
	if item.SKU != "A-4" {
		t.Errorf("SKU = %q, want %q", item.SKU, "A-4")
	}
}
