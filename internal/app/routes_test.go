package app

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/simp-lee/shopgraph/internal/pkg"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func getHealth(t *testing.T, db *gorm.DB, rdb *redis.Client) (int, map[string]any) {
	t.Helper()
	r := gin.New()
	r.GET("/health", healthHandler(db, rdb))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return w.Code, body
}

func components(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	comps, ok := body["components"].(map[string]any)
	if !ok {
		t.Fatalf("missing components in %v", body)
	}
	return comps
}

// --- Health check tests ---

func TestHealthHandler_OK(t *testing.T) {
	code, body := getHealth(t, openTestSQLiteDB(t), nil)

	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
	comps := components(t, body)
	if comps["database"] != "ok" {
		t.Errorf("expected database ok, got %v", comps["database"])
	}
	if _, ok := comps["redis"]; ok {
		t.Errorf("redis component should be absent when redis is disabled")
	}
}

func TestHealthHandler_DBDown(t *testing.T) {
	db := openTestSQLiteDB(t)
	// Close the underlying sql.DB so Ping fails.
	sqlDB, _ := db.DB()
	sqlDB.Close()

	code, body := getHealth(t, db, nil)

	if code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", code)
	}
	if body["status"] != "degraded" {
		t.Errorf("expected status degraded, got %v", body["status"])
	}
	if comps := components(t, body); comps["database"] != "error" {
		t.Errorf("expected database error, got %v", comps["database"])
	}
}

func TestHealthHandler_NilDB(t *testing.T) {
	code, body := getHealth(t, nil, nil)
	if code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", code)
	}
	if comps := components(t, body); comps["database"] != "error" {
		t.Errorf("expected database error, got %v", comps["database"])
	}
}

func TestHealthHandler_Redis(t *testing.T) {
	t.Run("up", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })

		code, body := getHealth(t, openTestSQLiteDB(t), rdb)
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		if comps := components(t, body); comps["redis"] != "ok" {
			t.Errorf("expected redis ok, got %v", comps["redis"])
		}
	})

	t.Run("down", func(t *testing.T) {
		mr := miniredis.NewMiniRedis()
		if err := mr.Start(); err != nil {
			t.Fatalf("start miniredis: %v", err)
		}
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
		t.Cleanup(func() { _ = rdb.Close() })
		mr.Close()

		code, body := getHealth(t, openTestSQLiteDB(t), rdb)
		if code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", code)
		}
		if body["status"] != "degraded" {
			t.Errorf("expected status degraded, got %v", body["status"])
		}
		comps := components(t, body)
		if comps["redis"] != "error" {
			t.Errorf("expected redis error, got %v", comps["redis"])
		}
		if comps["database"] != "ok" {
			t.Errorf("expected database ok, got %v", comps["database"])
		}
	})
}

func TestHealthHandler_UsesRequestContextTimeout(t *testing.T) {
	registerBlockingPingDriver()

	sqlDB, err := sql.Open(blockingPingDriverName, "")
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}

	r := gin.New()
	r.GET("/health", healthHandler(db, nil))

	reqCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	t.Cleanup(cancel)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil).WithContext(reqCtx)

	start := time.Now()
	r.ServeHTTP(w, req)
	elapsed := time.Since(start)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if elapsed > 300*time.Millisecond {
		t.Fatalf("expected health response to honor request context timeout, elapsed=%v", elapsed)
	}
}

// --- NoRoute handler tests ---

func TestNoRouteHandler_JSON(t *testing.T) {
	r := gin.New()
	r.NoRoute(noRouteHandler())

	for _, path := range []string{"/nonexistent", "/graphql/extra", "/api/v1/users"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		if w.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, w.Code)
		}
		var resp pkg.Response
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: unmarshal: %v", path, err)
		}
		if resp.Code != http.StatusNotFound || resp.Message != "not found" {
			t.Fatalf("%s: resp = %+v, want 404 not found", path, resp)
		}
	}
}

// --- RegisterRoutes tests ---

type mockModule struct {
	called bool
}

func (m *mockModule) RegisterRoutes(r *gin.RouterGroup) {
	m.called = true
	r.POST("/mock", func(c *gin.Context) { c.String(http.StatusOK, "mock") })
}

func TestRegisterRoutes_NilRouter(t *testing.T) {
	err := RegisterRoutes(nil, &RouteDeps{Modules: []Module{&mockModule{}}})
	if err == nil {
		t.Fatal("expected error for nil router")
	}
}

func TestRegisterRoutes_NilDeps(t *testing.T) {
	if err := RegisterRoutes(gin.New(), nil); err == nil {
		t.Fatal("expected error for nil deps")
	}
}

func TestRegisterRoutes_NoModules(t *testing.T) {
	if err := RegisterRoutes(gin.New(), &RouteDeps{}); err == nil {
		t.Fatal("expected error when no modules are given")
	}
}

func TestRegisterRoutes_ModulesAreCalled(t *testing.T) {
	r := gin.New()
	m := &mockModule{}
	if err := RegisterRoutes(r, &RouteDeps{Modules: []Module{m}, DB: openTestSQLiteDB(t)}); err != nil {
		t.Fatalf("RegisterRoutes: %v", err)
	}
	if !m.called {
		t.Fatal("expected module RegisterRoutes to be called")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/mock", nil))
	if w.Code != http.StatusOK || w.Body.String() != "mock" {
		t.Fatalf("POST /mock = %d %q, want 200 mock", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d, want 200", w.Code)
	}
}

func TestRegisterRoutes_NilModuleEntry(t *testing.T) {
	err := RegisterRoutes(gin.New(), &RouteDeps{Modules: []Module{&mockModule{}, nil}})
	if err == nil {
		t.Fatal("expected error for nil module entry")
	}
}

// --- openTestSQLiteDB helper ---

func openTestSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

const blockingPingDriverName = "shopgraph_blocking_ping"

var registerBlockingPingDriverOnce sync.Once

func registerBlockingPingDriver() {
	registerBlockingPingDriverOnce.Do(func() {
		sql.Register(blockingPingDriverName, blockingPingDriver{})
	})
}

type blockingPingDriver struct{}

func (blockingPingDriver) Open(string) (driver.Conn, error) {
	return blockingPingConn{}, nil
}

type blockingPingConn struct{}

func (blockingPingConn) Prepare(string) (driver.Stmt, error) { return nil, driver.ErrSkip }
func (blockingPingConn) Close() error                        { return nil }
func (blockingPingConn) Begin() (driver.Tx, error)           { return blockingPingTx{}, nil }

func (blockingPingConn) Ping(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

type blockingPingTx struct{}

func (blockingPingTx) Commit() error   { return nil }
func (blockingPingTx) Rollback() error { return nil }
