// Package dbtest starts a throwaway embedded PostgreSQL instance for
// integration tests that need real query semantics.
package dbtest

import (
	"fmt"
	"io"
	"net"
	"path/filepath"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/grandparser/backend/internal/database"
)

// Open starts an embedded PostgreSQL on a free port, connects gorm to it
// and migrates the given models. Everything is torn down with the test.
// Skips when the embedded server cannot start (no cached binaries and no
// network, for instance).
func Open(t *testing.T, models ...interface{}) *database.DB {
	t.Helper()

	port := freePort(t)
	base := t.TempDir()

	cfg := embeddedpostgres.DefaultConfig().
		Username("postgres").
		Password("postgres").
		Database("postgres").
		Port(uint32(port)).
		RuntimePath(filepath.Join(base, "runtime")).
		DataPath(filepath.Join(base, "data")).
		Logger(io.Discard).
		StartTimeout(time.Minute)

	pg := embeddedpostgres.NewDatabase(cfg)
	if err := pg.Start(); err != nil {
		t.Skipf("embedded postgres unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := pg.Stop(); err != nil {
			t.Logf("embedded postgres stop: %v", err)
		}
	})

	dsn := fmt.Sprintf(
		"host=localhost port=%d user=postgres password=postgres dbname=postgres sslmode=disable",
		port,
	)
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		t.Fatalf("connect to embedded postgres: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, derr := gdb.DB(); derr == nil {
			sqlDB.Close()
		}
	})

	db := &database.DB{DB: gdb}
	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			t.Fatalf("migrate: %v", err)
		}
	}
	return db
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}
