// Package db opens and migrates the application database.
package db

import (
	"fmt"
	"log"
	"os"
	"time"

	gmysql "gorm.io/driver/mysql"
	gpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	authadapters "carvalue_backend/internal/feature/auth/adapters"
	authentity "carvalue_backend/internal/feature/auth/domain/entity"
	reportsentity "carvalue_backend/internal/feature/reports/domain/entity"
)

// OpenDB connects to the database selected by DB_DRIVER (mysql by
// default, postgres when set to "postgres"), retrying for up to a minute
// so the service survives a slow database start.
func OpenDB() *gorm.DB {
	dialector := newDialector()

	var (
		db  *gorm.DB
		err error
	)

	deadline := time.Now().Add(60 * time.Second)
	for {
		db, err = gorm.Open(dialector, &gorm.Config{TranslateError: true})
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			log.Fatalf("DB connect failed after 60s: %v", err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		// マイグレーション（User, Report, Session）
		if err := db.AutoMigrate(
			&authentity.User{},
			&reportsentity.Report{},
			&authadapters.SessionModel{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}

// newDialector builds the GORM dialector from environment variables.
func newDialector() gorm.Dialector {
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASSWORD")
	name := os.Getenv("DB_NAME")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")

	if os.Getenv("DB_DRIVER") == "postgres" {
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			host, user, pass, name, port)
		return gpostgres.Open(dsn)
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
		user, pass, host, port, name)
	return gmysql.Open(dsn)
}
