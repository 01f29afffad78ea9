package config

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kitobxona_go/models"
)

var DB *gorm.DB

// DatabaseConfig is the relational store connection descriptor,
// supplied through the environment.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	Charset  string
}

// GetDatabaseConfig reads the database settings from the environment.
func GetDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Host:     GetEnv("DB_HOST", "localhost"),
		Port:     GetEnv("DB_PORT", "3306"),
		User:     GetEnv("DB_USER", "root"),
		Password: GetEnv("DB_PASSWORD", ""),
		DBName:   GetEnv("DB_NAME", "kitobxona"),
		Charset:  GetEnv("DB_CHARSET", "utf8mb4"),
	}
}

// InitDatabase connects to MySQL, tunes the pool and migrates the
// schema.
func InitDatabase() error {
	cfg := GetDatabaseConfig()

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
	)

	logLevel := logger.Silent
	if GetEnv("GIN_MODE", "release") == "debug" {
		logLevel = logger.Info
	}

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := migrate(DB); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	log.Println("database connected")
	return nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Author{},
		&models.Translator{},
		&models.Genre{},
		&models.Category{},
		&models.Publisher{},
		&models.PrintingHouse{},
		&models.BookImage{},
		&models.Book{},
		&models.Collection{},
		&models.Order{},
		&models.OrderItem{},
		&models.TelegramUser{},
		&models.Feedback{},
		&models.Staff{},
	)
}

// CloseDatabase closes the underlying connection pool.
func CloseDatabase() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
