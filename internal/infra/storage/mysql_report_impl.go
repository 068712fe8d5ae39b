package storage

import (
	"context"
	"fmt"
	model "go_purl_tools/internal/domain/model/purl_rule"
	configs "go_purl_tools/internal/infra/config"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type MysqlReportStorage struct {
	mysqlClient *gorm.DB
}

// new mysql client
func NewMySQLClient(c *configs.PurlConfig) *gorm.DB {
	if c.DatabaseConfig == nil {
		panic("report archive requested but no database configured")
	}
	dsn := c.DatabaseConfig.GetDSN()
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		panic("failed to connect database")
	}
	if opt := c.DatabaseOptionConfig; opt != nil {
		sqlDB, err := db.DB()
		if err != nil {
			panic(fmt.Sprintf("failed to get sql.DB: %v", err))
		}
		sqlDB.SetMaxIdleConns(opt.MaxIdleConns)
		sqlDB.SetMaxOpenConns(opt.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(opt.ConnMaxLifetime)
	}
	if err := db.AutoMigrate(&model.ReportRecord{}); err != nil {
		panic(fmt.Sprintf("failed to migrate report table: %v", err))
	}
	return db
}

func NewMysqlReportStorage(mysqlClient *gorm.DB) MySQLReportStorageIface {
	return &MysqlReportStorage{mysqlClient: mysqlClient}
}

var _ MySQLReportStorageIface = (*MysqlReportStorage)(nil)

func (s *MysqlReportStorage) SaveReportToDB(ctx context.Context, record *model.ReportRecord) error {
	tx := s.mysqlClient.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	if err := tx.Create(record).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to save report to mysql: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *MysqlReportStorage) ListReportsFromDB(ctx context.Context, namespace string, limit int) ([]*model.ReportRecord, error) {
	var records []*model.ReportRecord
	db := s.mysqlClient.WithContext(ctx).Model(&model.ReportRecord{})
	if namespace != "" {
		db = db.Where("namespace = ?", namespace)
	}
	if limit > 0 {
		db = db.Limit(limit)
	}
	if err := db.Order("created_at desc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list reports from mysql: %w", err)
	}
	return records, nil
}
