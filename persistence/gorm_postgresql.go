// persistence/gorm_postgresql.go
package persistence

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wfunc/cardbattle/models"
)

// GormPostgreSQL 使用GORM的PostgreSQL实现
type GormPostgreSQL struct {
	db *gorm.DB
}

// NewGormPostgreSQL 创建GORM PostgreSQL数据库连接
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	// 配置GORM日志
	dbLogger := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold: time.Second,
			LogLevel:      gormlogger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 自动迁移表结构
	if err := autoMigrate(db); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.GormRoomSnapshot{},
		&models.GormGiftEvent{},
	)
}

// SaveRoomSnapshot 以房间ID为键UPSERT快照
func (p *GormPostgreSQL) SaveRoomSnapshot(snap *models.RoomSnapshot) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		var row models.GormRoomSnapshot
		result := tx.Where("room_id = ?", snap.RoomID).First(&row)

		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			row = models.GormRoomSnapshot{
				RoomID:      snap.RoomID,
				Status:      snap.Status,
				Turn:        snap.Turn,
				CurrentSide: snap.CurrentSide,
				State:       snap.State,
			}
			return tx.Create(&row).Error
		} else if result.Error != nil {
			return result.Error
		}

		row.Status = snap.Status
		row.Turn = snap.Turn
		row.CurrentSide = snap.CurrentSide
		row.State = snap.State
		return tx.Save(&row).Error
	})
}

// LoadRoomSnapshot 加载最近一次快照
func (p *GormPostgreSQL) LoadRoomSnapshot(roomID string) (*models.RoomSnapshot, error) {
	var row models.GormRoomSnapshot
	if err := p.db.Where("room_id = ?", roomID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	return &models.RoomSnapshot{
		RoomID:      row.RoomID,
		Status:      row.Status,
		Turn:        row.Turn,
		CurrentSide: row.CurrentSide,
		State:       row.State,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

// SaveGiftEvent 追加一条事件记录
func (p *GormPostgreSQL) SaveGiftEvent(event *models.GiftEventRecord) error {
	row := models.GormGiftEvent{
		RoomID:     event.RoomID,
		Event:      event.Event,
		GiftID:     event.GiftID,
		GiftName:   event.GiftName,
		ViewerName: event.ViewerName,
		EffectType: event.EffectType,
		Amount:     event.Amount,
	}
	return p.db.Create(&row).Error
}

// ListGiftEvents 按时间倒序返回房间的事件记录
func (p *GormPostgreSQL) ListGiftEvents(roomID string, limit int) ([]models.GiftEventRecord, error) {
	var rows []models.GormGiftEvent
	query := p.db.Where("room_id = ?", roomID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]models.GiftEventRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.GiftEventRecord{
			RoomID:     row.RoomID,
			Event:      row.Event,
			GiftID:     row.GiftID,
			GiftName:   row.GiftName,
			ViewerName: row.ViewerName,
			EffectType: row.EffectType,
			Amount:     row.Amount,
			CreatedAt:  row.CreatedAt,
		})
	}
	return records, nil
}

// Close 关闭数据库连接
func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
