// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	// PostgreSQL 驱动
	_ "github.com/lib/pq"

	"github.com/wfunc/cardbattle/models"
)

// PostgreSQL 基于database/sql的实现，不依赖ORM
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL 创建 PostgreSQL 数据库连接
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	// 设置连接池参数
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 初始化表结构
	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

// initTables 初始化数据库表结构
func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS room_snapshots (
            id SERIAL PRIMARY KEY,
            room_id VARCHAR(255) UNIQUE NOT NULL,
            status VARCHAR(50) NOT NULL,
            turn INT NOT NULL DEFAULT 1,
            current_side VARCHAR(50) NOT NULL,
            state JSONB NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS gift_events (
            id SERIAL PRIMARY KEY,
            room_id VARCHAR(255) NOT NULL,
            event VARCHAR(50) NOT NULL,
            gift_id VARCHAR(100),
            gift_name VARCHAR(255),
            viewer_name VARCHAR(255),
            effect_type VARCHAR(50),
            amount INT NOT NULL DEFAULT 0,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	// 创建索引以提高查询性能
	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_room_snapshots_room_id ON room_snapshots(room_id);
        CREATE INDEX IF NOT EXISTS idx_gift_events_room_id ON gift_events(room_id);
        CREATE INDEX IF NOT EXISTS idx_gift_events_created_at ON gift_events(created_at);
    `)

	return err
}

// SaveRoomSnapshot 保存房间快照（UPSERT）
func (p *PostgreSQL) SaveRoomSnapshot(snap *models.RoomSnapshot) error {
	stateJSON, err := json.Marshal(snap.State)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        INSERT INTO room_snapshots (room_id, status, turn, current_side, state)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (room_id)
        DO UPDATE SET status = $2, turn = $3, current_side = $4, state = $5, updated_at = CURRENT_TIMESTAMP
    `

	_, err = p.db.ExecContext(ctx, query, snap.RoomID, snap.Status, snap.Turn, snap.CurrentSide, stateJSON)
	return err
}

// LoadRoomSnapshot 加载房间快照
func (p *PostgreSQL) LoadRoomSnapshot(roomID string) (*models.RoomSnapshot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	snap := &models.RoomSnapshot{RoomID: roomID}
	var stateJSON []byte
	query := `SELECT status, turn, current_side, state, created_at, updated_at FROM room_snapshots WHERE room_id = $1`
	err := p.db.QueryRowContext(ctx, query, roomID).Scan(
		&snap.Status, &snap.Turn, &snap.CurrentSide, &stateJSON, &snap.CreatedAt, &snap.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(stateJSON, &snap.State); err != nil {
		return nil, err
	}
	return snap, nil
}

// SaveGiftEvent 保存事件记录
func (p *PostgreSQL) SaveGiftEvent(event *models.GiftEventRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        INSERT INTO gift_events (room_id, event, gift_id, gift_name, viewer_name, effect_type, amount)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	_, err := p.db.ExecContext(ctx, query,
		event.RoomID, event.Event, event.GiftID, event.GiftName,
		event.ViewerName, event.EffectType, event.Amount)
	return err
}

// ListGiftEvents 按时间倒序查询事件记录
func (p *PostgreSQL) ListGiftEvents(roomID string, limit int) ([]models.GiftEventRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if limit <= 0 {
		limit = 100
	}

	query := `
        SELECT room_id, event, gift_id, gift_name, viewer_name, effect_type, amount, created_at
        FROM gift_events WHERE room_id = $1
        ORDER BY created_at DESC LIMIT $2
    `
	rows, err := p.db.QueryContext(ctx, query, roomID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.GiftEventRecord
	for rows.Next() {
		var rec models.GiftEventRecord
		if err := rows.Scan(&rec.RoomID, &rec.Event, &rec.GiftID, &rec.GiftName,
			&rec.ViewerName, &rec.EffectType, &rec.Amount, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close 关闭数据库连接
func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
