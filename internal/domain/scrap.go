package domain

import "time"

// User 인증 서버가 관리하는 사용자 (users table)
type User struct {
	Name string `gorm:"column:name;size:100" json:"name"`
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
}

func (User) TableName() string {
	return "users"
}

// ScrapBox 사용자별 스크랩 보관함 (scrap_boxes table)
type ScrapBox struct {
	ID     int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"column:user_id;index" json:"user_id"`
}

func (ScrapBox) TableName() string {
	return "scrap_boxes"
}

// Scrap 보관함에 담긴 공지 (scraps table)
// (scrap_box_id, notice_id) 쌍은 하나만 존재한다.
type Scrap struct {
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Notice     *Notice   `gorm:"foreignKey:NoticeID" json:"notice,omitempty"`
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ScrapBoxID int64     `gorm:"column:scrap_box_id;uniqueIndex:idx_scrap_box_notice" json:"scrap_box_id"`
	NoticeID   int64     `gorm:"column:notice_id;uniqueIndex:idx_scrap_box_notice;index" json:"notice_id"`
}

func (Scrap) TableName() string {
	return "scraps"
}
