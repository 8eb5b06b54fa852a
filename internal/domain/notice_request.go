package domain

import "time"

// NoticeRequest 사용자가 제안한 신규 수집 대상 (notice_requests table)
type NoticeRequest struct {
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Provider  string    `gorm:"column:provider;size:100" json:"provider"`
	Category  string    `gorm:"column:category;size:100" json:"category"`
	URL       string    `gorm:"column:url;size:512" json:"url"`
	Memo      string    `gorm:"column:memo;type:text" json:"memo"`
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"column:user_id;index" json:"user_id"`
}

func (NoticeRequest) TableName() string {
	return "notice_requests"
}

// AddNoticeRequest 수집 요청 본문
type AddNoticeRequest struct {
	Provider string `json:"provider" validate:"required,max=100"`
	Category string `json:"category" validate:"max=100"`
	URL      string `json:"url" validate:"required,url,max=512"`
	Memo     string `json:"memo" validate:"max=1000"`
}
