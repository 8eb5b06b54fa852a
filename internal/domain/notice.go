package domain

import "time"

// Notice 제공처에서 수집된 공지 (notices table)
type Notice struct {
	Date       time.Time `gorm:"column:date;index" json:"date"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Title      string    `gorm:"column:title;size:255" json:"title"`
	Content    string    `gorm:"column:content;type:text" json:"content"`
	Writer     string    `gorm:"column:writer;size:100" json:"writer"`
	URL        string    `gorm:"column:url;size:512;uniqueIndex" json:"url"`
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CategoryID int64     `gorm:"column:category_id;index" json:"category_id"`
	View       int64     `gorm:"column:view_count;not null;default:0" json:"view"`
}

func (Notice) TableName() string {
	return "notices"
}

// ToListItem converts a notice into a list entry
func (n *Notice) ToListItem(scrapped bool) NoticeListItem {
	return NoticeListItem{
		ID:       n.ID,
		Title:    n.Title,
		Date:     n.Date,
		Scrapped: scrapped,
	}
}

// NoticeListItem 목록 응답 항목
type NoticeListItem struct {
	Date     time.Time `json:"date"`
	Title    string    `json:"title"`
	ID       int64     `json:"id"`
	Scrapped bool      `json:"scrapped"`
}

// NoticePage 페이지 단위 목록 응답
type NoticePage struct {
	Notices     []NoticeListItem `json:"notices"`
	Page        int              `json:"page"`
	TotalNotice int64            `json:"totalNotice"`
	TotalPage   int64            `json:"totalPage"`
}

// NoticeInfo 공지 상세 응답
type NoticeInfo struct {
	Date       time.Time `json:"date"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	URL        string    `json:"url"`
	Writer     string    `json:"writer"`
	Category   string    `json:"category"`
	Provider   string    `json:"provider"`
	ID         int64     `json:"id"`
	View       int64     `json:"view"`
	ScrapCount int64     `json:"scrapCount"`
	Scrapped   bool      `json:"scrapped"`
}

// ToInfo builds the detail response. Category and Provider must be preloaded.
func (n *Notice) ToInfo(scrapped bool, scrapCount int64) *NoticeInfo {
	info := &NoticeInfo{
		ID:         n.ID,
		Title:      n.Title,
		Content:    n.Content,
		Date:       n.Date,
		View:       n.View,
		URL:        n.URL,
		Writer:     n.Writer,
		Scrapped:   scrapped,
		ScrapCount: scrapCount,
	}
	if n.Category != nil {
		info.Category = n.Category.Name
		if n.Category.Provider != nil {
			info.Provider = n.Category.Provider.Name
		}
	}
	return info
}

// 필터 기본 조회 기간
const (
	DefaultStartDate = "2020-01-01"
	DefaultEndDate   = "2040-01-01"
	DateLayout       = "2006-01-02"
)

// NoticeFilter 목록 필터 조건
// 빈 Categories/Providers는 조건 없음을 뜻한다.
type NoticeFilter struct {
	StartDate  time.Time
	EndDate    time.Time
	Categories []string
	Providers  []string
}

// DefaultNoticeFilter returns a filter spanning the default date window
func DefaultNoticeFilter() NoticeFilter {
	start, _ := time.Parse(DateLayout, DefaultStartDate)
	end, _ := time.Parse(DateLayout, DefaultEndDate)
	return NoticeFilter{StartDate: start, EndDate: end}
}
