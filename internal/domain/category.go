package domain

// Provider 공지 제공 기관 (providers table)
type Provider struct {
	Name       string      `gorm:"column:name;size:100;uniqueIndex" json:"name"`
	Categories []*Category `gorm:"foreignKey:ProviderID" json:"categories,omitempty"`
	ID         int64       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
}

func (Provider) TableName() string {
	return "providers"
}

// Category 제공처별 게시판 분류 (categories table)
// MappedCategory는 제공처와 무관한 공통 라벨 (예: 공지사항, 학사)
type Category struct {
	Provider       *Provider `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
	Name           string    `gorm:"column:name;size:100" json:"name"`
	MappedCategory string    `gorm:"column:mapped_category;size:100;index" json:"mapped_category"`
	FeedURL        string    `gorm:"column:feed_url;size:512" json:"-"`
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProviderID     int64     `gorm:"column:provider_id;index" json:"provider_id"`
}

func (Category) TableName() string {
	return "categories"
}

// CategoryResponse 카테고리 응답
type CategoryResponse struct {
	Name           string `json:"name"`
	MappedCategory string `json:"mappedCategory"`
	ID             int64  `json:"id"`
}

// ProviderResponse 제공처 + 카테고리 응답
type ProviderResponse struct {
	Name       string             `json:"name"`
	Categories []CategoryResponse `json:"categories"`
	ID         int64              `json:"id"`
}

// ToResponse converts a provider with preloaded categories
func (p *Provider) ToResponse() ProviderResponse {
	resp := ProviderResponse{
		ID:         p.ID,
		Name:       p.Name,
		Categories: make([]CategoryResponse, 0, len(p.Categories)),
	}
	for _, c := range p.Categories {
		resp.Categories = append(resp.Categories, CategoryResponse{
			ID:             c.ID,
			Name:           c.Name,
			MappedCategory: c.MappedCategory,
		})
	}
	return resp
}
