package model

// Menu is the first paint of a public menu: the restaurant and its
// categories. Products are paged separately.
type Menu struct {
	Restaurant Restaurant `json:"restaurant"`
	Categories []Category `json:"categories"`
}

// MenuPage is one page of lite products for infinite scroll.
type MenuPage struct {
	Items    []Product `json:"items"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
	Total    int       `json:"total"`
	HasMore  bool      `json:"hasMore"`
}
