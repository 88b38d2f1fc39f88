package dataset

// CanonicalProduct is the display form of a product row after every field
// name variant has been resolved. It is derived, never the raw row.
type CanonicalProduct struct {
	Name            string `json:"name"`
	Category        string `json:"category"`
	Rating          Number `json:"rating"`
	RatingCount     Number `json:"rating_count"`
	Price           Number `json:"price"`
	ActualPrice     Number `json:"actual_price"`
	DiscountPercent Number `json:"discount_percent"`
}

// SummaryStats backs the headline stat cards
type SummaryStats struct {
	TotalProducts   Number `json:"total_products"`
	TotalCategories Number `json:"total_categories"`
	AvgRating       Number `json:"avg_rating"`
	AvgPrice        Number `json:"avg_price"`
	AvgDiscount     Number `json:"avg_discount"`
	TotalReviews    Number `json:"total_reviews"`
}

// QAItem is one question/answer insight card. Answer is markdown.
type QAItem struct {
	ID        string `json:"id"`
	CardTitle string `json:"card_title,omitempty"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
}
