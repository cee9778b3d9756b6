package domain

type BoothVisitDashboard struct {
	BoothID        uint         `json:"booth_id"`
	TotalVisits    int64        `json:"total_visits"`
	UniqueVisitors int64        `json:"unique_visitors"`
	Recent         []VisitEntry `json:"recent"`
}

type BoothPointDashboard struct {
	BoothID     uint         `json:"booth_id"`
	TotalAwards int64        `json:"total_awards"`
	TotalPoints int64        `json:"total_points"`
	Recent      []PointEntry `json:"recent"`
}

type TrendingBooth struct {
	BoothID        uint    `json:"booth_id"`
	Name           string  `json:"name"`
	Location       string  `json:"location"`
	RecentVisits   int64   `json:"recent_visits"`
	RatingCount    int64   `json:"rating_count"`
	SmoothedRating float64 `json:"smoothed_rating"`
	Score          float64 `json:"score"`
}

type AdminStats struct {
	Students    int64 `json:"students"`
	Booths      int64 `json:"booths"`
	Visits      int64 `json:"visits"`
	PointAwards int64 `json:"point_awards"`
	Points      int64 `json:"points"`
	Posts       int64 `json:"posts"`
}
