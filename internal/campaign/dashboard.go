package campaign

// CampaignStats is the created/sent/failed breakdown on the dashboard.
type CampaignStats struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// DailyEmailCount is one bar of the recent-send history.
type DailyEmailCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// CompanyHRCount is one row of the top-companies leaderboard.
type CompanyHRCount struct {
	Company string `json:"company"`
	HRCount int    `json:"hrCount"`
}

// SMTPInfo is the configured sender identity, masked server-side.
type SMTPInfo struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Dashboard is the users/dashboard response.
type Dashboard struct {
	Campaigns           CampaignStats     `json:"campaigns"`
	EmailsSent          int               `json:"emailsSent"`
	EmailsSentToday     int               `json:"emailsSentToday"`
	EmailsSentLast5Days []DailyEmailCount `json:"emailsSentLast5Days"`
	GlobalHRCount       int               `json:"globalHrCount"`
	SMTP                *SMTPInfo         `json:"smtp,omitempty"`
	TopCompanies        []CompanyHRCount  `json:"topCompanies"`
	RecentCampaigns     []Campaign        `json:"recentCampaigns"`
}

// BadgeTier is the contributor badge earned by adding global HR contacts.
type BadgeTier string

const (
	BadgeNone   BadgeTier = "None"
	BadgeBronze BadgeTier = "Bronze"
	BadgeSilver BadgeTier = "Silver"
	BadgeGold   BadgeTier = "Gold"
)

// Badge thresholds (global contacts contributed).
const (
	bronzeAt = 50
	silverAt = 100
	goldAt   = 200
)

// BadgeFor returns the tier for a contribution count plus the count needed
// for the next tier (0 when at Gold).
func BadgeFor(globalHRCount int) (BadgeTier, int) {
	switch {
	case globalHRCount >= goldAt:
		return BadgeGold, 0
	case globalHRCount >= silverAt:
		return BadgeSilver, goldAt
	case globalHRCount >= bronzeAt:
		return BadgeBronze, silverAt
	default:
		return BadgeNone, bronzeAt
	}
}
