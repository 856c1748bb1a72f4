package main

const (
	challengeSourceCustom = "custom"

	attachmentPhoto = "photo"

	decisionApproved = "approved"
	decisionRejected = "rejected"
)

type Challenge struct {
	ID               string `json:"challenge_id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Points           int    `json:"points"`
	CO2              string `json:"co2"`
	CO2QuantityBased bool   `json:"co2_quantity_based"`
	Source           string `json:"source"`
	Active           bool   `json:"active"`
}

func (c Challenge) Custom() bool {
	return c.Source == challengeSourceCustom
}

type NewChallenge struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	Points           int    `json:"points"`
	CO2              string `json:"co2"`
	CO2QuantityBased bool   `json:"co2_quantity_based"`
}

// Report is a pending submission; it leaves the pending list once resolved.
type Report struct {
	UserID           int64    `json:"user_id"`
	Username         string   `json:"username"`
	FirstName        string   `json:"first_name"`
	ChallengeID      string   `json:"challenge_id"`
	ChallengeTitle   string   `json:"challenge_title"`
	SubmittedAt      string   `json:"submitted_at"`
	Caption          string   `json:"caption"`
	AttachmentType   string   `json:"attachment_type"`
	AttachmentName   string   `json:"attachment_name"`
	FileID           string   `json:"file_id"`
	FileURL          string   `json:"file_url"`
	CO2              string   `json:"co2"`
	CO2Value         *float64 `json:"co2_value"`
	CO2QuantityBased bool     `json:"co2_quantity_based"`
}

// Resolution is the body of POST /reports/resolve. Nil pointers are sent as null.
type Resolution struct {
	UserID      int64    `json:"user_id"`
	ChallengeID string   `json:"challenge_id"`
	Decision    string   `json:"decision"`
	Comment     *string  `json:"comment"`
	CO2Saved    *float64 `json:"co2_saved"`
}

type LogEntry struct {
	ID        int64  `json:"id"`
	AdminID   *int64 `json:"admin_id"`
	Action    string `json:"action"`
	Details   string `json:"details"`
	CreatedAt string `json:"created_at"`
}

type UserStats struct {
	TotalUsers  int `json:"total_users"`
	WeeklyUsers int `json:"weekly_users"`
}

type BroadcastResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

type LoginResult struct {
	Token   string `json:"token"`
	AdminID int64  `json:"admin_id"`
}
