package model

import "time"

// Category classifies a user's work schedule; it doubles as the role checked by admin routes.
type Category string

const (
	CategoryAdministrator Category = "administrator"
	CategoryWorker        Category = "worker"
	CategoryIntern        Category = "intern"
)

// ValidCategories is the set of accepted category strings.
var ValidCategories = map[Category]bool{
	CategoryAdministrator: true,
	CategoryWorker:        true,
	CategoryIntern:        true,
}

type Status string

const (
	StatusInProgress      Status = "IN_PROGRESS"
	StatusComplete        Status = "COMPLETE"
	StatusNeedsAdjustment Status = "NEEDS_ADJUSTMENT"
)

type Audience string

const (
	AudienceGlobal     Audience = "global"
	AudienceGroup      Audience = "group"
	AudienceIndividual Audience = "individual"
)

type User struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:191;uniqueIndex" json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Category  Category  `gorm:"size:32" json:"category"`
	Active    bool      `json:"active"`
	PushToken string    `gorm:"size:255" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool { return u.Category == CategoryAdministrator }

// Timesheet is the clock record of one user on one calendar date.
type Timesheet struct {
	ID         int        `gorm:"primaryKey" json:"id"`
	UserID     int        `gorm:"not null;uniqueIndex:uk_user_date" json:"user_id"`
	Date       time.Time  `gorm:"type:date;not null;uniqueIndex:uk_user_date;index" json:"date"`
	EntryTime  *TimeOfDay `gorm:"type:time" json:"entry_time"`
	LunchStart *TimeOfDay `gorm:"type:time" json:"lunch_start"`
	LunchEnd   *TimeOfDay `gorm:"type:time" json:"lunch_end"`
	ExitTime   *TimeOfDay `gorm:"type:time" json:"exit_time"`
	TotalHours *float64   `json:"total_hours"`
	Status     Status     `gorm:"size:20" json:"status"`
	Note       string     `json:"note,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewTimesheet returns an empty record for userID on the calendar date of day.
func NewTimesheet(userID int, day time.Time) *Timesheet {
	return &Timesheet{UserID: userID, Date: DateOf(day), Status: StatusInProgress}
}

type Notification struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:200" json:"title"`
	Message   string    `json:"message"`
	Audience  Audience  `gorm:"size:20;index" json:"audience"`
	Target    string    `gorm:"size:191" json:"target,omitempty"`
	SenderID  int       `json:"sender_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string         { return "users" }
func (Timesheet) TableName() string    { return "timesheets" }
func (Notification) TableName() string { return "notifications" }

const DateLayout = "2006-01-02"

// DateOf strips the clock from t, keeping t's own calendar date, as midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a yyyy-mm-dd string into a normalized date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}
