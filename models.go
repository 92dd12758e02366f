package referrals

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CandidateStatus tracks where a referral is in the review workflow
type CandidateStatus = string

const (
	// StatusPending is the initial status of every referral
	StatusPending CandidateStatus = "Pending"
	// StatusReviewed means someone looked at the candidate
	StatusReviewed CandidateStatus = "Reviewed"
	// StatusHired is the happy end of the workflow
	StatusHired CandidateStatus = "Hired"
)

// CandidateStatuses lists every status a referral can be in
var CandidateStatuses = []CandidateStatus{StatusPending, StatusReviewed, StatusHired}

// IsValidCandidateStatus reports whether status is one of the workflow values
func IsValidCandidateStatus(status string) bool {
	for _, s := range CandidateStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// User is the referrer account model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// PublicUser is the projection returned by the auth endpoints. The
// password hash never leaves the service.
type PublicUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Public returns the user's public projection
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

// Candidate is a referred candidate. ReferrerID is set once at creation
// and never updated afterwards.
type Candidate struct {
	bun.BaseModel `bun:"table:candidates,alias:cnd"`
	ID            uuid.UUID       `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string          `bun:"name,notnull" json:"name,omitempty"`
	Email         string          `bun:"email,notnull" json:"email,omitempty"`
	Phone         string          `bun:"phone_number,notnull" json:"phone_number,omitempty"`
	JobTitle      string          `bun:"job_title,notnull" json:"job_title,omitempty"`
	ResumeURL     *string         `bun:"resume_url" json:"resume_url,omitempty"`
	Status        CandidateStatus `bun:"status,notnull" json:"status,omitempty"`
	ReferrerID    uuid.UUID       `bun:"referred_by,notnull,type:uuid" json:"referred_by,omitempty"`
	CreatedAt     *time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

func prepareCandidateDefaults(record *Candidate) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Status == "" {
		record.Status = StatusPending
	}
	if record.CreatedAt == nil {
		now := time.Now()
		record.CreatedAt = &now
	}
}

func prepareUserDefaults(record *User) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
