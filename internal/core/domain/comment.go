package domain

import "time"

// Comment is a reply posted under a case. Hidden comments stay visible but
// are rendered de-emphasized.
type Comment struct {
	ID         string    `json:"id"`
	CaseID     string    `json:"case_id"`
	Text       string    `json:"text"`
	AuthorUID  string    `json:"author_uid"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
	Hidden     bool      `json:"hidden"`
}
