package models

import "time"

type Team struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Abbreviation *string    `json:"abbreviation,omitempty"`
	Country      string     `json:"country"`
	Coach        string     `json:"coach"`
	FoundedDate  *time.Time `json:"founded_date,omitempty"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
}
