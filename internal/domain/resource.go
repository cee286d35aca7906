package domain

import "time"

// Resources lists the admin sections backed by the generic resources table.
var Resources = []string{
	"statistics",
	"users",
	"employers",
	"employees",
	"tips",
	"withdrawals",
	"payment-methods",
	"contacts",
	"suggestions",
	"notifications",
	"settings",
}

// IsResource reports whether name is a known admin section.
func IsResource(name string) bool {
	for _, r := range Resources {
		if r == name {
			return true
		}
	}
	return false
}

// Record is one row of an admin section, keyed by section and ID.
type Record struct {
	Resource  string                 `json:"resource" dynamodbav:"resource"`
	ID        string                 `json:"id" dynamodbav:"record_id"`
	Data      map[string]interface{} `json:"data" dynamodbav:"data"`
	CreatedAt time.Time              `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time              `json:"updated" dynamodbav:"updated_at"`
}
