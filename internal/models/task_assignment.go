package models

import "encoding/json"

// TaskAssignment links a task to an assigned user. It carries no role and is
// serialized as the bare user ID.
type TaskAssignment struct {
	TaskID   string `gorm:"primaryKey;type:varchar(36)"`
	UserID   string `gorm:"primaryKey;type:varchar(36);index"`
	Position int    `gorm:"not null"`
}

// NewTaskAssignments builds ordered assignments for userIDs.
func NewTaskAssignments(userIDs []string) []TaskAssignment {
	out := make([]TaskAssignment, len(userIDs))
	for i, id := range userIDs {
		out[i] = TaskAssignment{UserID: id, Position: i}
	}
	return out
}

func (a TaskAssignment) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.UserID)
}

func (a *TaskAssignment) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &a.UserID)
}
