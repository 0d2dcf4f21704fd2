package models

import "time"

// Vote фиксирует голос пользователя за идею.
// Пара (IdeaID, VoterUID) уникальна, повторное голосование запрещено.
type Vote struct {
	ID        int
	IdeaID    int
	VoterUID  string
	CreatedAt time.Time
}
