package models

// User is the editorial profile record this core reads for display
// enrichment. Account management lives in the platform's user service;
// only the fields needed for message and typing payloads matter here.
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	FirstName string `gorm:"type:text" json:"firstName"`
	LastName  string `gorm:"type:text" json:"lastName"`
	Avatar    string `gorm:"type:text" json:"avatar"`
	Role      string `gorm:"type:text" json:"role"`
}

// SenderInfo is the display subset of User embedded in broadcast payloads.
type SenderInfo struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Avatar    string `json:"avatar"`
}

// Sender returns the display subset used to enrich outgoing messages.
func (u *User) Sender() SenderInfo {
	return SenderInfo{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    u.Avatar,
	}
}
