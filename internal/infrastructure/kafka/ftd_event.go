package publisher

import "time"

// FtdAssignedEvent is emitted once per recorded FTD assignment.
type FtdAssignedEvent struct {
	FtdUserID        string    `json:"ftd_user_id"`
	AssignedUserID   string    `json:"assigned_user_id"`
	OwnerID          string    `json:"owner_id"`
	Role             string    `json:"role"`
	TrackingCode     string    `json:"tracking_code"`
	RegistrationDate time.Time `json:"registration_date"`
	AttributedAt     time.Time `json:"attributed_at"`
}
