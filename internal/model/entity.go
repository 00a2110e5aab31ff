package model

import "time"

type ChamadoStatus string

const (
	StatusPending   ChamadoStatus = "Pendente"
	StatusCompleted ChamadoStatus = "Concluído"
)

// Chamado is a single maintenance request.
type Chamado struct {
	ID          uint64 `gorm:"primaryKey" json:"id"`
	Requester   string `gorm:"type:varchar(255);not null" json:"requester"`
	Location    string `gorm:"type:varchar(255);not null" json:"location"`
	Description string `gorm:"type:text;not null" json:"description"`

	// Assignee is set only together with CompletedAt.
	Assignee string `gorm:"type:varchar(255)" json:"assignee,omitempty"`

	// Deleted hides the ticket from listings and reports; the row stays until purge.
	Deleted bool `gorm:"not null;default:false;index" json:"-"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `gorm:"index" json:"completed_at,omitempty"`
}

func (Chamado) TableName() string { return "chamados" }

// Status is derived, never stored: a ticket is completed iff CompletedAt is set.
func (c Chamado) Status() ChamadoStatus {
	if c.CompletedAt != nil {
		return StatusCompleted
	}
	return StatusPending
}
