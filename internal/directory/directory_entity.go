package directory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee is the read-only directory projection the leave engine needs.
// Employee CRUD is owned by another system; this service never writes here.
type Employee struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName   string    `gorm:"type:varchar(150);not null"`
	Department string    `gorm:"type:varchar(100);not null;index:idx_employees_department"`
	HireDate   time.Time `gorm:"type:date"`
	Active     bool      `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_employees_deleted_at"`
}

func (Employee) TableName() string {
	return "employees"
}
