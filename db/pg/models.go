package pg

import (
	"time"

	"github.com/google/uuid"
)

type GroupInfoModel struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"size:255;not null"`
	// meta data
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GroupInfoModel.
func (GroupInfoModel) TableName() string {
	return "groups"
}

type MemberModel struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	GroupID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name    string    `gorm:"size:255;not null"`
	Active  bool      `gorm:"not null;default:true"`
	// meta data
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for MemberModel.
func (MemberModel) TableName() string {
	return "group_members"
}

type ExpenseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"size:255;not null"`
	Amount    float64   `gorm:"type:numeric(10,2);not null"`
	Time      time.Time `gorm:"not null"`
	PaidBy    uuid.UUID `gorm:"type:uuid;not null"`
	SplitType int       `gorm:"not null"`
	Category  int       `gorm:"not null"`
	// meta data
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for ExpenseModel.
func (ExpenseModel) TableName() string {
	return "expenses"
}

type ExpenseShareModel struct {
	ExpenseID uuid.UUID `gorm:"type:uuid;primaryKey"`
	GroupID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	MemberID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Value     float64   `gorm:"type:numeric(10,2)"`
	// meta data
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for ExpenseShareModel.
func (ExpenseShareModel) TableName() string {
	return "expense_shares"
}

type SettlementModel struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	GroupID uuid.UUID `gorm:"type:uuid;not null;index"`
	From    uuid.UUID `gorm:"type:uuid;not null;column:from_member"`
	To      uuid.UUID `gorm:"type:uuid;not null;column:to_member"`
	Amount  float64   `gorm:"type:numeric(10,2);not null"`
	Time    time.Time `gorm:"not null"`
	Note    string    `gorm:"size:255"`
	// meta data
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for SettlementModel.
func (SettlementModel) TableName() string {
	return "settlements"
}
