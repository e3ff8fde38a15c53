package leavetype

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CodeLossOfPay is exempt from balance checks when applying for leave.
const CodeLossOfPay = "LOP"

type LeaveType struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name            string              `gorm:"column:name;type:varchar(100);not null"`
	Code            string              `gorm:"column:code;type:varchar(20);not null;uniqueIndex:uq_leave_types_code"`
	Description     *string             `gorm:"column:description;type:text"`
	DefaultBalance  decimal.Decimal     `gorm:"column:default_balance;type:numeric(10,2);not null;default:0"`
	IsPaid          bool                `gorm:"column:is_paid;not null;default:true"`
	IsActive        bool                `gorm:"column:is_active;not null;default:true;index"`
	CarryForward    bool                `gorm:"column:carry_forward;not null;default:false"`
	MaxCarryForward decimal.NullDecimal `gorm:"column:max_carry_forward;type:numeric(10,2)"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (LeaveType) TableName() string {
	return "leave_types"
}

// CarryCap returns the positive carry-forward cap, if any. A zero cap is
// treated as "no cap".
func (lt LeaveType) CarryCap() (decimal.Decimal, bool) {
	if !lt.MaxCarryForward.Valid || !lt.MaxCarryForward.Decimal.IsPositive() {
		return decimal.Zero, false
	}
	return lt.MaxCarryForward.Decimal, true
}

func (lt LeaveType) IsLossOfPay() bool {
	return lt.Code == CodeLossOfPay
}

func strPtr(s string) *string { return &s }

// DefaultCatalogue is inserted by Seed into an empty leave_types table.
func DefaultCatalogue() []LeaveType {
	return []LeaveType{
		{Name: "Casual Leave", Code: "CL", Description: strPtr("For personal/casual reasons"), DefaultBalance: decimal.NewFromInt(12), IsPaid: true, IsActive: true},
		{Name: "Sick Leave", Code: "SL", Description: strPtr("For illness or medical reasons"), DefaultBalance: decimal.NewFromInt(12), IsPaid: true, IsActive: true},
		{
			Name: "Earned Leave", Code: "EL", Description: strPtr("Earned/privilege leave"),
			DefaultBalance: decimal.NewFromInt(15), IsPaid: true, IsActive: true,
			CarryForward: true, MaxCarryForward: decimal.NewNullDecimal(decimal.NewFromInt(10)),
		},
		{Name: "Loss of Pay", Code: CodeLossOfPay, Description: strPtr("Unpaid leave"), DefaultBalance: decimal.Zero, IsPaid: false, IsActive: true},
		{Name: "Compensatory Off", Code: "CO", Description: strPtr("For extra working days"), DefaultBalance: decimal.Zero, IsPaid: true, IsActive: true},
	}
}
