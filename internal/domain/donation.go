package domain

import (
	"time"

	"gorm.io/datatypes"
)

// DonationQR records a dynamic payment QR issued through the M-Pesa provider.
type DonationQR struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	OrgID          *uint          `gorm:"column:org_id;index" json:"org_id"`
	RequestedBy    uint           `gorm:"column:requested_by;not null;index" json:"requested_by"`
	RefNo          string         `gorm:"column:ref_no;size:100;not null" json:"ref_no"`
	MerchantName   string         `gorm:"column:merchant_name;size:100;not null" json:"merchant_name"`
	Amount         int64          `gorm:"column:amount;not null" json:"amount"`
	TrxCode        string         `gorm:"column:trx_code;size:4;not null" json:"trx_code"`
	CPI            string         `gorm:"column:cpi;size:50;not null" json:"cpi"`
	RequestPayload datatypes.JSON `gorm:"column:request_payload" json:"request_payload"`
	CreatedAt      time.Time      `json:"created_at"`
}

func (DonationQR) TableName() string {
	return "donation_qrs"
}
