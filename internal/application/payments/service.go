package payments

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"ngo-connect-backend/internal/domain"
	"ngo-connect-backend/internal/infrastructure/mpesa"
	"ngo-connect-backend/internal/pkg/metrics"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrMissingFields  = errors.New("MerchantName, RefNo, Amount, TrxCode and CPI are required")
	ErrInvalidAmount  = errors.New("Amount must be a whole number greater than 0")
	ErrInvalidTrxCode = errors.New("TrxCode must be one of BG, WA, PB, SM, SB")
	ErrInvalidSize    = errors.New("Size must be a positive number of pixels")
	ErrNotConfigured  = errors.New("M-Pesa is not configured")
	ErrProvider       = errors.New("Failed to generate QR code")
)

// DefaultSize is the QR image edge in pixels.
const DefaultSize = 300

// TrxCodes are the Daraja transaction types a QR can encode.
var TrxCodes = map[string]string{
	"BG": "Pay Merchant (Buy Goods)",
	"WA": "Withdraw Cash at Agent Till",
	"PB": "Paybill or Business number",
	"SM": "Send Money (Mobile number)",
	"SB": "Sent to Business",
}

// QRGenerator issues dynamic M-Pesa QR codes.
type QRGenerator interface {
	GenerateQR(ctx context.Context, in mpesa.QRRequest) (string, error)
}

type Service struct {
	DB     *gorm.DB
	Client QRGenerator
}

// GenerateQRInput mirrors the Daraja field names used by the donation widget.
// Amount and Size accept JSON numbers or numeric strings.
type GenerateQRInput struct {
	MerchantName string      `json:"MerchantName"`
	RefNo        string      `json:"RefNo"`
	Amount       json.Number `json:"Amount"`
	TrxCode      string      `json:"TrxCode"`
	CPI          string      `json:"CPI"`
	Size         json.Number `json:"Size"`
}

type QRResult struct {
	QRCode string `json:"qr_code"`
	RefNo  string `json:"ref_no"`
}

func (in GenerateQRInput) request() (mpesa.QRRequest, int64, error) {
	req := mpesa.QRRequest{
		MerchantName: strings.TrimSpace(in.MerchantName),
		RefNo:        strings.TrimSpace(in.RefNo),
		TrxCode:      strings.ToUpper(strings.TrimSpace(in.TrxCode)),
		CPI:          strings.TrimSpace(in.CPI),
	}
	if req.MerchantName == "" || req.RefNo == "" || req.CPI == "" || req.TrxCode == "" || in.Amount == "" {
		return req, 0, ErrMissingFields
	}
	amount, err := strconv.ParseInt(string(in.Amount), 10, 64)
	if err != nil || amount < 1 {
		return req, 0, ErrInvalidAmount
	}
	if _, ok := TrxCodes[req.TrxCode]; !ok {
		return req, 0, ErrInvalidTrxCode
	}
	size := int64(DefaultSize)
	if in.Size != "" {
		size, err = strconv.ParseInt(string(in.Size), 10, 64)
		if err != nil || size < 1 {
			return req, 0, ErrInvalidSize
		}
	}
	req.Amount = strconv.FormatInt(amount, 10)
	req.Size = strconv.FormatInt(size, 10)
	return req, amount, nil
}

// GenerateQR validates the request, asks Daraja for a QR and records it.
func (s *Service) GenerateQR(ctx context.Context, userID uint, in GenerateQRInput) (*QRResult, error) {
	req, amount, err := in.request()
	if err != nil {
		return nil, err
	}
	if s.Client == nil {
		return nil, ErrNotConfigured
	}

	qr, err := s.Client.GenerateQR(ctx, req)
	metrics.ObserveProvider(metrics.ProviderMpesa, err)
	if err != nil {
		log.Error().Err(err).Str("ref_no", req.RefNo).Msg("mpesa qr generation failed")
		return nil, ErrProvider
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	record := domain.DonationQR{
		RequestedBy:    userID,
		RefNo:          req.RefNo,
		MerchantName:   req.MerchantName,
		Amount:         amount,
		TrxCode:        req.TrxCode,
		CPI:            req.CPI,
		RequestPayload: datatypes.JSON(payload),
	}
	var org domain.OrgProfile
	if err := s.DB.WithContext(ctx).Select("id").Where("user_id = ?", userID).Take(&org).Error; err == nil {
		record.OrgID = &org.ID
	}
	if err := s.DB.WithContext(ctx).Create(&record).Error; err != nil {
		// the QR is still valid for the donor
		log.Warn().Err(err).Str("ref_no", req.RefNo).Msg("failed to record donation qr")
	}
	return &QRResult{QRCode: qr, RefNo: req.RefNo}, nil
}
