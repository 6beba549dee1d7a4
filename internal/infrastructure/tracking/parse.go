package tracking

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/LavaJover/shvark-ftd-service/internal/domain"
	"github.com/shopspring/decimal"
)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
}

// flexString accepts both JSON strings and numbers.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	*s = flexString(data)
	return nil
}

// flexDecimal accepts numbers, numeric strings, empty strings and null.
type flexDecimal struct {
	decimal.Decimal
}

func (d *flexDecimal) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		d.Decimal = decimal.Zero
		return nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return err
	}
	d.Decimal = v
	return nil
}

type registrationDTO struct {
	UserID            flexString  `json:"User_ID"`
	RegistrationDate  string      `json:"Registration_Date"`
	TrackingCode      flexString  `json:"Tracking_Code"`
	Afp               flexString  `json:"afp"`
	Status            string      `json:"Status"`
	Country           string      `json:"Country"`
	Deposits          flexDecimal `json:"Deposits"`
	Commission        flexDecimal `json:"Commission"`
	QualificationDate string      `json:"Qualification_Date"`
}

type registrationsResponse struct {
	Registrations []registrationDTO `json:"registrations"`
}

func parseRegistrations(body []byte, location *time.Location) ([]domain.Registration, error) {
	var resp registrationsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: registrations: %v (%d bytes)", domain.ErrMalformedResponse, err, len(body))
	}

	registrations := make([]domain.Registration, 0, len(resp.Registrations))
	for _, dto := range resp.Registrations {
		if dto.UserID == "" {
			return nil, fmt.Errorf("%w: registration without User_ID", domain.ErrMalformedResponse)
		}
		registeredAt, err := parseTimestamp(dto.RegistrationDate, location)
		if err != nil {
			return nil, fmt.Errorf("%w: registration %s: %v", domain.ErrMalformedResponse, dto.UserID, err)
		}

		reg := domain.Registration{
			ExternalTraderID: string(dto.UserID),
			RegisteredAt:     registeredAt,
			TrackingCode:     string(dto.TrackingCode),
			Afp:              string(dto.Afp),
			Status:           dto.Status,
			Country:          strings.ToUpper(strings.TrimSpace(dto.Country)),
			Deposits:         dto.Deposits.Decimal,
			Commission:       dto.Commission.Decimal,
		}
		// unparseable qualification dates are treated as not qualified
		if dto.QualificationDate != "" {
			if qualifiedAt, err := parseTimestamp(dto.QualificationDate, location); err == nil {
				reg.QualifiedAt = &qualifiedAt
			}
		}
		registrations = append(registrations, reg)
	}
	return registrations, nil
}

func parseTimestamp(value string, location *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, location); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp %q", value)
}

type commissionXML struct {
	TraderID       string `xml:"TraderId"`
	CommissionType string `xml:"CommissionType"`
	Commission     string `xml:"Commission"`
}

type commissionsXML struct {
	XMLName     xml.Name        `xml:"ResultSet"`
	Commissions []commissionXML `xml:"Commission"`
}

func parseCommissions(body []byte) ([]domain.ProviderCommission, error) {
	var resp commissionsXML
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: commissions: %v", domain.ErrMalformedResponse, err)
	}

	commissions := make([]domain.ProviderCommission, 0, len(resp.Commissions))
	for _, c := range resp.Commissions {
		amount, err := decimal.NewFromString(strings.TrimSpace(c.Commission))
		if err != nil {
			continue
		}
		commissions = append(commissions, domain.ProviderCommission{
			TraderID:       strings.TrimSpace(c.TraderID),
			CommissionType: strings.TrimSpace(c.CommissionType),
			Amount:         amount,
		})
	}
	return commissions, nil
}

type mediaRowXML struct {
	TrackingCode   string `xml:"Tracking_Code"`
	Afp            string `xml:"afp"`
	Impressions    string `xml:"Impressions"`
	UniqueVisitors string `xml:"Unique_Visitors"`
	Deposits       string `xml:"Deposits"`
}

// parseMediaReport collects every <row> element wherever it sits in the document.
func parseMediaReport(body []byte, day time.Time) ([]domain.MediaStat, error) {
	decoder := xml.NewDecoder(bytes.NewReader(body))
	var stats []domain.MediaStat
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: media report: %v", domain.ErrMalformedResponse, err)
		}
		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "row" {
			continue
		}
		var row mediaRowXML
		if err := decoder.DecodeElement(&row, &start); err != nil {
			return nil, fmt.Errorf("%w: media report row: %v", domain.ErrMalformedResponse, err)
		}
		stats = append(stats, domain.MediaStat{
			Date:           day,
			TrackingCode:   strings.TrimSpace(row.TrackingCode),
			Afp:            strings.TrimSpace(row.Afp),
			Impressions:    parseCount(row.Impressions),
			UniqueVisitors: parseCount(row.UniqueVisitors),
			Deposits:       parseAmount(row.Deposits),
		})
	}
	return stats, nil
}

func parseCount(value string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func parseAmount(value string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero
	}
	return d
}
