package tracking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LavaJover/shvark-ftd-service/internal/config"
	"github.com/LavaJover/shvark-ftd-service/internal/domain"
	"github.com/shopspring/decimal"
)

var testDay = time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.TrackingAPI{
		URL:         server.URL + "/api",
		AffiliateID: "42",
		APIKey:      "secret",
		Timeout:     time.Second,
	}, time.UTC, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestFetchRegistrationsSendsCredentialsAndParses(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("affiliateid") != "42" || r.Header.Get("x-api-key") != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		q := r.URL.Query()
		if q.Get("command") != "registrations" || q.Get("fromdate") != "2024-05-10" || q.Get("todate") != "2024-05-10" || q.Get("json") != "1" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = io.WriteString(w, `{"registrations":[
			{"User_ID": 1001, "Registration_Date": "2024-05-10 08:15:00", "Tracking_Code": "code-O", "afp": "x",
			 "Status": "Active", "Country": "fr", "Deposits": "250.50", "Commission": 0, "Qualification_Date": "2024-05-10 09:00:00"},
			{"User_ID": "1002", "Registration_Date": "2024-05-09T23:00:00Z", "Tracking_Code": "code-P",
			 "Country": "BE", "Deposits": "", "Commission": null, "Qualification_Date": "not a date"}
		]}`)
	})

	regs, err := client.FetchRegistrations(context.Background(), testDay)
	if err != nil {
		t.Fatalf("FetchRegistrations: %v", err)
	}
	if len(regs) != 2 {
		t.Fatalf("expected 2 registrations, got %d", len(regs))
	}

	first := regs[0]
	if first.ExternalTraderID != "1001" || first.Country != "FR" || first.QualifiedAt == nil {
		t.Fatalf("unexpected first registration %+v", first)
	}
	if !first.Deposits.Equal(decimal.RequireFromString("250.50")) {
		t.Fatalf("unexpected deposits %s", first.Deposits)
	}
	if !first.RegisteredAt.Equal(time.Date(2024, 5, 10, 8, 15, 0, 0, time.UTC)) {
		t.Fatalf("unexpected registration time %s", first.RegisteredAt)
	}
	if regs[1].QualifiedAt != nil || !regs[1].Deposits.IsZero() {
		t.Fatalf("unexpected second registration %+v", regs[1])
	}
}

func TestFetchRegistrationsEmptyBodyMeansNoData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "  \n")
	})

	regs, err := client.FetchRegistrations(context.Background(), testDay)
	if err != nil || len(regs) != 0 {
		t.Fatalf("expected no registrations and no error, got %d, %v", len(regs), err)
	}
}

func TestFetchRegistrationsErrors(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"not authorized body", http.StatusOK, "IP Not Authorized", domain.ErrTrackingAPIUnauthorized},
		{"forbidden", http.StatusForbidden, "", domain.ErrTrackingAPIUnauthorized},
		{"server error", http.StatusBadGateway, "upstream", domain.ErrTrackingAPIUnavailable},
		{"malformed json", http.StatusOK, "<html>", domain.ErrMalformedResponse},
		{"bad timestamp", http.StatusOK, `{"registrations":[{"User_ID":"1","Registration_Date":"yesterday"}]}`, domain.ErrMalformedResponse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})
			if _, err := client.FetchRegistrations(context.Background(), testDay); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestFetchCommissionsParsesXML(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("command") != "commissions" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = io.WriteString(w, `<?xml version="1.0"?>
<ResultSet>
  <Commission><TraderId>1001</TraderId><CommissionType>Revshare Ongoing PL</CommissionType><Commission>12.5</Commission></Commission>
  <Commission><TraderId>1002</TraderId><CommissionType>CPA</CommissionType><Commission>abc</Commission></Commission>
</ResultSet>`)
	})

	commissions, err := client.FetchCommissions(context.Background(), testDay)
	if err != nil {
		t.Fatalf("FetchCommissions: %v", err)
	}
	if len(commissions) != 1 {
		t.Fatalf("expected the unparseable amount to be skipped, got %d", len(commissions))
	}
	if commissions[0].TraderID != "1001" || commissions[0].CommissionType != domain.RevshareCommissionType {
		t.Fatalf("unexpected commission %+v", commissions[0])
	}
}

func TestFetchMediaReportCollectsRows(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("TrackingCode") != "1" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = io.WriteString(w, `<report><data>
<row><Tracking_Code>code-O</Tracking_Code><afp>a</afp><Impressions>120</Impressions><Unique_Visitors>30</Unique_Visitors><Deposits>99.90</Deposits></row>
<row><Tracking_Code>code-P</Tracking_Code><Impressions></Impressions></row>
</data></report>`)
	})

	stats, err := client.FetchMediaReport(context.Background(), testDay.Add(13*time.Hour))
	if err != nil {
		t.Fatalf("FetchMediaReport: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(stats))
	}
	if stats[0].Impressions != 120 || stats[0].UniqueVisitors != 30 || !stats[0].Date.Equal(testDay) {
		t.Fatalf("unexpected first row %+v", stats[0])
	}
	if stats[1].Impressions != 0 || !stats[1].Deposits.IsZero() {
		t.Fatalf("unexpected second row %+v", stats[1])
	}
}
