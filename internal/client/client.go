// Package client is a thin HTTP client for the ev-charge-hub API. The
// CLI uses it both for direct calls and as the fetch backend of the
// client-side availability aggregator.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/iliyamo/ev-charge-hub/internal/model"
)

// API talks to one ev-charge-hub server. Token may be empty for the
// public endpoints.
type API struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func New(baseURL, token string) *API {
	return &API{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Session is one charging pad as listed by the server.
type Session struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// Reservation mirrors the server's reservation payload including the
// derived display state.
type Reservation struct {
	ID           string `json:"id"`
	SessionID    uint64 `json:"session_id"`
	Plate        string `json:"plate"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Status       string `json:"status"`
	Phase        string `json:"phase"`
	Label        string `json:"label"`
	Subtext      string `json:"subtext"`
	ContactEmail string `json:"contact_email,omitempty"`
}

// Day is one entry of the availability strip.
type Day struct {
	Date        string `json:"date"`
	Label       string `json:"label"`
	FreePercent int    `json:"free_percent"`
	Tier        string `json:"tier"`
}

// Strip is the server-computed availability response.
type Strip struct {
	SessionID     uint64 `json:"session_id"`
	AnchorDate    string `json:"anchor_date"`
	Days          []Day  `json:"days"`
	OccupiedSlots []string `json:"occupied_slots"`
}

func (a *API) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL+path, rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.Token != "" {
		req.Header.Set("Authorization", "Bearer "+a.Token)
	}
	resp, err := a.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

// Login exchanges driver credentials for an access token and stores it
// on the client.
func (a *API) Login(ctx context.Context, email, password string) error {
	var resp struct {
		Access struct {
			Token string `json:"token"`
		} `json:"access"`
	}
	err := a.do(ctx, http.MethodPost, "/v1/auth/login",
		map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return err
	}
	a.Token = resp.Access.Token
	return nil
}

// Sessions lists the charging pads.
func (a *API) Sessions(ctx context.Context) ([]Session, error) {
	var resp struct {
		Sessions []Session `json:"sessions"`
	}
	if err := a.do(ctx, http.MethodGet, "/v1/sessions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

// Availability fetches the server-computed strip for one session.
func (a *API) Availability(ctx context.Context, sessionID uint64, anchorDate string) (*Strip, error) {
	q := url.Values{}
	q.Set("session_id", strconv.FormatUint(sessionID, 10))
	q.Set("date", anchorDate)
	var strip Strip
	if err := a.do(ctx, http.MethodGet, "/v1/availability?"+q.Encode(), nil, &strip); err != nil {
		return nil, err
	}
	return &strip, nil
}

// SessionsByDate implements schedule.Fetcher over the HTTP API: it
// lists the pads once, then pulls each pad's reservations for the day.
func (a *API) SessionsByDate(ctx context.Context, dateISO string) ([]model.SessionReservations, error) {
	sessions, err := a.Sessions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.SessionReservations, 0, len(sessions))
	for _, s := range sessions {
		q := url.Values{}
		q.Set("session_id", strconv.FormatUint(s.ID, 10))
		q.Set("date", dateISO)
		var resp struct {
			Reservations []Reservation `json:"reservations"`
		}
		if err := a.do(ctx, http.MethodGet, "/v1/reservations/by-session?"+q.Encode(), nil, &resp); err != nil {
			return nil, err
		}
		sr := model.SessionReservations{SessionID: s.ID, Name: s.Name}
		for _, r := range resp.Reservations {
			sr.Reservations = append(sr.Reservations, model.Reservation{
				ID:        r.ID,
				SessionID: r.SessionID,
				Plate:     r.Plate,
				Date:      r.Date,
				StartTime: r.StartTime,
				EndTime:   r.EndTime,
				Status:    r.Status,
			})
		}
		out = append(out, sr)
	}
	return out, nil
}

// CreateReservation books a single window.
func (a *API) CreateReservation(ctx context.Context, sessionID uint64, plate, date, start, end, email string) (*Reservation, error) {
	body := map[string]any{
		"session_id": sessionID,
		"plate":      plate,
		"date":       date,
		"start_time": start,
		"end_time":   end,
	}
	if email != "" {
		body["contact_email"] = email
	}
	var res Reservation
	if err := a.do(ctx, http.MethodPost, "/v1/reservations", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CreateBatch books several hour blocks at once.
func (a *API) CreateBatch(ctx context.Context, sessionID uint64, plate, date string, starts []string, email string) ([]Reservation, error) {
	body := map[string]any{
		"session_id": sessionID,
		"plate":      plate,
		"date":       date,
		"starts":     starts,
	}
	if email != "" {
		body["contact_email"] = email
	}
	var resp struct {
		Reservations []Reservation `json:"reservations"`
	}
	if err := a.do(ctx, http.MethodPost, "/v1/reservations/batch", body, &resp); err != nil {
		return nil, err
	}
	return resp.Reservations, nil
}

// My lists the caller's reservations.
func (a *API) My(ctx context.Context, plate string) ([]Reservation, error) {
	path := "/v1/reservations/my"
	if plate != "" {
		path += "?plate=" + url.QueryEscape(plate)
	}
	var resp struct {
		Reservations []Reservation `json:"reservations"`
	}
	if err := a.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Reservations, nil
}

// Cancel deletes one of the caller's reservations.
func (a *API) Cancel(ctx context.Context, id, plate string) error {
	path := "/v1/reservations/" + url.PathEscape(id)
	if plate != "" {
		path += "?plate=" + url.QueryEscape(plate)
	}
	return a.do(ctx, http.MethodDelete, path, nil, nil)
}
