// Package backend talks to the HR records service that owns employees,
// leave applications, balances, the balance ledger, and holidays. Each
// collection is exposed as a plain REST resource under /api.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"leavedesk/internal/domain/leave"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) collectionURL(collection, employeeID string) string {
	u := fmt.Sprintf("%s/api/%s", c.baseURL, collection)
	if employeeID != "" {
		u += "?employee_id=" + url.QueryEscape(employeeID)
	}
	return u
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "GET %s", rawURL)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return errors.Errorf("GET %s: unexpected status %d", rawURL, res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s response", rawURL)
	}
	return nil
}

func (c *Client) sendJSON(ctx context.Context, method, rawURL string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "encode request body")
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, rawURL)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		return errors.Errorf("%s %s: unexpected status %d", method, rawURL, res.StatusCode)
	}
	if out == nil {
		io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s response", rawURL)
	}
	return nil
}

func (c *Client) Employees(ctx context.Context) ([]leave.Employee, error) {
	var out []leave.Employee
	if err := c.getJSON(ctx, c.collectionURL("employee", ""), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Applications lists leave applications, narrowed to one employee when
// employeeID is non-empty.
func (c *Client) Applications(ctx context.Context, employeeID string) ([]leave.Application, error) {
	var out []leave.Application
	if err := c.getJSON(ctx, c.collectionURL("leave_application", employeeID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Balances(ctx context.Context, employeeID string) ([]leave.Balance, error) {
	var out []leave.Balance
	if err := c.getJSON(ctx, c.collectionURL("leave_balance", employeeID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) BalanceHistory(ctx context.Context) ([]leave.HistoryEntry, error) {
	var out []leave.HistoryEntry
	if err := c.getJSON(ctx, c.collectionURL("leave_balance_history", ""), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Holidays(ctx context.Context) ([]leave.Holiday, error) {
	var out []leave.Holiday
	if err := c.getJSON(ctx, c.collectionURL("holiday", ""), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateApplication(ctx context.Context, app leave.Application) (leave.Application, error) {
	var out leave.Application
	if err := c.sendJSON(ctx, http.MethodPost, c.collectionURL("leave_application", ""), app, &out); err != nil {
		return leave.Application{}, err
	}
	return out, nil
}

func (c *Client) CreateHoliday(ctx context.Context, holiday leave.Holiday) (leave.Holiday, error) {
	var out leave.Holiday
	if err := c.sendJSON(ctx, http.MethodPost, c.collectionURL("holiday", ""), holiday, &out); err != nil {
		return leave.Holiday{}, err
	}
	return out, nil
}

// UpdateApplicationStatus patches a single application record in place.
func (c *Client) UpdateApplicationStatus(ctx context.Context, id, status, returnDate string) error {
	rawURL := fmt.Sprintf("%s/api/leave_application/%s", c.baseURL, url.PathEscape(id))
	body := map[string]string{"status": status}
	if returnDate != "" {
		body["return_date"] = returnDate
	}
	return c.sendJSON(ctx, http.MethodPut, rawURL, body, nil)
}

func (c *Client) CreateHistoryEntry(ctx context.Context, entry leave.HistoryEntry) error {
	return c.sendJSON(ctx, http.MethodPost, c.collectionURL("leave_balance_history", ""), entry, nil)
}

func (c *Client) UpdateBalance(ctx context.Context, balance leave.Balance) error {
	rawURL := fmt.Sprintf("%s/api/leave_balance/%s", c.baseURL, url.PathEscape(balance.ID))
	return c.sendJSON(ctx, http.MethodPut, rawURL, balance, nil)
}

// Ping checks that the records service answers at all. Used by readiness.
func (c *Client) Ping(ctx context.Context) error {
	var out []leave.Holiday
	if err := c.getJSON(ctx, c.collectionURL("holiday", ""), &out); err != nil {
		log.WithError(err).Warn("backend ping failed")
		return err
	}
	return nil
}
