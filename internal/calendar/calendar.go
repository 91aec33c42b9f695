// Package calendar proxies the session user's calendar from the backend.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Mark0025/peterental/internal/backend"
)

// ErrNoUser is returned when a calendar call has no acting user.
var ErrNoUser = errors.New("calendar requires a user")

const (
	DefaultDaysAhead = 14
	MaxDaysAhead     = 90
)

type Event struct {
	ID          string    `json:"id"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}

type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// AuthStatus reports whether the user has connected a calendar account.
type AuthStatus struct {
	Authorized bool   `json:"authorized"`
	Email      string `json:"email,omitempty"`
	AuthURL    string `json:"auth_url,omitempty"`
}

type System interface {
	Events(ctx context.Context, userID string, daysAhead int) ([]Event, error)
	Availability(ctx context.Context, userID string, daysAhead int) ([]Slot, error)
	AuthStatus(ctx context.Context, userID string) (*AuthStatus, error)
}

type proxy struct {
	client *backend.Client
	logger *slog.Logger
}

func New(client *backend.Client, logger *slog.Logger) System {
	return &proxy{
		client: client,
		logger: logger.With("system", "calendar"),
	}
}

func (p *proxy) Events(ctx context.Context, userID string, daysAhead int) ([]Event, error) {
	q, err := query(userID, daysAhead)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Events []Event `json:"events"`
	}
	if err := p.client.Get(ctx, "/calendar/events", q, &resp); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if resp.Events == nil {
		resp.Events = []Event{}
	}
	return resp.Events, nil
}

func (p *proxy) Availability(ctx context.Context, userID string, daysAhead int) ([]Slot, error) {
	q, err := query(userID, daysAhead)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Slots []Slot `json:"slots"`
	}
	if err := p.client.Get(ctx, "/calendar/availability", q, &resp); err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	if resp.Slots == nil {
		resp.Slots = []Slot{}
	}
	return resp.Slots, nil
}

func (p *proxy) AuthStatus(ctx context.Context, userID string) (*AuthStatus, error) {
	if userID == "" {
		return nil, ErrNoUser
	}

	var status AuthStatus
	if err := p.client.Get(ctx, "/calendar/auth/status", url.Values{"user_id": {userID}}, &status); err != nil {
		return nil, fmt.Errorf("calendar auth status: %w", err)
	}
	return &status, nil
}

func query(userID string, daysAhead int) (url.Values, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	return url.Values{
		"user_id":    {userID},
		"days_ahead": {strconv.Itoa(clampDays(daysAhead))},
	}, nil
}

func clampDays(days int) int {
	if days < 1 {
		return DefaultDaysAhead
	}
	return min(days, MaxDaysAhead)
}

func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNoUser) {
		return http.StatusUnauthorized
	}
	return backend.MapHTTPStatus(err)
}
