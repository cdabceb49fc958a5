// Package dashboardapi is the client for the dashboard data service that
// aggregates a student's profile, courses, exams, attendance and notifications.
package dashboardapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/studentdash/internal/domain/models"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 4 << 20

// ErrNoStudentID is returned when a fetch is attempted without an identifier.
var ErrNoStudentID = errors.New("dashboardapi: no student id")

// StatusError reports a non-2xx response. The status is for logs only.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("dashboardapi: %s returned status %d", e.URL, e.StatusCode)
}

// Config configures the client.
type Config struct {
	BaseURL string        // e.g. https://api.example.edu/v1
	Timeout time.Duration // per request, including token fetches

	// OAuth2 client credentials. Leave ClientID empty for an open backend.
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
}

// Client fetches dashboard bundles.
type Client struct {
	baseURL  string
	http     *http.Client
	validate *validator.Validate
	log      *zap.Logger
}

// New builds a client. When ClientID is set every request carries a bearer
// token obtained with the client credentials grant.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("dashboardapi: invalid base url %q", cfg.BaseURL)
	}

	hc := &http.Client{Timeout: cfg.Timeout}
	if cfg.ClientID != "" {
		if cfg.TokenURL == "" {
			return nil, errors.New("dashboardapi: token url required with client id")
		}
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		}
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: cfg.Timeout})
		hc = cc.Client(ctx)
		hc.Timeout = cfg.Timeout
	}

	return &Client{
		baseURL:  base,
		http:     hc,
		validate: validator.New(),
		log:      logger,
	}, nil
}

// GetStudentDashboard fetches the bundle for studentID. Transport failures,
// non-2xx responses, undecodable bodies and payloads that fail validation
// are all returned as errors.
func (c *Client) GetStudentDashboard(ctx context.Context, studentID string) (models.StudentDashboard, error) {
	var out models.StudentDashboard

	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return out, ErrNoStudentID
	}

	endpoint := c.baseURL + "/students/" + url.PathEscape(studentID) + "/dashboard"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return out, fmt.Errorf("dashboardapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return out, fmt.Errorf("dashboardapi: fetch dashboard: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return out, &StatusError{StatusCode: resp.StatusCode, URL: endpoint}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&out); err != nil {
		return models.StudentDashboard{}, fmt.Errorf("dashboardapi: decode dashboard: %w", err)
	}
	if err := c.validate.StructCtx(ctx, &out); err != nil {
		return models.StudentDashboard{}, fmt.Errorf("dashboardapi: invalid dashboard: %w", err)
	}

	c.log.Debug("dashboard fetched",
		zap.String("student_id", studentID),
		zap.Int("enrollments", len(out.Enrollments)),
		zap.Int("notifications", len(out.Notifications)))
	return out, nil
}
