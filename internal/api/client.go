// Package api is the REST client for the QuickDART backend. The backend is
// an opaque collaborator: this client preserves its request/response
// semantics and nothing else. Failed requests return an error and leave
// local state untouched; there are no automatic retries.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/Lanszs/QuickDART/internal/models"
	"github.com/Lanszs/QuickDART/internal/types"
)

const requestTimeout = 15 * time.Second

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient creates a client for a backend base URL, e.g.
// http://127.0.0.1:5000. API paths are rooted at /api/v1.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// SetToken installs the bearer token for subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

type LoginRequest struct {
	AgencyID string `json:"agency_id"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token and role, and installs the token
// on success.
func (c *Client) Login(ctx context.Context, agencyID, password string) (types.LoginResponse, error) {
	var resp types.LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", LoginRequest{AgencyID: agencyID, Password: password}, &resp)
	if err != nil {
		return types.LoginResponse{}, err
	}
	c.SetToken(resp.Token)
	return resp, nil
}

// Reports fetches the full report collection. A positive teamID narrows the
// result to reports assigned to that team.
func (c *Client) Reports(ctx context.Context, teamID int) ([]models.Report, error) {
	path := "/reports"
	if teamID > 0 {
		path += "?team_id=" + strconv.Itoa(teamID)
	}

	var reports []models.Report
	if err := c.do(ctx, http.MethodGet, path, nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

type CreateReportRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Location    string   `json:"location"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	DamageLevel string   `json:"damage_level,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
}

func (c *Client) CreateReport(ctx context.Context, req CreateReportRequest) (models.Report, error) {
	var report models.Report
	if err := c.do(ctx, http.MethodPost, "/reports", req, &report); err != nil {
		return models.Report{}, err
	}
	return report, nil
}

// UpdateReportRequest is a partial update: nil fields are left untouched
// server-side.
type UpdateReportRequest struct {
	Status      *string `json:"status,omitempty"`
	DamageLevel *string `json:"damage_level,omitempty"`
}

func (c *Client) UpdateReport(ctx context.Context, id int, req UpdateReportRequest) (models.Report, error) {
	var report models.Report
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/reports/%d", id), req, &report); err != nil {
		return models.Report{}, err
	}
	return report, nil
}

// Resources fetches teams and assets. Either shape (assets nested under
// teams, or flat) decodes into the ResourceSet.
func (c *Client) Resources(ctx context.Context) (models.ResourceSet, error) {
	var rs models.ResourceSet
	if err := c.do(ctx, http.MethodGet, "/resources", nil, &rs); err != nil {
		return models.ResourceSet{}, err
	}
	return rs, nil
}

type CreateTeamRequest struct {
	Name             string   `json:"name"`
	Department       string   `json:"department"`
	PersonnelCount   int      `json:"personnel_count"`
	BaseLatitude     *float64 `json:"base_latitude,omitempty"`
	BaseLongitude    *float64 `json:"base_longitude,omitempty"`
	CoverageRadiusKm float64  `json:"coverage_radius_km,omitempty"`
}

func (c *Client) CreateTeam(ctx context.Context, req CreateTeamRequest) (models.Team, error) {
	var team models.Team
	if err := c.do(ctx, http.MethodPost, "/teams", req, &team); err != nil {
		return models.Team{}, err
	}
	return team, nil
}

func (c *Client) DeleteTeam(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/teams/%d", id), nil, nil)
}

type DeployTeamRequest struct {
	Status   string `json:"status"`
	Task     string `json:"task"`
	ReportID *int   `json:"report_id,omitempty"`
}

// DeployTeam changes a team's deployment state. Task and ReportID only
// matter when deploying; clearing them on stand-down is the server's job.
func (c *Client) DeployTeam(ctx context.Context, id int, req DeployTeamRequest) (models.Team, error) {
	var team models.Team
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/teams/%d/deploy", id), req, &team); err != nil {
		return models.Team{}, err
	}
	return team, nil
}

type NotifyRequest struct {
	Message string `json:"message"`
}

func (c *Client) NotifyTeam(ctx context.Context, id int, message string) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/teams/%d/notify", id), NotifyRequest{Message: message}, nil)
}

type CreateAssetRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Location string `json:"location,omitempty"`
	TeamID   *int   `json:"team_id,omitempty"`
}

func (c *Client) CreateAsset(ctx context.Context, req CreateAssetRequest) (models.Asset, error) {
	var asset models.Asset
	if err := c.do(ctx, http.MethodPost, "/assets", req, &asset); err != nil {
		return models.Asset{}, err
	}
	return asset, nil
}

func (c *Client) DeleteAsset(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/assets/%d", id), nil, nil)
}

type DeployAssetRequest struct {
	Status   string `json:"status"`
	Location string `json:"location"`
}

func (c *Client) DeployAsset(ctx context.Context, id int, req DeployAssetRequest) (models.Asset, error) {
	var asset models.Asset
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/assets/%d/deploy", id), req, &asset); err != nil {
		return models.Asset{}, err
	}
	return asset, nil
}

func (c *Client) NotifyAsset(ctx context.Context, id int, message string) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/assets/%d/notify", id), NotifyRequest{Message: message}, nil)
}

// Analyze uploads an image for damage classification. The long-running work
// happens server-side; callers surface a pending state while waiting.
func (c *Client) Analyze(ctx context.Context, filename string, image io.Reader) (types.AnalysisResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return types.AnalysisResult{}, err
	}
	if _, err := io.Copy(part, image); err != nil {
		return types.AnalysisResult{}, err
	}
	if err := mw.Close(); err != nil {
		return types.AnalysisResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/analyze", &body)
	if err != nil {
		return types.AnalysisResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return types.AnalysisResult{}, err
	}
	defer resp.Body.Close()

	var result types.AnalysisResult
	if err := decodeResponse(resp, &result); err != nil {
		return types.AnalysisResult{}, err
	}
	return result, nil
}

// ChatHistory fetches the ordered transcript for one room.
func (c *Client) ChatHistory(ctx context.Context, room string) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	if err := c.do(ctx, http.MethodGet, "/chat/history/"+url.PathEscape(room), nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api/v1"+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

func (c *Client) authorize(req *http.Request) {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func decodeResponse(resp *http.Response, out interface{}) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		msg := apiErr.Error
		if msg == "" {
			msg = apiErr.Message
		}
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("api: %s (status %d)", msg, resp.StatusCode)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
