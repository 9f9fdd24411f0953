package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/focusfortress/fortress/internal/errors"
	"github.com/focusfortress/fortress/internal/models"
)

// Client talks to a remote fortress API server implementing the backing
// store contract. The server is the arbiter of streak state and of
// "already marked today"; this client only translates transport into the
// shared error taxonomy.
type Client struct {
	baseURL    string
	token      string
	HTTPClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:      token,
		HTTPClient: &http.Client{Timeout: 12 * time.Second},
	}
}

// Init is a no-op: the server owns its own schema.
func (c *Client) Init() error {
	return nil
}

// Load verifies the server is reachable and the token accepted.
func (c *Client) Load() error {
	var out []models.Category
	if err := c.do(http.MethodGet, "/categories", nil, &out); err != nil {
		return fmt.Errorf("failed to reach backing store: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	return nil
}

func (c *Client) GetConfigPath() string {
	return c.baseURL
}

// apiError is the server's error envelope. Older servers omit code and
// only send message text.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *Client) do(method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request payload: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return mapError(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// mapError converts a non-2xx response into the shared taxonomy. Servers
// that predate structured codes are matched on message text; that
// fallback is a known compatibility risk and exists only here.
func mapError(status int, body []byte) error {
	var envelope apiError
	_ = json.Unmarshal(body, &envelope)
	msg := envelope.Message
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch status {
	case http.StatusNotFound:
		return &errors.NotFoundError{Entity: "resource", ID: msg}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &errors.ValidationError{Field: "request", Reason: msg}
	case http.StatusConflict:
		return &errors.ConflictError{Code: conflictCode(envelope.Code, msg), Message: msg}
	default:
		return fmt.Errorf("backing store returned status %d: %s", status, msg)
	}
}

func conflictCode(code, msg string) string {
	if code != "" {
		return code
	}
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "already marked"), strings.Contains(lower, "already completed"):
		return errors.CodeAlreadyMarked
	case strings.Contains(lower, "subcategories"):
		return errors.CodeHasSubcategories
	case strings.Contains(lower, "habits"):
		return errors.CodeHasHabits
	default:
		return ""
	}
}

// Categories

func (c *Client) AddCategory(cat models.Category) error {
	return c.do(http.MethodPost, "/categories", cat, nil)
}

func (c *Client) GetCategory(id string) (models.Category, error) {
	var out models.Category
	err := c.do(http.MethodGet, "/categories/"+id, nil, &out)
	return out, err
}

func (c *Client) GetAllCategories() ([]models.Category, error) {
	var out []models.Category
	err := c.do(http.MethodGet, "/categories", nil, &out)
	return out, err
}

func (c *Client) UpdateCategory(cat models.Category) error {
	return c.do(http.MethodPut, "/categories/"+cat.ID, cat, nil)
}

func (c *Client) DeleteCategory(id string) error {
	return c.do(http.MethodDelete, "/categories/"+id, nil, nil)
}

// Subcategories

func (c *Client) AddSubcategory(sub models.Subcategory) error {
	return c.do(http.MethodPost, "/subcategories", sub, nil)
}

func (c *Client) GetSubcategory(id string) (models.Subcategory, error) {
	var out models.Subcategory
	err := c.do(http.MethodGet, "/subcategories/"+id, nil, &out)
	return out, err
}

func (c *Client) GetSubcategories(categoryID string) ([]models.Subcategory, error) {
	var out []models.Subcategory
	err := c.do(http.MethodGet, "/subcategories?categoryId="+categoryID, nil, &out)
	return out, err
}

func (c *Client) UpdateSubcategory(sub models.Subcategory) error {
	return c.do(http.MethodPut, "/subcategories/"+sub.ID, sub, nil)
}

func (c *Client) DeleteSubcategory(id string) error {
	return c.do(http.MethodDelete, "/subcategories/"+id, nil, nil)
}

// Tree

func (c *Client) Tree() ([]models.CategoryTree, error) {
	var out []models.CategoryTree
	err := c.do(http.MethodGet, "/habits/tree", nil, &out)
	return out, err
}

// Habits

func (c *Client) AddHabit(h models.Habit) error {
	return c.do(http.MethodPost, "/habits", h, nil)
}

func (c *Client) GetHabit(id string) (models.Habit, error) {
	var out models.Habit
	err := c.do(http.MethodGet, "/habits/"+id, nil, &out)
	return out, err
}

func (c *Client) GetAllHabits() ([]models.Habit, error) {
	var out []models.Habit
	err := c.do(http.MethodGet, "/habits", nil, &out)
	return out, err
}

func (c *Client) UpdateHabit(h models.Habit) error {
	return c.do(http.MethodPut, "/habits/"+h.ID, h, nil)
}

func (c *Client) DeleteHabit(id string) error {
	return c.do(http.MethodDelete, "/habits/"+id, nil, nil)
}

// MarkDone posts today's completion. The server uses its own clock, so
// day is ignored here; the response body is the updated streak count.
func (c *Client) MarkDone(id string, day string) (int, error) {
	var streak int
	if err := c.do(http.MethodPost, "/habits/"+id+"/done", nil, &streak); err != nil {
		return 0, err
	}
	return streak, nil
}

// Counters

func (c *Client) AddCounter(counter models.Counter) error {
	return c.do(http.MethodPost, "/counters", counter, nil)
}

func (c *Client) GetCounter(id string) (models.Counter, error) {
	var out models.Counter
	err := c.do(http.MethodGet, "/counters/"+id, nil, &out)
	return out, err
}

func (c *Client) GetAllCounters() ([]models.Counter, error) {
	var out []models.Counter
	err := c.do(http.MethodGet, "/counters", nil, &out)
	return out, err
}

func (c *Client) UpdateCounter(counter models.Counter) error {
	return c.do(http.MethodPut, "/counters/"+counter.ID, counter, nil)
}

func (c *Client) DeleteCounter(id string) error {
	return c.do(http.MethodDelete, "/counters/"+id, nil, nil)
}

func (c *Client) ResetCounter(id string, start time.Time) error {
	return c.do(http.MethodPost, "/counters/"+id+"/reset", nil, nil)
}
