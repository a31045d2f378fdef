// Package tracking reads sequence and shot lists from a ShotGrid-compatible
// production tracking REST API.
package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/danieljhkim/studiofold/internal/planner"
)

// Unassigned groups shots that are not linked to a sequence.
const Unassigned = "UNASSIGNED"

// DefaultPageSize is the number of records requested per page.
const DefaultPageSize = 500

const userAgent = "studiofold-tracking"

var errNilHTTPClient = errors.New("http client is nil")

// Client talks to the tracking server.
type Client struct {
	http     *http.Client
	creds    Credentials
	base     string
	pageSize int
}

// NewClient creates a Client. A nil http client uses http.DefaultClient.
func NewClient(h *http.Client, creds Credentials) (*Client, error) {
	if !creds.complete() {
		return nil, ErrNoCredentials
	}
	if h == nil {
		h = http.DefaultClient
	}
	return &Client{
		http:     h,
		creds:    creds,
		base:     strings.TrimRight(creds.URL, "/"),
		pageSize: DefaultPageSize,
	}, nil
}

// WithPageSize returns a copy of the client using n records per page.
func (c *Client) WithPageSize(n int) *Client {
	cp := *c
	if n > 0 {
		cp.pageSize = n
	}
	return &cp
}

// FetchSequences returns the project's shots grouped by sequence code. Groups
// are sorted by name and shots within a group are sorted and unique. Shots
// without a sequence are grouped under Unassigned.
func (c *Client) FetchSequences(ctx context.Context) (planner.Groups, error) {
	if c.http == nil {
		return nil, errNilHTTPClient
	}

	token, err := c.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	seqCodes := make(map[int]string)
	err = c.each(ctx, token, "sequences", "id,code", func(r record) {
		if code := strings.TrimSpace(r.Attributes.Code); code != "" {
			seqCodes[r.ID] = code
		}
	})
	if err != nil {
		return nil, err
	}

	shots := make(map[string]map[string]bool)
	err = c.each(ctx, token, "shots", "id,code,sg_sequence", func(r record) {
		code := strings.TrimSpace(r.Attributes.Code)
		if code == "" {
			return
		}

		seq := ""
		if link := r.Relationships.Sequence.Data; link != nil && link.ID != 0 {
			seq = seqCodes[link.ID]
			if seq == "" {
				seq = strings.TrimSpace(link.Name)
			}
		}
		if seq == "" {
			seq = Unassigned
		}

		if shots[seq] == nil {
			shots[seq] = make(map[string]bool)
		}
		shots[seq][code] = true
	})
	if err != nil {
		return nil, err
	}

	return sortedGroups(shots), nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (c *Client) authenticate(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.creds.ScriptName)
	form.Set("client_secret", c.creds.ScriptKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/v1/auth/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to authenticate: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("authentication failed: %s", statusText(res))
	}

	var tok tokenResponse
	if err := json.NewDecoder(res.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("failed to decode token: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("authentication failed: empty access token")
	}
	return tok.AccessToken, nil
}

type link struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type record struct {
	ID         int `json:"id"`
	Attributes struct {
		Code string `json:"code"`
	} `json:"attributes"`
	Relationships struct {
		Sequence struct {
			Data *link `json:"data"`
		} `json:"sg_sequence"`
	} `json:"relationships"`
}

type page struct {
	Data  []record `json:"data"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

// each pages through an entity collection filtered to the project.
func (c *Client) each(ctx context.Context, token, entity, fields string, fn func(record)) error {
	for number := 1; ; number++ {
		q := url.Values{}
		q.Set("filter[project.Project.id]", strconv.Itoa(c.creds.ProjectID))
		q.Set("fields", fields)
		q.Set("page[size]", strconv.Itoa(c.pageSize))
		q.Set("page[number]", strconv.Itoa(number))

		p, err := c.fetchPage(ctx, token, c.base+"/api/v1/entity/"+entity+"?"+q.Encode())
		if err != nil {
			return fmt.Errorf("failed to fetch %s page %d: %w", entity, number, err)
		}
		for _, r := range p.Data {
			fn(r)
		}
		if len(p.Data) < c.pageSize || p.Links.Next == "" {
			return nil
		}
	}
}

func (c *Client) fetchPage(ctx context.Context, token, target string) (*page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed: %s", statusText(res))
	}

	var p page
	if err := json.NewDecoder(res.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &p, nil
}

func statusText(res *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return res.Status
	}
	return res.Status + ": " + msg
}

func sortedGroups(shots map[string]map[string]bool) planner.Groups {
	names := make([]string, 0, len(shots))
	for name := range shots {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make(planner.Groups, 0, len(names))
	for _, name := range names {
		codes := make([]string, 0, len(shots[name]))
		for code := range shots[name] {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		groups = append(groups, planner.Group{Name: name, Items: codes})
	}
	return groups
}
