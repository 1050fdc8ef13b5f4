package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	goplugin "github.com/hashicorp/go-plugin"

	"github.com/mwaldron/flowlens/pkg/domain/provider"
	"github.com/mwaldron/flowlens/pkg/domain/tracker"
	infraPlugin "github.com/mwaldron/flowlens/pkg/plugin"
)

// JiraProvider serves work items and changelog history from Jira Cloud.
// Request retries live here, in the provider, never in the core engine.
type JiraProvider struct {
	domain   string
	email    string
	apiToken string
}

func (p *JiraProvider) Init(config map[string]string) error {
	p.domain = config["domain"]
	if p.domain == "" {
		p.domain = os.Getenv("JIRA_DOMAIN")
	}
	p.email = config["email"]
	if p.email == "" {
		p.email = os.Getenv("JIRA_EMAIL")
	}
	p.apiToken = config["api_token"]
	if p.apiToken == "" {
		p.apiToken = os.Getenv("JIRA_API_TOKEN")
	}

	if p.domain == "" || p.email == "" || p.apiToken == "" {
		return fmt.Errorf("jira configuration missing (domain, email, api_token required)")
	}

	if !strings.HasPrefix(p.domain, "http") {
		p.domain = "https://" + p.domain
	}
	return nil
}

type jiraIssue struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Fields struct {
		Summary string `json:"summary"`
		Created string `json:"created"`
		Status  struct {
			Name string `json:"name"`
		} `json:"status"`
		IssueType struct {
			Name string `json:"name"`
		} `json:"issuetype"`
		Assignee *struct {
			DisplayName string `json:"displayName"`
		} `json:"assignee"`
	} `json:"fields"`
}

type jiraChangelog struct {
	Values []struct {
		Created string `json:"created"`
		Author  struct {
			DisplayName string `json:"displayName"`
		} `json:"author"`
		Items []struct {
			Field      string `json:"field"`
			FromString string `json:"fromString"`
			ToString   string `json:"toString"`
		} `json:"items"`
	} `json:"values"`
	IsLast bool `json:"isLast"`
}

// jiraTime is the timestamp layout Jira Cloud emits.
const jiraTime = "2006-01-02T15:04:05.000-0700"

func (p *JiraProvider) FetchItems(query string, limit int) ([]tracker.WorkItem, error) {
	if limit <= 0 {
		limit = 50
	}
	path := fmt.Sprintf("search?jql=%s&maxResults=%d&fields=summary,created,status,issuetype,assignee",
		url.QueryEscape(query), limit)

	data, err := p.request("GET", path)
	if err != nil {
		return nil, err
	}

	var searchResp struct {
		Issues []jiraIssue `json:"issues"`
	}
	if err := json.Unmarshal(data, &searchResp); err != nil {
		return nil, err
	}

	items := make([]tracker.WorkItem, 0, len(searchResp.Issues))
	for _, issue := range searchResp.Issues {
		created, _ := time.Parse(jiraTime, issue.Fields.Created)
		item := tracker.WorkItem{
			ID:           issue.Key,
			Type:         strings.ToLower(issue.Fields.IssueType.Name),
			Title:        issue.Fields.Summary,
			CurrentState: issue.Fields.Status.Name,
			CreatedDate:  created,
			SourceID:     issue.ID,
		}
		if issue.Fields.Assignee != nil {
			item.AssignedTo = issue.Fields.Assignee.DisplayName
		}
		items = append(items, item)
	}
	return items, nil
}

// FetchHistory pages through the issue changelog and keeps the
// status-field entries as state transitions, oldest first.
func (p *JiraProvider) FetchHistory(sourceID string, limit int) ([]tracker.StateTransition, error) {
	if limit <= 0 {
		limit = 100
	}

	var transitions []tracker.StateTransition
	startAt := 0
	for {
		path := fmt.Sprintf("issue/%s/changelog?startAt=%d&maxResults=100", sourceID, startAt)
		data, err := p.request("GET", path)
		if err != nil {
			return nil, err
		}

		var page jiraChangelog
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, err
		}

		for _, entry := range page.Values {
			ts, err := time.Parse(jiraTime, entry.Created)
			if err != nil {
				continue
			}
			for _, item := range entry.Items {
				if item.Field != "status" {
					continue
				}
				transitions = append(transitions, tracker.StateTransition{
					FromState: item.FromString,
					ToState:   item.ToString,
					Timestamp: ts,
					Actor:     entry.Author.DisplayName,
				})
			}
		}

		if page.IsLast || len(page.Values) == 0 || len(transitions) >= limit {
			break
		}
		startAt += len(page.Values)
	}

	if len(transitions) > limit {
		transitions = transitions[:limit]
	}
	return transitions, nil
}

// request performs one authenticated API call with retry on transient
// failures.
func (p *JiraProvider) request(method, path string) ([]byte, error) {
	r := retry.New[[]byte](retry.Config{
		MaxAttempts:   3,
		InitialDelay:  500 * time.Millisecond,
		BackoffPolicy: retry.BackoffExponential,
	})

	return r.Do(context.Background(), func(ctx context.Context) ([]byte, error) {
		reqURL := fmt.Sprintf("%s/rest/api/3/%s", p.domain, path)
		req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
		if err != nil {
			return nil, err
		}

		auth := base64.StdEncoding.EncodeToString([]byte(p.email + ":" + p.apiToken))
		req.Header.Set("Authorization", "Basic "+auth)
		req.Header.Set("Content-Type", "application/json")

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("jira api error (%d): %s", resp.StatusCode, string(body))
		}
		return body, nil
	})
}

func main() {
	goplugin.Serve(&goplugin.ServeConfig{
		HandshakeConfig: infraPlugin.HandshakeConfig,
		Plugins: map[string]goplugin.Plugin{
			"provider": &provider.HistoryProviderPlugin{Impl: &JiraProvider{}},
		},
	})
}
