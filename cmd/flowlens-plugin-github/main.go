package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/google/go-github/v69/github"
	goplugin "github.com/hashicorp/go-plugin"
	"golang.org/x/oauth2"

	"github.com/mwaldron/flowlens/pkg/domain/provider"
	"github.com/mwaldron/flowlens/pkg/domain/tracker"
	infraPlugin "github.com/mwaldron/flowlens/pkg/plugin"
)

// GitHubProvider serves repository issues as work items. Issue timeline
// events become state transitions: GitHub has no free-form workflow, so
// the states are the lifecycle names Open / Closed / Reopened.
type GitHubProvider struct {
	client *github.Client
	owner  string
	repo   string
}

func (p *GitHubProvider) Init(config map[string]string) error {
	p.owner = config["owner"]
	if p.owner == "" {
		p.owner = os.Getenv("GITHUB_OWNER")
	}
	p.repo = config["repo"]
	if p.repo == "" {
		p.repo = os.Getenv("GITHUB_REPO")
	}
	token := config["token"]
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}

	if p.owner == "" || p.repo == "" {
		return fmt.Errorf("github configuration missing (owner, repo required)")
	}

	httpClient := oauth2.NewClient(context.Background(), nil)
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	p.client = github.NewClient(httpClient)
	return nil
}

func (p *GitHubProvider) FetchItems(query string, limit int) ([]tracker.WorkItem, error) {
	if limit <= 0 {
		limit = 100
	}
	opts := &github.IssueListByRepoOptions{
		State:       "all",
		Labels:      nil,
		ListOptions: github.ListOptions{PerPage: 100},
	}
	if query != "" {
		opts.Labels = []string{query}
	}

	var items []tracker.WorkItem
	ctx := context.Background()
	for len(items) < limit {
		issues, resp, err := p.client.Issues.ListByRepo(ctx, p.owner, p.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("list issues: %w", err)
		}
		for _, issue := range issues {
			if issue.IsPullRequest() {
				continue
			}
			state := "Open"
			if issue.GetState() == "closed" {
				state = "Closed"
			}
			items = append(items, tracker.WorkItem{
				ID:           fmt.Sprintf("%s/%s#%d", p.owner, p.repo, issue.GetNumber()),
				Type:         "issue",
				Title:        issue.GetTitle(),
				CurrentState: state,
				CreatedDate:  issue.GetCreatedAt().Time,
				AssignedTo:   issue.GetAssignee().GetLogin(),
				SourceID:     strconv.Itoa(issue.GetNumber()),
			})
			if len(items) >= limit {
				break
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return items, nil
}

func (p *GitHubProvider) FetchHistory(sourceID string, limit int) ([]tracker.StateTransition, error) {
	number, err := strconv.Atoi(sourceID)
	if err != nil {
		return nil, fmt.Errorf("invalid source id %q: %w", sourceID, err)
	}
	if limit <= 0 {
		limit = 100
	}

	var transitions []tracker.StateTransition
	ctx := context.Background()
	opts := &github.ListOptions{PerPage: 100}
	for {
		events, resp, err := p.client.Issues.ListIssueTimeline(ctx, p.owner, p.repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("list issue timeline: %w", err)
		}
		for _, ev := range events {
			var from, to string
			switch ev.GetEvent() {
			case "closed":
				from, to = "Open", "Closed"
			case "reopened":
				from, to = "Closed", "Open"
			default:
				continue
			}
			transitions = append(transitions, tracker.StateTransition{
				FromState: from,
				ToState:   to,
				Timestamp: ev.GetCreatedAt().Time,
				Actor:     ev.GetActor().GetLogin(),
			})
		}
		if resp.NextPage == 0 || len(transitions) >= limit {
			break
		}
		opts.Page = resp.NextPage
	}

	if len(transitions) > limit {
		transitions = transitions[:limit]
	}
	return transitions, nil
}

func main() {
	goplugin.Serve(&goplugin.ServeConfig{
		HandshakeConfig: infraPlugin.HandshakeConfig,
		Plugins: map[string]goplugin.Plugin{
			"provider": &provider.HistoryProviderPlugin{Impl: &GitHubProvider{}},
		},
	})
}
