package main

import (
	"fmt"
	"log"
	"time"

	goplugin "github.com/hashicorp/go-plugin"

	"github.com/mwaldron/flowlens/pkg/domain/provider"
	"github.com/mwaldron/flowlens/pkg/domain/tracker"
	infraPlugin "github.com/mwaldron/flowlens/pkg/plugin"
)

// MockProvider serves a deterministic set of items and histories for
// demos and end-to-end checks without touching a real tracker.
type MockProvider struct{}

var baseDate = time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

func (m *MockProvider) Init(config map[string]string) error {
	return nil
}

func (m *MockProvider) FetchItems(query string, limit int) ([]tracker.WorkItem, error) {
	log.Printf("mock: serving items for query %q", query)

	states := []string{"Done", "Done", "In Progress", "To Do", "Done"}
	types := []string{"story", "bug", "story", "task", "story"}

	var items []tracker.WorkItem
	for i, state := range states {
		if limit > 0 && i >= limit {
			break
		}
		items = append(items, tracker.WorkItem{
			ID:           fmt.Sprintf("MOCK-%d", i+1),
			Type:         types[i],
			Title:        fmt.Sprintf("Mock item %d", i+1),
			CurrentState: state,
			CreatedDate:  baseDate.AddDate(0, 0, i),
			AssignedTo:   "mock-user",
			SourceID:     fmt.Sprintf("%d", i+1),
		})
	}
	return items, nil
}

func (m *MockProvider) FetchHistory(sourceID string, limit int) ([]tracker.StateTransition, error) {
	log.Printf("mock: serving history for item %s", sourceID)

	// Every mock item follows the same To Do -> In Progress -> Done
	// path, staggered by its ordinal so dates differ per item.
	offset := int(sourceID[len(sourceID)-1] - '0')
	start := baseDate.AddDate(0, 0, offset)

	return []tracker.StateTransition{
		{ToState: "To Do", Timestamp: start, Actor: "mock-user"},
		{FromState: "To Do", ToState: "In Progress", Timestamp: start.AddDate(0, 0, 1), Actor: "mock-user"},
		{FromState: "In Progress", ToState: "Done", Timestamp: start.AddDate(0, 0, 4), Actor: "mock-user"},
	}, nil
}

func main() {
	goplugin.Serve(&goplugin.ServeConfig{
		HandshakeConfig: infraPlugin.HandshakeConfig,
		Plugins: map[string]goplugin.Plugin{
			"provider": &provider.HistoryProviderPlugin{Impl: &MockProvider{}},
		},
	})
}
