// Package provider defines the tracker-provider plugin contract.
// Providers are separate binaries loaded over hashicorp/go-plugin's
// net/rpc transport; the core never speaks HTTP itself.
package provider

import (
	"net/rpc"

	"github.com/hashicorp/go-plugin"

	"github.com/mwaldron/flowlens/pkg/domain/tracker"
)

// HistoryProvider is the interface tracker plugins must implement.
type HistoryProvider interface {
	// Init ensures the provider can connect (auth check).
	Init(config map[string]string) error

	// FetchItems returns work items matching a provider-specific query.
	// Returned items carry a SourceID usable with FetchHistory.
	FetchItems(query string, limit int) ([]tracker.WorkItem, error)

	// FetchHistory returns the ordered state-change events for one item.
	FetchHistory(sourceID string, limit int) ([]tracker.StateTransition, error)
}

// HistoryProviderPlugin is the go-plugin wrapper so providers can be
// served and consumed over RPC.
type HistoryProviderPlugin struct {
	Impl HistoryProvider
}

func (p *HistoryProviderPlugin) Server(*plugin.MuxBroker) (interface{}, error) {
	return &ProviderRPCServer{Impl: p.Impl}, nil
}

func (p *HistoryProviderPlugin) Client(b *plugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &ProviderRPCClient{Client: c}, nil
}

// RPC argument types.
type FetchItemsArgs struct {
	Query string
	Limit int
}

type FetchHistoryArgs struct {
	SourceID string
	Limit    int
}

// ProviderRPCClient is the client-side RPC stub.
type ProviderRPCClient struct{ Client *rpc.Client }

func (g *ProviderRPCClient) Init(config map[string]string) error {
	var resp interface{}
	return g.Client.Call("Plugin.Init", config, &resp)
}

func (g *ProviderRPCClient) FetchItems(query string, limit int) ([]tracker.WorkItem, error) {
	var resp []tracker.WorkItem
	args := &FetchItemsArgs{Query: query, Limit: limit}
	err := g.Client.Call("Plugin.FetchItems", args, &resp)
	return resp, err
}

func (g *ProviderRPCClient) FetchHistory(sourceID string, limit int) ([]tracker.StateTransition, error) {
	var resp []tracker.StateTransition
	args := &FetchHistoryArgs{SourceID: sourceID, Limit: limit}
	err := g.Client.Call("Plugin.FetchHistory", args, &resp)
	return resp, err
}

// ProviderRPCServer is the server-side RPC stub.
type ProviderRPCServer struct{ Impl HistoryProvider }

func (s *ProviderRPCServer) Init(config map[string]string, resp *interface{}) error {
	return s.Impl.Init(config)
}

func (s *ProviderRPCServer) FetchItems(args *FetchItemsArgs, resp *[]tracker.WorkItem) error {
	items, err := s.Impl.FetchItems(args.Query, args.Limit)
	*resp = items
	return err
}

func (s *ProviderRPCServer) FetchHistory(args *FetchHistoryArgs, resp *[]tracker.StateTransition) error {
	transitions, err := s.Impl.FetchHistory(args.SourceID, args.Limit)
	*resp = transitions
	return err
}
