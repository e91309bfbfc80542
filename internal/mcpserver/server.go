// Package mcpserver implements the MCP server core (C4): the capability
// registries, the JSON-RPC method dispatcher, the subscriber fan-out used
// for server-initiated change notifications, and the tool-call engine.
//
// The server is transport-agnostic: it never touches an HTTP request or a
// session table directly. Per the REDESIGN FLAG on session-table
// ownership, the transport owns sessions and is the sole consumer of the
// notification channel Subscribe returns; Dispatch communicates purely via
// its emit callback.
package mcpserver

import (
	"sync"
	"sync/atomic"

	"github.com/FreePeak/mcp-framework/internal/mcp"
	"github.com/FreePeak/mcp-framework/internal/registry"
)

// subscriberBufferSize bounds the per-subscriber notification channel.
// A full channel drops the notification and increments Dropped rather
// than blocking the registry mutation that produced it, per REDESIGN FLAG
// "Subscriber fan-out".
const subscriberBufferSize = 100

// Subscription is a live registration for server-initiated notifications.
// Events is where tool/prompt/resource change notifications arrive, each
// as its list_changed method name; tool-call progress and results go
// through Dispatch's emit callback instead.
type Subscription struct {
	id      int
	Events  <-chan interface{}
	Dropped *atomic.Int64
}

// Server holds the four capability registries and the subscriber list
// that change notifications fan out to.
type Server struct {
	Name    string
	Version string

	Tools             *registry.LifecycleManager[mcp.Tool]
	Prompts           *registry.LifecycleManager[mcp.Prompt]
	Resources         *registry.LifecycleManager[mcp.Resource]
	ResourceTemplates *registry.LifecycleManager[mcp.ResourceTemplate]

	subMu       sync.Mutex
	nextSubID   int
	subscribers map[int]chan interface{}
	dropped     map[int]*atomic.Int64
}

// New creates a Server and wires each registry's change callback to
// synthesize and fan out the matching list_changed notification. name and
// version populate the serverInfo of future initialize responses.
func New(name, version string) *Server {
	s := &Server{
		Name:        name,
		Version:     version,
		subscribers: make(map[int]chan interface{}),
		dropped:     make(map[int]*atomic.Int64),
	}

	s.Tools = registry.New(mcp.ToolID, func() { s.notifyClients(mcp.ToolsListChangedMethod) })
	s.Prompts = registry.New(mcp.PromptID, func() { s.notifyClients(mcp.PromptsListChangedMethod) })
	s.Resources = registry.New(mcp.ResourceID, func() { s.notifyClients(mcp.ResourcesListChangedMethod) })
	s.ResourceTemplates = registry.New(mcp.ResourceTemplateID, func() { s.notifyClients(mcp.ResourcesListChangedMethod) })

	return s
}

// Subscribe registers for server-initiated notifications. Callers
// (typically the transport, once) must drain Events; a slow or absent
// drain causes subsequent notifications to be dropped and counted in
// Dropped, never to block the registry mutation that produced them.
func (s *Server) Subscribe() *Subscription {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++

	ch := make(chan interface{}, subscriberBufferSize)
	dropped := &atomic.Int64{}
	s.subscribers[id] = ch
	s.dropped[id] = dropped

	return &Subscription{id: id, Events: ch, Dropped: dropped}
}

// Unsubscribe removes sub from the subscriber list and closes its channel.
func (s *Server) Unsubscribe(sub *Subscription) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	if ch, ok := s.subscribers[sub.id]; ok {
		delete(s.subscribers, sub.id)
		delete(s.dropped, sub.id)
		close(ch)
	}
}

// notifyClients fans event out to every subscriber without blocking. One
// full subscriber channel does not affect delivery to siblings (the
// all-or-nothing gather-and-swallow the source used is replaced by
// independent per-subscriber channels, per REDESIGN FLAG).
func (s *Server) notifyClients(event interface{}) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for id, ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			s.dropped[id].Add(1)
		}
	}
}
