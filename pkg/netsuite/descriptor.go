// Package netsuite extracts NetSuite records through one table-driven adapter.
//
// Every supported stream is an EntityDescriptor in a static catalog. A
// Connection binds the catalog to one suitetalk.Session and dispatches
// Fetch and Post by stream name. Fetch returns a lazy RecordStream that pulls
// pages from the session as it is consumed.
package netsuite

import (
	"fmt"
)

// Search field names shared by every descriptor.
const (
	// WatermarkField is the last-modified field used for incremental sync
	WatermarkField = "lastModifiedDate"
	// TypeField discriminates sub-kinds within a container search type
	TypeField = "recordType"
	// DefaultPageSize is the number of records per search page
	DefaultPageSize = 200
)

// Container search types.
const (
	ContainerTransaction = "Transaction"
	ContainerItem        = "Item"
)

// Strategy selects how a search is built for a descriptor.
type Strategy int

const (
	// StrategyDirect searches the remote type itself
	StrategyDirect Strategy = iota
	// StrategyContained searches the container type, narrowed to the remote type
	StrategyContained
)

func (s Strategy) String() string {
	switch s {
	case StrategyDirect:
		return "direct"
	case StrategyContained:
		return "contained"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// EntityDescriptor is the static metadata of one stream.
type EntityDescriptor struct {
	// Stream is the logical stream name and registry key
	Stream string
	// RemoteType is the remote record type name
	RemoteType string
	// Strategy selects direct or contained search construction
	Strategy Strategy
	// Container is the search type for StrategyContained
	Container string
	// RequiresWatermark makes Fetch forward the watermark
	RequiresWatermark bool
	// RequiresPaging marks result sets large enough to need paging
	RequiresPaging bool
	// Writable marks streams that support Post
	Writable bool
}

// SearchType returns the remote search type the descriptor queries.
func (d EntityDescriptor) SearchType() string {
	if d.Strategy == StrategyContained {
		return d.Container
	}
	return d.RemoteType
}

func (d EntityDescriptor) validate() error {
	switch {
	case d.Stream == "":
		return fmt.Errorf("descriptor without stream name")
	case d.RemoteType == "":
		return fmt.Errorf("descriptor %s: remote type is required", d.Stream)
	case d.Strategy == StrategyContained && d.Container == "":
		return fmt.Errorf("descriptor %s: contained strategy needs a container", d.Stream)
	case d.Strategy == StrategyDirect && d.Container != "":
		return fmt.Errorf("descriptor %s: direct strategy takes no container", d.Stream)
	}
	return nil
}
