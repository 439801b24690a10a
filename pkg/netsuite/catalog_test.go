package netsuite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_UniqueAndValid(t *testing.T) {
	seen := make(map[string]bool, len(catalog))
	for _, d := range catalog {
		require.NoError(t, d.validate(), d.Stream)
		assert.False(t, seen[d.Stream], "duplicate stream %s", d.Stream)
		seen[d.Stream] = true
	}
	assert.Len(t, seen, 154)
}

func TestCatalog_Strategies(t *testing.T) {
	var direct, contained int
	for _, d := range catalog {
		switch d.Strategy {
		case StrategyDirect:
			direct++
		case StrategyContained:
			contained++
		}
	}
	assert.Equal(t, 6, direct)
	assert.Equal(t, 148, contained)
}

func TestCatalog_Entries(t *testing.T) {
	byName := make(map[string]EntityDescriptor, len(catalog))
	for _, d := range catalog {
		byName[d.Stream] = d
	}

	tests := []struct {
		stream string
		want   EntityDescriptor
	}{
		{"Customer", EntityDescriptor{Stream: "Customer", RemoteType: "Customer", Strategy: StrategyDirect, RequiresWatermark: true}},
		{"Accounts", EntityDescriptor{Stream: "Accounts", RemoteType: "Account", Strategy: StrategyDirect}},
		{"InventoryItem", EntityDescriptor{Stream: "InventoryItem", RemoteType: "InventoryItem", Strategy: StrategyContained, Container: ContainerItem, RequiresWatermark: true}},
		{"VendorBills", EntityDescriptor{Stream: "VendorBills", RemoteType: "VendorBill", Strategy: StrategyContained, Container: ContainerTransaction}},
		{"Invoice", EntityDescriptor{Stream: "Invoice", RemoteType: "Invoice", Strategy: StrategyContained, Container: ContainerTransaction, RequiresWatermark: true, RequiresPaging: true}},
		{"JournalEntry", EntityDescriptor{Stream: "JournalEntry", RemoteType: "JournalEntry", Strategy: StrategyContained, Container: ContainerTransaction, RequiresWatermark: true, Writable: true}},
		{"Commission", EntityDescriptor{Stream: "Commission", RemoteType: "JournalEntry", Strategy: StrategyContained, Container: ContainerTransaction, RequiresWatermark: true, Writable: true}},
		{"Message", EntityDescriptor{Stream: "Message", RemoteType: "Message", Strategy: StrategyContained, Container: ContainerTransaction, RequiresWatermark: true, RequiresPaging: true}},
	}
	for _, tt := range tests {
		t.Run(tt.stream, func(t *testing.T) {
			got, ok := byName[tt.stream]
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalog_OnlyJournalStreamsWritable(t *testing.T) {
	var writable []string
	for _, d := range catalog {
		if d.Writable {
			writable = append(writable, d.Stream)
		}
	}
	assert.ElementsMatch(t, []string{"JournalEntry", "Commission"}, writable)
}

func TestCatalog_ReturnsCopy(t *testing.T) {
	c := Catalog()
	c[0].Stream = "Mutated"
	assert.NotEqual(t, "Mutated", catalog[0].Stream)
}

func TestStrategy_String(t *testing.T) {
	assert.Equal(t, "direct", StrategyDirect.String())
	assert.Equal(t, "contained", StrategyContained.String())
	assert.Equal(t, "strategy(7)", Strategy(7).String())
}

func TestDescriptor_Validate(t *testing.T) {
	tests := []struct {
		name string
		d    EntityDescriptor
	}{
		{"no stream", EntityDescriptor{RemoteType: "X"}},
		{"no remote type", EntityDescriptor{Stream: "X"}},
		{"contained without container", EntityDescriptor{Stream: "X", RemoteType: "X", Strategy: StrategyContained}},
		{"direct with container", EntityDescriptor{Stream: "X", RemoteType: "X", Container: ContainerItem}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.d.validate())
		})
	}
}
