package netsuite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tap-netsuite/pkg/suitetalk"
)

func TestBuildSearch(t *testing.T) {
	wm := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		desc      EntityDescriptor
		watermark *time.Time
		pageSize  int
		want      suitetalk.SearchRequest
	}{
		{
			name: "direct full sync",
			desc: EntityDescriptor{Stream: "Accounts", RemoteType: "Account", Strategy: StrategyDirect},
			want: suitetalk.SearchRequest{SearchType: "Account", PageSize: DefaultPageSize},
		},
		{
			name:      "direct incremental",
			desc:      EntityDescriptor{Stream: "Customer", RemoteType: "Customer", Strategy: StrategyDirect},
			watermark: &wm,
			pageSize:  50,
			want: suitetalk.SearchRequest{
				SearchType: "Customer",
				PageSize:   50,
				Filters:    []suitetalk.Filter{suitetalk.After(WatermarkField, wm)},
			},
		},
		{
			name: "contained full sync",
			desc: EntityDescriptor{Stream: "VendorBills", RemoteType: "VendorBill", Strategy: StrategyContained, Container: ContainerTransaction},
			want: suitetalk.SearchRequest{
				SearchType: ContainerTransaction,
				PageSize:   DefaultPageSize,
				Filters:    []suitetalk.Filter{suitetalk.Is(TypeField, "VendorBill")},
			},
		},
		{
			name:      "contained incremental",
			desc:      EntityDescriptor{Stream: "InventoryItem", RemoteType: "InventoryItem", Strategy: StrategyContained, Container: ContainerItem},
			watermark: &wm,
			want: suitetalk.SearchRequest{
				SearchType: ContainerItem,
				PageSize:   DefaultPageSize,
				Filters: []suitetalk.Filter{
					suitetalk.Is(TypeField, "InventoryItem"),
					suitetalk.After(WatermarkField, wm),
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildSearch(tt.desc, tt.watermark, tt.pageSize))
		})
	}
}

func TestBuildSearch_ContainedAlwaysFiltersOnType(t *testing.T) {
	wm := time.Now()
	for _, d := range catalog {
		if d.Strategy != StrategyContained {
			continue
		}
		for _, w := range []*time.Time{nil, &wm} {
			req := BuildSearch(d, w, 0)
			assert.Equal(t, d.Container, req.SearchType, d.Stream)
			require.NotEmpty(t, req.Filters, d.Stream)

			typeFilter, ok := req.Filters[0].(suitetalk.StringFilter)
			require.True(t, ok, d.Stream)
			assert.Equal(t, TypeField, typeFilter.Field, d.Stream)
			assert.Equal(t, suitetalk.OperatorIs, typeFilter.Operator, d.Stream)
			assert.Equal(t, []string{d.RemoteType}, typeFilter.Values, d.Stream)
		}
	}
}

func TestBuildSearch_FreshPerCall(t *testing.T) {
	d := catalog[0]
	wm := time.Now()
	a := BuildSearch(d, &wm, 0)
	b := BuildSearch(d, nil, 0)
	assert.Len(t, a.Filters, 1)
	assert.Empty(t, b.Filters)
}
