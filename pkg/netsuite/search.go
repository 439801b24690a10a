package netsuite

import (
	"time"

	"github.com/ajitpratap0/tap-netsuite/pkg/suitetalk"
)

// BuildSearch builds the search request for d. A nil watermark means a full
// sync; a non-nil one narrows the search to records modified after it.
func BuildSearch(d EntityDescriptor, watermark *time.Time, pageSize int) suitetalk.SearchRequest {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	req := suitetalk.SearchRequest{PageSize: pageSize}
	switch d.Strategy {
	case StrategyDirect:
		req.SearchType = d.RemoteType
	case StrategyContained:
		req.SearchType = d.Container
		req.Filters = append(req.Filters, suitetalk.Is(TypeField, d.RemoteType))
	}

	if watermark != nil {
		req.Filters = append(req.Filters, suitetalk.After(WatermarkField, *watermark))
	}
	return req
}
