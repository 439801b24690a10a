package singer

// Replication methods
const (
	ReplicationIncremental = "INCREMENTAL"
	ReplicationFullTable   = "FULL_TABLE"
)

// Schema is a JSON Schema fragment
type Schema map[string]any

// CatalogEntry describes one stream for discovery
type CatalogEntry struct {
	TapStreamID       string   `json:"tap_stream_id"`
	Stream            string   `json:"stream"`
	KeyProperties     []string `json:"key_properties"`
	ReplicationKey    string   `json:"replication_key,omitempty"`
	ReplicationMethod string   `json:"replication_method"`
	Schema            Schema   `json:"schema"`
}

// Catalog is the discovery document
type Catalog struct {
	Streams []CatalogEntry `json:"streams"`
}

// NewCatalogEntry builds the entry for a stream. Records are open objects
// keyed by internalId; incremental streams replicate on lastModifiedDate.
func NewCatalogEntry(stream string, incremental bool) CatalogEntry {
	props := map[string]any{
		"internalId": map[string]any{"type": []string{"string"}},
		"externalId": map[string]any{"type": []string{"null", "string"}},
		BookmarkKey: map[string]any{
			"type":   []string{"null", "string"},
			"format": "date-time",
		},
	}
	entry := CatalogEntry{
		TapStreamID:       stream,
		Stream:            stream,
		KeyProperties:     []string{"internalId"},
		ReplicationMethod: ReplicationFullTable,
		Schema: Schema{
			"type":                 []string{"null", "object"},
			"additionalProperties": true,
			"properties":           props,
		},
	}
	if incremental {
		entry.ReplicationKey = BookmarkKey
		entry.ReplicationMethod = ReplicationIncremental
	}
	return entry
}
