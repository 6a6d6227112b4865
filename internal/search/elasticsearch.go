// Package search maintains the Elasticsearch event index backing the
// catalog's free-text search. Postgres stays authoritative; the index is
// written best-effort and queried only when configured.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"evento/internal/models"
)

type Config struct {
	Addresses string
	Index     string
}

// Enabled reports whether an Elasticsearch endpoint is configured.
func (c Config) Enabled() bool {
	return c.Addresses != ""
}

type EventIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewEventIndex(cfg Config) (*EventIndex, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     strings.Split(cfg.Addresses, ","),
		RetryOnStatus: []int{502, 503, 504, 429},
		MaxRetries:    3,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	idx := &EventIndex{client: es, index: cfg.Index}
	if err := idx.ensureIndex(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return idx, nil
}

func (e *EventIndex) ensureIndex(ctx context.Context) error {
	req := esapi.IndicesExistsRequest{Index: []string{e.index}}

	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		return nil
	}

	mapping := map[string]interface{}{
		"settings": map[string]interface{}{
			"number_of_shards":   1,
			"number_of_replicas": 0,
		},
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id":          map[string]interface{}{"type": "long"},
				"name":        map[string]interface{}{"type": "text"},
				"description": map[string]interface{}{"type": "text"},
				"location":    map[string]interface{}{"type": "text"},
				"category":    map[string]interface{}{"type": "keyword"},
				"starts_at": map[string]interface{}{
					"type":   "date",
					"format": "strict_date_optional_time||epoch_millis",
				},
				"capacity":  map[string]interface{}{"type": "integer"},
				"has_seats": map[string]interface{}{"type": "boolean"},
			},
		},
	}

	mappingJSON, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	createReq := esapi.IndicesCreateRequest{
		Index: e.index,
		Body:  strings.NewReader(string(mappingJSON)),
	}

	createRes, err := createReq.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("failed to create index: %s", createRes.String())
	}

	slog.Info("Created Elasticsearch index", "index", e.index)
	return nil
}

// Index writes one event document, keyed by the catalog id.
func (e *EventIndex) Index(ctx context.Context, event *models.Event) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      e.index,
		DocumentID: strconv.FormatInt(event.ID, 10),
		Body:       strings.NewReader(string(eventJSON)),
	}

	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("failed to index event: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("indexing error: %s", res.String())
	}

	return nil
}

// Delete removes an event document. A document that was never indexed
// is not an error.
func (e *EventIndex) Delete(ctx context.Context, id int64) error {
	req := esapi.DeleteRequest{
		Index:      e.index,
		DocumentID: strconv.FormatInt(id, 10),
	}

	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("failed to delete event document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete error: %s", res.String())
	}

	return nil
}

// Search runs the catalog query against the index.
func (e *EventIndex) Search(ctx context.Context, q *models.ListEventsQuery) ([]models.Event, error) {
	from := 0
	pageSize := q.PageSize
	if q.Page > 0 && pageSize > 0 {
		from = (q.Page - 1) * pageSize
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	searchRequest := map[string]interface{}{
		"query": e.buildQuery(q),
		"sort": []map[string]interface{}{
			{"_score": map[string]interface{}{"order": "desc"}},
			{"starts_at": map[string]interface{}{"order": "desc"}},
		},
		"from": from,
		"size": pageSize,
	}

	searchJSON, err := json.Marshal(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{e.index},
		Body:  strings.NewReader(string(searchJSON)),
	}

	res, err := req.Do(ctx, e.client)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.String())
	}

	var response struct {
		Hits struct {
			Hits []struct {
				Source models.Event `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	events := make([]models.Event, len(response.Hits.Hits))
	for i, hit := range response.Hits.Hits {
		events[i] = hit.Source
	}

	return events, nil
}

func (e *EventIndex) buildQuery(q *models.ListEventsQuery) map[string]interface{} {
	var must []map[string]interface{}

	if q.Query != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     q.Query,
				"fields":    []string{"name^2", "description", "location"},
				"fuzziness": "AUTO",
			},
		})
	}

	now := time.Now().UTC().Format(time.RFC3339)
	switch q.Date {
	case "upcoming":
		must = append(must, map[string]interface{}{
			"range": map[string]interface{}{
				"starts_at": map[string]interface{}{"gte": now},
			},
		})
	case "past":
		must = append(must, map[string]interface{}{
			"range": map[string]interface{}{
				"starts_at": map[string]interface{}{"lt": now},
			},
		})
	}

	if q.Category != "" {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"category": q.Category},
		})
	}

	if len(must) == 0 {
		return map[string]interface{}{"match_all": map[string]interface{}{}}
	}

	return map[string]interface{}{
		"bool": map[string]interface{}{"must": must},
	}
}
