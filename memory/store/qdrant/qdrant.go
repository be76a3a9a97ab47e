// Package qdrant adapts the Qdrant gRPC client to the memory.VectorStore
// contract. Qdrant is the production backend: points live in an external
// service and survive process restarts.
//
// Point text is stored in the "page_content" payload field alongside the
// caller's metadata; the adapter maps it back to Point.Content on reads.
package qdrant

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/greymalkin-ai/greymalkin/memory"
)

// contentField is the payload key holding the embedded text.
const contentField = "page_content"

// scrollPageSize bounds one snapshot page. Procedural collections hold one
// point per tool, so most snapshots fit in a single page.
const scrollPageSize = 256

// Config holds Qdrant connection configuration.
type Config struct {
	Host   string
	Port   int
	APIKey string
	UseTLS bool
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 6334
	}
}

// Store implements memory.VectorStore over a Qdrant gRPC connection.
type Store struct {
	client   *qdrant.Client
	embedder memory.Embedder
}

// New connects to Qdrant and returns a store using embedder for all
// vectorization.
func New(cfg Config, embedder memory.Embedder) (*Store, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	cfg.ApplyDefaults()

	qcfg := &qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	}
	if !cfg.UseTLS {
		qcfg.GrpcOptions = append(qcfg.GrpcOptions,
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		)
	}

	client, err := qdrant.NewClient(qcfg)
	if err != nil {
		return nil, fmt.Errorf("connect to qdrant at %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	return &Store{client: client, embedder: embedder}, nil
}

// EnsureCollection creates the collection with cosine distance if missing.
func (s *Store) EnsureCollection(ctx context.Context, name string) error {
	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("%w: check collection %s: %v", memory.ErrStoreRead, name, err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.embedder.Dimensions()),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("%w: create collection %s: %v", memory.ErrStoreWrite, name, err)
	}
	return nil
}

// GetAllPoints scrolls the whole collection and returns every point.
func (s *Store) GetAllPoints(ctx context.Context, collection string) ([]memory.Point, error) {
	var points []memory.Point
	var offset *qdrant.PointId

	for {
		batch, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: collection,
			Limit:          qdrant.PtrOf(uint32(scrollPageSize)),
			Offset:         offset,
			WithPayload:    qdrant.NewWithPayload(true),
		})
		if err != nil {
			return nil, fmt.Errorf("%w: scroll collection %s: %v", memory.ErrStoreRead, collection, err)
		}

		for _, p := range batch {
			id := extractPointID(p.Id)
			// The scroll offset is inclusive; skip the page boundary point.
			if offset != nil && id == extractPointID(offset) {
				continue
			}
			points = append(points, memory.Point{
				ID:       id,
				Content:  payloadContent(p.Payload),
				Metadata: extractPayload(p.Payload),
			})
		}

		if len(batch) < scrollPageSize {
			return points, nil
		}
		offset = batch[len(batch)-1].Id
	}
}

// AddTexts embeds each text and upserts one point per text with a fresh
// UUID id.
func (s *Store) AddTexts(ctx context.Context, collection string, texts []string, metadatas []map[string]interface{}) ([]string, error) {
	if len(texts) != len(metadatas) {
		return nil, fmt.Errorf("%w: %d texts but %d metadatas", memory.ErrStoreWrite, len(texts), len(metadatas))
	}

	ids := make([]string, len(texts))
	points := make([]*qdrant.PointStruct, len(texts))

	for i, text := range texts {
		vec, err := s.embedder.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", memory.ErrEmbedding, err)
		}

		payload := map[string]interface{}{contentField: text}
		for k, v := range metadatas[i] {
			payload[k] = v
		}

		ids[i] = uuid.New().String()
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(ids[i]),
			Vectors: qdrant.NewVectors(vec...),
			Payload: qdrant.NewValueMap(payload),
		}
	}

	if _, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         points,
	}); err != nil {
		return nil, fmt.Errorf("%w: upsert %d points: %v", memory.ErrStoreWrite, len(points), err)
	}
	return ids, nil
}

// DeletePoints removes the listed points in one batch.
func (s *Store) DeletePoints(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	pointIDs := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIDs[i] = qdrant.NewIDUUID(id)
	}

	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{Ids: pointIDs},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: delete %d points: %v", memory.ErrStoreWrite, len(ids), err)
	}
	return nil
}

// Query retrieves up to k points by similarity to the query text.
func (s *Store) Query(ctx context.Context, collection string, text string, k int) ([]memory.QueryResult, error) {
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", memory.ErrEmbedding, err)
	}

	results, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(vec...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: query collection %s: %v", memory.ErrStoreRead, collection, err)
	}

	out := make([]memory.QueryResult, len(results))
	for i, r := range results {
		out[i] = memory.QueryResult{
			Point: memory.Point{
				ID:       extractPointID(r.Id),
				Content:  payloadContent(r.Payload),
				Metadata: extractPayload(r.Payload),
			},
			Score: r.Score,
		}
	}
	return out, nil
}

// Close tears down the gRPC connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// extractPointID converts a Qdrant point id to its string form.
func extractPointID(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	switch v := id.PointIdOptions.(type) {
	case *qdrant.PointId_Uuid:
		return v.Uuid
	case *qdrant.PointId_Num:
		return fmt.Sprintf("%d", v.Num)
	default:
		return ""
	}
}

// payloadContent pulls the embedded text out of a point payload.
func payloadContent(payload map[string]*qdrant.Value) string {
	if v, ok := payload[contentField]; ok {
		if s, ok := v.Kind.(*qdrant.Value_StringValue); ok {
			return s.StringValue
		}
	}
	return ""
}

// extractPayload converts a Qdrant payload to generic metadata, minus the
// content field which is surfaced as Point.Content.
func extractPayload(payload map[string]*qdrant.Value) map[string]interface{} {
	if payload == nil {
		return nil
	}
	out := make(map[string]interface{}, len(payload))
	for k, v := range payload {
		if k == contentField {
			continue
		}
		out[k] = extractValue(v)
	}
	return out
}

// extractValue converts a Qdrant value to its Go form.
func extractValue(v *qdrant.Value) interface{} {
	if v == nil {
		return nil
	}
	switch val := v.Kind.(type) {
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	default:
		return v.String()
	}
}

var _ memory.VectorStore = (*Store)(nil)
