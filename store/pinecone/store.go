package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/w-h-a/lectern/store"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type indexInfo struct {
	host      string
	dimension int
}

type pineconeStore struct {
	options store.Options
	client  *http.Client
	known   map[string]indexInfo
	mtx     sync.RWMutex
}

func (s *pineconeStore) EnsureIndex(ctx context.Context, name string, dimension int, metric string) error {
	if len(metric) == 0 {
		metric = store.MetricCosine
	}

	existing, err := s.describeIndex(ctx, name)
	if err != nil {
		return &store.IndexError{Index: name, Op: "ensure", Err: err}
	}

	if existing != nil {
		if existing.Dimension != dimension {
			return &store.IndexError{Index: name, Op: "ensure", Err: store.ErrDimensionMismatch}
		}
		s.remember(name, existing)
		return nil
	}

	req := indexModel{
		Name:      name,
		Dimension: dimension,
		Metric:    metric,
		Spec: &indexSpec{
			Serverless: &serverlessSpec{
				Cloud:  s.options.Cloud,
				Region: s.options.Region,
			},
		},
	}

	var created indexModel

	if err := s.do(ctx, http.MethodPost, s.options.Location+"/indexes", req, &created); err != nil {
		// A concurrent creator can win the race; creating an index that
		// already exists is not an error.
		if strings.Contains(err.Error(), "409") {
			return nil
		}
		return &store.IndexError{Index: name, Op: "ensure", Err: err}
	}

	s.remember(name, &created)

	return nil
}

func (s *pineconeStore) Upsert(ctx context.Context, name string, records []store.Record) error {
	info, err := s.lookup(ctx, name)
	if err != nil {
		return &store.IndexError{Index: name, Op: "upsert", Err: err}
	}

	for _, rec := range records {
		if len(rec.Values) != info.dimension {
			return &store.IndexError{Index: name, Op: "upsert", Err: store.ErrDimensionMismatch}
		}
	}

	vectors := make([]vector, 0, len(records))

	for _, rec := range records {
		id := rec.Id
		if len(id) == 0 {
			id = uuid.New().String()
		}

		vectors = append(vectors, vector{
			Id:       id,
			Values:   rec.Values,
			Metadata: rec.Metadata,
		})
	}

	req := upsertRequest{Vectors: vectors}

	if err := s.do(ctx, http.MethodPost, info.host+"/vectors/upsert", req, nil); err != nil {
		return &store.IndexError{Index: name, Op: "upsert", Err: err}
	}

	return nil
}

func (s *pineconeStore) Query(ctx context.Context, name string, vec []float32, topK int) ([]store.Record, error) {
	if topK < 1 {
		return nil, nil
	}

	records, err := s.query(ctx, name, vec, topK)
	if err != nil {
		return nil, &store.IndexError{Index: name, Op: "query", Err: err}
	}

	return records, nil
}

// ListAll emulates a listing primitive with a similarity query seeded by a
// random probe vector, capped at the configured limit. Only complete while
// the corpus stays under the cap.
func (s *pineconeStore) ListAll(ctx context.Context, name string) ([]store.Record, error) {
	info, err := s.lookup(ctx, name)
	if err != nil {
		return nil, &store.IndexError{Index: name, Op: "list", Err: err}
	}

	records, err := s.query(ctx, name, randomProbe(info.dimension), s.options.ListCap)
	if err != nil {
		return nil, &store.IndexError{Index: name, Op: "list", Err: err}
	}

	store.WarnNearCap(ctx, name, len(records), s.options.ListCap)

	return records, nil
}

func (s *pineconeStore) query(ctx context.Context, name string, vec []float32, topK int) ([]store.Record, error) {
	info, err := s.lookup(ctx, name)
	if err != nil {
		return nil, err
	}

	req := queryRequest{
		Vector:          vec,
		TopK:            topK,
		IncludeValues:   true,
		IncludeMetadata: true,
	}

	var rsp queryResponse

	if err := s.do(ctx, http.MethodPost, info.host+"/query", req, &rsp); err != nil {
		return nil, err
	}

	records := make([]store.Record, 0, len(rsp.Matches))

	for _, m := range rsp.Matches {
		records = append(records, store.Record{
			Id:       m.Id,
			Values:   m.Values,
			Metadata: m.Metadata,
			Score:    m.Score,
		})
	}

	return records, nil
}

func (s *pineconeStore) describeIndex(ctx context.Context, name string) (*indexModel, error) {
	var model indexModel

	u := s.options.Location + "/indexes/" + url.PathEscape(name)

	if err := s.do(ctx, http.MethodGet, u, nil, &model); err != nil {
		if strings.Contains(err.Error(), "404") {
			return nil, nil
		}
		return nil, err
	}

	return &model, nil
}

func (s *pineconeStore) lookup(ctx context.Context, name string) (indexInfo, error) {
	s.mtx.RLock()
	info, ok := s.known[name]
	s.mtx.RUnlock()

	if ok {
		return info, nil
	}

	model, err := s.describeIndex(ctx, name)
	if err != nil {
		return indexInfo{}, err
	}

	if model == nil {
		return indexInfo{}, store.ErrIndexNotFound
	}

	s.remember(name, model)

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.known[name], nil
}

func (s *pineconeStore) remember(name string, model *indexModel) {
	host := model.Host
	if len(host) > 0 && !strings.HasPrefix(host, "http") {
		host = "https://" + host
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.known[name] = indexInfo{
		host:      host,
		dimension: model.Dimension,
	}
}

func (s *pineconeStore) do(ctx context.Context, method string, u string, req any, rsp any) error {
	var buf io.Reader
	if req != nil {
		data, err := json.Marshal(req)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, u, buf)
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Api-Key", s.options.ApiKey)

	response, err := s.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("pinecone http %d: %s", response.StatusCode, string(payload))
	}

	if rsp != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, rsp); err != nil {
			return err
		}
	}

	return nil
}

func randomProbe(dimension int) []float32 {
	probe := make([]float32, dimension)
	for i := range probe {
		probe[i] = rand.Float32()
	}
	return probe
}

func NewStore(opts ...store.Option) store.Store {
	options := store.NewOptions(opts...)

	if len(options.Location) == 0 {
		options.Location = "https://api.pinecone.io"
	}

	if len(options.ApiKey) == 0 {
		panic("missing api key for pinecone store")
	}

	client := &http.Client{
		Timeout:   30 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	s := &pineconeStore{
		options: options,
		client:  client,
		known:   map[string]indexInfo{},
		mtx:     sync.RWMutex{},
	}

	return s
}
