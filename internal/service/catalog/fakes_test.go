package catalog

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/FTI-LMS/LMS/internal/domain"
	models "github.com/FTI-LMS/LMS/internal/domain/models/catalog"
	"github.com/FTI-LMS/LMS/internal/domain/repositories"
	catalogSvc "github.com/FTI-LMS/LMS/internal/domain/services/catalog"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func folder(id, name string, childCount int) models.TreeNode {
	return models.TreeNode{
		ID:         id,
		Name:       name,
		WebURL:     "https://drive.example/" + name,
		IsFolder:   true,
		ChildCount: childCount,
	}
}

func file(id, name string) models.TreeNode {
	return models.TreeNode{
		ID:     id,
		Name:   name,
		WebURL: "https://drive.example/files/" + name,
		Size:   1024,
	}
}

func minutes(v float64) *float64 { return &v }

// fakeTree serves listings from a map keyed by item id
type fakeTree struct {
	children map[string][]models.TreeNode
	errs     map[string]error
	delay    map[string]time.Duration

	mu      sync.Mutex
	calls   map[string]int
	active  int32
	maxSeen int32
}

func newFakeTree(children map[string][]models.TreeNode) *fakeTree {
	return &fakeTree{
		children: children,
		errs:     map[string]error{},
		delay:    map[string]time.Duration{},
		calls:    map[string]int{},
	}
}

func (f *fakeTree) ListChildren(ctx context.Context, driveID, itemID string) ([]models.TreeNode, error) {
	n := atomic.AddInt32(&f.active, 1)
	defer atomic.AddInt32(&f.active, -1)
	for {
		seen := atomic.LoadInt32(&f.maxSeen)
		if n <= seen || atomic.CompareAndSwapInt32(&f.maxSeen, seen, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls[itemID]++
	f.mu.Unlock()

	if d := f.delay[itemID]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, &domain.RemoteFetchError{DriveID: driveID, ItemID: itemID, Err: ctx.Err()}
		}
	}
	if err := f.errs[itemID]; err != nil {
		return nil, err
	}
	return f.children[itemID], nil
}

func (f *fakeTree) callCount(itemID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[itemID]
}

func (f *fakeTree) Me(ctx context.Context) (json.RawMessage, error) {
	if err := f.errs["me"]; err != nil {
		return nil, err
	}
	return json.RawMessage(`{"id":"user-1","displayName":"Test User"}`), nil
}

func (f *fakeTree) RootChildren(ctx context.Context) ([]models.TreeNode, error) {
	return f.ListChildren(ctx, "me", "root")
}

func (f *fakeTree) Recent(ctx context.Context, limit int) ([]models.TreeNode, error) {
	nodes := f.children["recent"]
	if len(nodes) > limit {
		nodes = nodes[:limit]
	}
	return nodes, nil
}

// fakeEnricher answers from a map keyed by item id; unknown items get empty metadata
type fakeEnricher struct {
	meta  map[string]models.EnrichedMetadata
	errs  map[string]error
	delay time.Duration

	mu      sync.Mutex
	calls   []string
	active  int32
	maxSeen int32
}

func newFakeEnricher(meta map[string]models.EnrichedMetadata) *fakeEnricher {
	return &fakeEnricher{meta: meta, errs: map[string]error{}}
}

func (f *fakeEnricher) Enrich(ctx context.Context, fileName, driveID, itemID string) (models.EnrichedMetadata, error) {
	n := atomic.AddInt32(&f.active, 1)
	defer atomic.AddInt32(&f.active, -1)
	for {
		seen := atomic.LoadInt32(&f.maxSeen)
		if n <= seen || atomic.CompareAndSwapInt32(&f.maxSeen, seen, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, itemID)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return models.EnrichedMetadata{}, ctx.Err()
		}
	}
	if err := f.errs[itemID]; err != nil {
		return models.EnrichedMetadata{}, err
	}
	return f.meta[itemID], nil
}

func (f *fakeEnricher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeFactory hands out the same fakes for every token and records the tokens seen
type fakeFactory struct {
	tree     *fakeTree
	enricher *fakeEnricher

	mu     sync.Mutex
	tokens []string
}

func (f *fakeFactory) Drive(accessToken string) catalogSvc.DriveClient {
	f.mu.Lock()
	f.tokens = append(f.tokens, accessToken)
	f.mu.Unlock()
	return f.tree
}

func (f *fakeFactory) Enrichment(accessToken string) catalogSvc.EnrichmentClient {
	f.mu.Lock()
	f.tokens = append(f.tokens, accessToken)
	f.mu.Unlock()
	return f.enricher
}

// fakeTx runs fn directly and records whether it committed
type fakeTx struct {
	calls     int
	committed int
}

func (f *fakeTx) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	f.calls++
	if err := fn(ctx); err != nil {
		return err
	}
	f.committed++
	return nil
}
