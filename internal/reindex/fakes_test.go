package reindex

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/OpenCatalogTeam/OpenCatalog/internal/db"
	"github.com/OpenCatalogTeam/OpenCatalog/internal/model"
	"github.com/sirupsen/logrus"
)

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// eventRec records the order of collaborator calls across fakes so tests can
// assert observable ordering, e.g. the in_progress transition happening
// before the first source read.
type eventRec struct {
	mu     sync.Mutex
	events []string
}

func (r *eventRec) add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRec) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *eventRec) indexOf(event string) int {
	for i, e := range r.all() {
		if e == event {
			return i
		}
	}
	return -1
}

type fakeTaskStore struct {
	mu          sync.Mutex
	rec         *eventRec
	tasks       map[string]*model.AdminTask
	order       []string
	statusErr   error
	metadataErr error
}

func newFakeTaskStore(rec *eventRec) *fakeTaskStore {
	return &fakeTaskStore{rec: rec, tasks: map[string]*model.AdminTask{}}
}

func (f *fakeTaskStore) add(name string, status model.AdminTaskStatus, metadata string) *model.AdminTask {
	f.mu.Lock()
	defer f.mu.Unlock()
	task := &model.AdminTask{
		ID:         fmt.Sprintf("task-%d", len(f.order)+1),
		Initiator:  model.TaskInitiatorUser,
		Name:       name,
		Metadata:   metadata,
		Status:     status,
		EnqueuedAt: time.Now(),
		UpdatedAt:  time.Now(),
	}
	f.tasks[task.ID] = task
	f.order = append(f.order, task.ID)
	return task
}

func (f *fakeTaskStore) get(id string) model.AdminTask {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.tasks[id]
}

func (f *fakeTaskStore) GetLastActiveTask(ctx context.Context, name string) (*model.AdminTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.order) - 1; i >= 0; i-- {
		task := f.tasks[f.order[i]]
		if task.Name != name || task.Status.Terminal() {
			continue
		}
		copied := *task
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeTaskStore) UpdateTaskStatus(ctx context.Context, id string, status model.AdminTaskStatus) error {
	f.rec.add("status:" + string(status))
	if f.statusErr != nil {
		return f.statusErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[id].Status = status
	f.tasks[id].UpdatedAt = time.Now()
	return nil
}

func (f *fakeTaskStore) UpdateTaskMetadata(ctx context.Context, id string, metadata string) error {
	f.rec.add("metadata")
	if f.metadataErr != nil {
		return f.metadataErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[id].Metadata = metadata
	f.tasks[id].UpdatedAt = time.Now()
	return nil
}

type fakeFileSource struct {
	mu    sync.Mutex
	rec   *eventRec
	files []model.File
	err   error
}

func newFakeFileSource(rec *eventRec, files []model.File) *fakeFileSource {
	sorted := append([]model.File(nil), files...)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].UploadedAt.Equal(sorted[j].UploadedAt) {
			return sorted[i].UploadedAt.After(sorted[j].UploadedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})
	return &fakeFileSource{rec: rec, files: sorted}
}

func (f *fakeFileSource) ListFiles(ctx context.Context, limit int, cursor *db.FileCursor) ([]model.File, error) {
	f.rec.add("list")
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var page []model.File
	for _, file := range f.files {
		if cursor != nil {
			past := file.UploadedAt.Before(cursor.UploadedAt) ||
				(file.UploadedAt.Equal(cursor.UploadedAt) && file.ID > cursor.ID)
			if !past {
				continue
			}
		}
		page = append(page, file)
		if len(page) == limit {
			break
		}
	}
	return page, nil
}

type fakeFileSink struct {
	mu      sync.Mutex
	rec     *eventRec
	batches [][]model.File
	err     error
}

func newFakeFileSink(rec *eventRec) *fakeFileSink {
	return &fakeFileSink{rec: rec}
}

func (f *fakeFileSink) UpsertFiles(ctx context.Context, files []model.File) error {
	f.rec.add("upsert")
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, append([]model.File(nil), files...))
	return nil
}

func (f *fakeFileSink) batchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

func (f *fakeFileSink) indexedIDs() map[string]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := map[string]int{}
	for _, batch := range f.batches {
		for _, file := range batch {
			ids[file.ID]++
		}
	}
	return ids
}

type fakeCollectionSource struct {
	rec         *eventRec
	collections []model.Collection
}

func newFakeCollectionSource(rec *eventRec, collections []model.Collection) *fakeCollectionSource {
	sorted := append([]model.Collection(nil), collections...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].ID < sorted[j].ID
	})
	return &fakeCollectionSource{rec: rec, collections: sorted}
}

func (f *fakeCollectionSource) ListCollections(ctx context.Context, limit int, cursor *db.CollectionCursor) ([]model.Collection, error) {
	f.rec.add("list-collections")
	var page []model.Collection
	for _, collection := range f.collections {
		if cursor != nil {
			past := collection.Name > cursor.Name ||
				(collection.Name == cursor.Name && collection.ID > cursor.ID)
			if !past {
				continue
			}
		}
		page = append(page, collection)
		if len(page) == limit {
			break
		}
	}
	return page, nil
}

type fakeCollectionSink struct {
	mu      sync.Mutex
	rec     *eventRec
	batches [][]model.Collection
}

func newFakeCollectionSink(rec *eventRec) *fakeCollectionSink {
	return &fakeCollectionSink{rec: rec}
}

func (f *fakeCollectionSink) UpsertCollections(ctx context.Context, collections []model.Collection) error {
	f.rec.add("upsert-collections")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, append([]model.Collection(nil), collections...))
	return nil
}

func makeFiles(n int) []model.File {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	files := make([]model.File, 0, n)
	for i := 0; i < n; i++ {
		files = append(files, model.File{
			ID:         fmt.Sprintf("file-%04d", i),
			Name:       fmt.Sprintf("file-%04d.bin", i),
			Size:       int64(i),
			MimeType:   "application/octet-stream",
			IsReady:    true,
			UploadedAt: base.Add(-time.Duration(i) * time.Second),
		})
	}
	return files
}
