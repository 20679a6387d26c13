package media

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/debtprotection/blog-core/internal/models"
	"github.com/debtprotection/blog-core/internal/pkg/pagination"
)

type memStore struct {
	mu        sync.Mutex
	rows      map[string]models.MediaModel
	createErr error
	seq       int
}

func newMemStore() *memStore {
	return &memStore{rows: map[string]models.MediaModel{}}
}

func (m *memStore) Create(_ context.Context, row *models.MediaModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	m.seq++
	row.CreatedAt = time.Date(2025, 1, 1, 0, 0, m.seq, 0, time.UTC)
	row.UpdatedAt = row.CreatedAt
	stored := *row
	stored.Uploader = nil
	m.rows[row.ID] = stored
	return nil
}

func (m *memStore) Save(_ context.Context, row *models.MediaModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *row
	stored.Uploader = nil
	m.rows[row.ID] = stored
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*models.MediaModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (m *memStore) matching(f ListFilter) []models.MediaModel {
	var out []models.MediaModel
	for _, r := range m.rows {
		if f.Search != "" {
			s := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(r.Filename), s) &&
				!strings.Contains(strings.ToLower(r.OriginalName), s) &&
				!strings.Contains(strings.ToLower(r.AltText), s) {
				continue
			}
		}
		if p := f.Kind.MIMEPrefix(); p != "" && !strings.HasPrefix(r.MimeType, p) {
			continue
		}
		if f.UploadedBy != "" && (r.UploadedBy == nil || *r.UploadedBy != f.UploadedBy) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memStore) List(_ context.Context, f ListFilter, q pagination.Query) ([]models.MediaModel, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.matching(f)
	total := int64(len(all))
	start := q.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + q.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (m *memStore) Stats(_ context.Context, uploaderID string) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var st Stats
	for _, r := range m.matching(ListFilter{UploadedBy: uploaderID}) {
		st.TotalFiles++
		st.TotalSize += r.Size
		switch {
		case strings.HasPrefix(r.MimeType, "image/"):
			st.ImageCount++
		case strings.HasPrefix(r.MimeType, "video/"):
			st.VideoCount++
		case strings.HasPrefix(r.MimeType, "application/"):
			st.DocumentCount++
		}
	}
	return st, nil
}

func (m *memStore) ListByUploader(_ context.Context, userID string) ([]models.MediaModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matching(ListFilter{UploadedBy: userID}), nil
}

// memDriver keeps objects in a map.
type memDriver struct {
	name      string
	mu        sync.Mutex
	objects   map[string][]byte
	deleteErr error
}

func newMemDriver(name string) *memDriver {
	return &memDriver{name: name, objects: map[string][]byte{}}
}

func (d *memDriver) Name() string { return d.name }

func (d *memDriver) Put(_ context.Context, name string, payload []byte, _ string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if name == "" {
		return "", errors.New("empty name")
	}
	d.objects[name] = append([]byte(nil), payload...)
	return "https://cdn.example.com/" + name, nil
}

func (d *memDriver) Delete(_ context.Context, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.deleteErr != nil {
		return d.deleteErr
	}
	delete(d.objects, name)
	return nil
}

func (d *memDriver) has(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.objects[name]
	return ok
}
