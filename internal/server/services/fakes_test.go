package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/buildpanel/internal/common"
	"github.com/dmitrijs2005/buildpanel/internal/dbx"
	"github.com/dmitrijs2005/buildpanel/internal/server/models"
	"github.com/dmitrijs2005/buildpanel/internal/server/repositories/admins"
	"github.com/dmitrijs2005/buildpanel/internal/server/repositories/blacklist"
	"github.com/dmitrijs2005/buildpanel/internal/server/repositories/catalog"
	"github.com/dmitrijs2005/buildpanel/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/buildpanel/internal/server/repositories/filecleanup"
	"github.com/dmitrijs2005/buildpanel/internal/server/repositories/projects"
	"github.com/google/uuid"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// --- admins ---

type fakeAdmins struct {
	byName       map[string]*models.Admin
	getErr       error
	lastLoginErr error
	lastLogin    map[string]time.Time
	createErr    error
}

func newFakeAdmins(list ...*models.Admin) *fakeAdmins {
	f := &fakeAdmins{byName: map[string]*models.Admin{}, lastLogin: map[string]time.Time{}}
	for _, a := range list {
		f.byName[a.Username] = a
	}
	return f
}

func (f *fakeAdmins) Create(_ context.Context, a *models.Admin) (*models.Admin, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	a.ID = uuid.NewString()
	f.byName[a.Username] = a
	return a, nil
}

func (f *fakeAdmins) GetByUsername(_ context.Context, username string) (*models.Admin, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	a, ok := f.byName[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAdmins) GetByID(_ context.Context, id string) (*models.Admin, error) {
	for _, a := range f.byName {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAdmins) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	if f.lastLoginErr != nil {
		return f.lastLoginErr
	}
	f.lastLogin[id] = at
	return nil
}

// --- blacklist ---

type fakeBlacklist struct {
	tokens    map[string]time.Time
	existsErr error
	addErr    error
	pruneErr  error
	prunedAt  time.Time
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{tokens: map[string]time.Time{}}
}

func (f *fakeBlacklist) Add(_ context.Context, token string, exp time.Time) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.tokens[token] = exp
	return nil
}

func (f *fakeBlacklist) Exists(_ context.Context, token string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.tokens[token]
	return ok, nil
}

func (f *fakeBlacklist) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	if f.pruneErr != nil {
		return 0, f.pruneErr
	}
	f.prunedAt = now
	var n int64
	for tok, exp := range f.tokens {
		if exp.Before(now) {
			delete(f.tokens, tok)
			n++
		}
	}
	return n, nil
}

// --- projects ---

type fakeProjects struct {
	items     map[string]*models.Project
	appendErr error
	deleteErr error
	lastPatch models.ProjectPatch
	lastList  models.ProjectFilter
}

func newFakeProjects(list ...*models.Project) *fakeProjects {
	f := &fakeProjects{items: map[string]*models.Project{}}
	for _, p := range list {
		f.items[p.ID] = p
	}
	return f
}

func (f *fakeProjects) List(_ context.Context, filter models.ProjectFilter) ([]*models.Project, error) {
	f.lastList = filter
	out := []*models.Project{}
	for _, p := range f.items {
		if filter.Status == "" || p.Status == filter.Status {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeProjects) Get(_ context.Context, id string) (*models.Project, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return p, nil
}

func (f *fakeProjects) Create(_ context.Context, p *models.Project) (*models.Project, error) {
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	f.items[p.ID] = p
	return p, nil
}

func (f *fakeProjects) Update(_ context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	f.lastPatch = patch
	p, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	return p, nil
}

func (f *fakeProjects) AppendImages(_ context.Context, id string, paths []string) (*models.Project, error) {
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	p, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	p.Images = append(p.Images, paths...)
	return p, nil
}

func (f *fakeProjects) RemoveImage(_ context.Context, id string, path string) (*models.Project, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	kept := []string{}
	found := false
	for _, img := range p.Images {
		if img == path {
			found = true
			continue
		}
		kept = append(kept, img)
	}
	if !found {
		return nil, common.ErrorNotFound
	}
	p.Images = kept
	return p, nil
}

func (f *fakeProjects) Delete(_ context.Context, id string) ([]string, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	p, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(f.items, id)
	return p.Images, nil
}

// --- file cleanup queue ---

type fakeCleanup struct {
	queue      []string
	enqueueErr error
	pendingErr error
}

func (f *fakeCleanup) Enqueue(_ context.Context, keys []string) error {
	if f.enqueueErr != nil {
		return f.enqueueErr
	}
	for _, k := range keys {
		if !f.has(k) {
			f.queue = append(f.queue, k)
		}
	}
	return nil
}

func (f *fakeCleanup) Pending(_ context.Context, limit int) ([]string, error) {
	if f.pendingErr != nil {
		return nil, f.pendingErr
	}
	if len(f.queue) < limit {
		limit = len(f.queue)
	}
	return append([]string{}, f.queue[:limit]...), nil
}

func (f *fakeCleanup) Done(_ context.Context, key string) error {
	for i, k := range f.queue {
		if k == key {
			f.queue = append(f.queue[:i], f.queue[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeCleanup) has(key string) bool {
	for _, k := range f.queue {
		if k == key {
			return true
		}
	}
	return false
}

// --- catalog / contacts ---

type fakeCatalog struct {
	catalog.Repository
	created    *models.Service
	listActive *bool
	patch      models.ServicePatch
}

func (f *fakeCatalog) List(_ context.Context, activeOnly bool) ([]*models.Service, error) {
	f.listActive = &activeOnly
	return []*models.Service{}, nil
}

func (f *fakeCatalog) Create(_ context.Context, s *models.Service) (*models.Service, error) {
	f.created = s
	s.ID = uuid.NewString()
	return s, nil
}

func (f *fakeCatalog) Update(_ context.Context, id string, patch models.ServicePatch) (*models.Service, error) {
	f.patch = patch
	return &models.Service{ID: id}, nil
}

func (f *fakeCatalog) Get(_ context.Context, id string) (*models.Service, error) {
	return nil, common.ErrorNotFound
}

func (f *fakeCatalog) Delete(_ context.Context, id string) error {
	return nil
}

type fakeContacts struct {
	contacts.Repository
	created *models.Contact
	filter  models.ContactFilter
	status  string
}

func (f *fakeContacts) Create(_ context.Context, c *models.Contact) (*models.Contact, error) {
	f.created = c
	c.ID = uuid.NewString()
	return c, nil
}

func (f *fakeContacts) List(_ context.Context, filter models.ContactFilter) ([]*models.Contact, error) {
	f.filter = filter
	return []*models.Contact{}, nil
}

func (f *fakeContacts) CountUnread(context.Context) (int64, error) { return 3, nil }

func (f *fakeContacts) MarkAsRead(_ context.Context, id string) (*models.Contact, error) {
	return &models.Contact{ID: id, IsRead: true, Status: models.ContactStatusNew}, nil
}

func (f *fakeContacts) UpdateStatus(_ context.Context, id string, status string) (*models.Contact, error) {
	f.status = status
	return &models.Contact{ID: id, Status: status}, nil
}

func (f *fakeContacts) Delete(_ context.Context, id string) error { return common.ErrorNotFound }

// --- repo manager ---

type fakeRepoManager struct {
	admins    *fakeAdmins
	blacklist *fakeBlacklist
	projects  *fakeProjects
	catalog   *fakeCatalog
	contacts  *fakeContacts
	cleanup   *fakeCleanup
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Admins(dbx.DBTX) admins.Repository            { return m.admins }
func (m *fakeRepoManager) Blacklist(dbx.DBTX) blacklist.Repository      { return m.blacklist }
func (m *fakeRepoManager) Projects(dbx.DBTX) projects.Repository        { return m.projects }
func (m *fakeRepoManager) Services(dbx.DBTX) catalog.Repository         { return m.catalog }
func (m *fakeRepoManager) Contacts(dbx.DBTX) contacts.Repository        { return m.contacts }
func (m *fakeRepoManager) FileCleanup(dbx.DBTX) filecleanup.Repository  { return m.cleanup }

// --- storage ---

type fakeStorage struct {
	mu        sync.Mutex
	files     map[string][]byte
	failPutAt int // 1-based; 0 disables
	puts      int
	failDel   map[string]bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: map[string][]byte{}, failDel: map[string]bool{}}
}

func (s *fakeStorage) Put(_ context.Context, key string, body io.ReadSeeker, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.failPutAt != 0 && s.puts == s.failPutAt {
		return errors.New("disk full")
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.files[key] = b
	return nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDel[key] {
		return errors.New("permission denied")
	}
	delete(s.files, key)
	return nil
}

func (s *fakeStorage) Handler() http.Handler { return http.NotFoundHandler() }

func (s *fakeStorage) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[key]
	return ok
}

func pngBytes() []byte {
	return append([]byte("\x89PNG\x0D\x0A\x1A\x0A"), bytes.Repeat([]byte{0}, 32)...)
}
