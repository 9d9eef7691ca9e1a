package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/buildpanel/internal/common"
	"github.com/dmitrijs2005/buildpanel/internal/logging"
	"github.com/dmitrijs2005/buildpanel/internal/server/models"
	"github.com/dmitrijs2005/buildpanel/internal/server/services"
	"github.com/dmitrijs2005/buildpanel/internal/storage"
)

var errBoom = errors.New("boom")

const (
	testAdminID  = "6f1d5c0e-8a5b-4a51-9e3a-2b7c1f0e9d11"
	testToken    = "valid-token"
	testPassword = "s3cret"
)

// ---- auth ----

type fakeAuth struct {
	mu      sync.Mutex
	admin   *models.Admin
	tokens  map[string]string
	revoked map[string]bool
	meErr   error
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{
		admin:   &models.Admin{ID: testAdminID, Username: "admin", FullName: "Admin User", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		tokens:  map[string]string{testToken: testAdminID},
		revoked: map[string]bool{},
	}
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) (string, *models.Admin, error) {
	if username != f.admin.Username || password != testPassword {
		return "", nil, common.ErrInvalidCredentials
	}
	return testToken, f.admin, nil
}

func (f *fakeAuth) Me(ctx context.Context, adminID string) (*models.Admin, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	if adminID != f.admin.ID {
		return nil, common.ErrorNotFound
	}
	return f.admin, nil
}

func (f *fakeAuth) Logout(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[token] = true
	return nil
}

func (f *fakeAuth) Authenticate(ctx context.Context, token string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.revoked[token] {
		return "", fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrTokenRevoked)
	}
	id, ok := f.tokens[token]
	if !ok {
		return "", fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrInvalidToken)
	}
	return id, nil
}

// ---- projects ----

// fakeProjects keeps projects in memory; files mirrors what a storage
// provider would hold.
type fakeProjects struct {
	mu       sync.Mutex
	projects map[string]*models.Project
	files    map[string]bool
	seq      int

	listFilter  models.ProjectFilter
	uploaded    []storage.File
	removedPath string
	err         error
}

func newFakeProjects() *fakeProjects {
	return &fakeProjects{projects: map[string]*models.Project{}, files: map[string]bool{}}
}

func (f *fakeProjects) add(p *models.Project) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects[p.ID] = p
	for _, img := range p.Images {
		f.files[img] = true
	}
}

func (f *fakeProjects) List(ctx context.Context, filter models.ProjectFilter) ([]*models.Project, error) {
	f.listFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	out := []*models.Project{}
	for _, p := range f.projects {
		if filter.Status == "" || p.Status == filter.Status {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProjects) Get(ctx context.Context, id string) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return p, nil
}

func (f *fakeProjects) Create(ctx context.Context, in services.CreateProjectInput) (*models.Project, error) {
	if err := services.Validate(in); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	p := &models.Project{
		ID:          fmt.Sprintf("p-%d", f.seq),
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Status:      models.ProjectStatusInProgress,
		Images:      []string{},
		Features:    in.Features,
	}
	f.projects[p.ID] = p
	return p, nil
}

func (f *fakeProjects) Update(ctx context.Context, id string, in services.UpdateProjectInput) (*models.Project, error) {
	if err := services.Validate(in); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	return p, nil
}

func (f *fakeProjects) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok {
		return common.ErrorNotFound
	}
	delete(f.projects, id)
	for _, img := range p.Images {
		delete(f.files, img)
	}
	return nil
}

func (f *fakeProjects) UploadImages(ctx context.Context, id string, files []storage.File) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	for _, file := range files {
		b, err := io.ReadAll(file.Body)
		if err != nil {
			return nil, err
		}
		f.uploaded = append(f.uploaded, storage.File{Name: file.Name, Size: int64(len(b))})
		path := common.UploadsURLPrefix + services.ProjectImagePrefix + "/" + file.Name
		p.Images = append(p.Images, path)
		f.files[path] = true
	}
	return p, nil
}

func (f *fakeProjects) RemoveImage(ctx context.Context, id string, imagePath string) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removedPath = imagePath
	p, ok := f.projects[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	for i, img := range p.Images {
		if img == imagePath {
			p.Images = append(p.Images[:i:i], p.Images[i+1:]...)
			delete(f.files, imagePath)
			return p, nil
		}
	}
	return nil, common.ErrorNotFound
}

// ---- catalog ----

type fakeCatalog struct {
	items []*models.Service
	err   error
}

func (f *fakeCatalog) ListActive(ctx context.Context) ([]*models.Service, error) {
	out := []*models.Service{}
	for _, s := range f.items {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, f.err
}

func (f *fakeCatalog) ListAll(ctx context.Context) ([]*models.Service, error) {
	return f.items, f.err
}

func (f *fakeCatalog) Get(ctx context.Context, id string) (*models.Service, error) {
	for _, s := range f.items {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeCatalog) Create(ctx context.Context, in services.CreateServiceInput) (*models.Service, error) {
	if err := services.Validate(in); err != nil {
		return nil, err
	}
	s := &models.Service{ID: "s-new", Title: in.Title, Description: in.Description, Icon: models.DefaultServiceIcon, IsActive: true}
	f.items = append(f.items, s)
	return s, nil
}

func (f *fakeCatalog) Update(ctx context.Context, id string, in services.UpdateServiceInput) (*models.Service, error) {
	s, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
	return s, nil
}

func (f *fakeCatalog) Delete(ctx context.Context, id string) error {
	for i, s := range f.items {
		if s.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

// ---- contacts ----

type fakeContacts struct {
	submitted  []*models.Contact
	listFilter models.ContactFilter
	unread     int64
	statusIn   services.StatusInput
	err        error
}

func (f *fakeContacts) Submit(ctx context.Context, in services.ContactInput) (*models.Contact, error) {
	if err := services.Validate(in); err != nil {
		return nil, err
	}
	c := &models.Contact{
		ID:       "c-1",
		FullName: in.FullName,
		Email:    in.Email,
		Phone:    in.Phone,
		Subject:  in.Subject,
		Message:  in.Message,
		IsRead:   false,
		Status:   models.ContactStatusNew,
	}
	f.submitted = append(f.submitted, c)
	return c, nil
}

func (f *fakeContacts) List(ctx context.Context, filter models.ContactFilter) ([]*models.Contact, error) {
	f.listFilter = filter
	return f.submitted, f.err
}

func (f *fakeContacts) Get(ctx context.Context, id string) (*models.Contact, error) {
	for _, c := range f.submitted {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeContacts) UnreadCount(ctx context.Context) (int64, error) {
	return f.unread, f.err
}

func (f *fakeContacts) MarkAsRead(ctx context.Context, id string) (*models.Contact, error) {
	c, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.IsRead = true
	return c, nil
}

func (f *fakeContacts) UpdateStatus(ctx context.Context, id string, in services.StatusInput) (*models.Contact, error) {
	f.statusIn = in
	if err := services.Validate(in); err != nil {
		return nil, err
	}
	c, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Status = in.Status
	return c, nil
}

func (f *fakeContacts) Delete(ctx context.Context, id string) error {
	for i, c := range f.submitted {
		if c.ID == id {
			f.submitted = append(f.submitted[:i], f.submitted[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

// ---- harness ----

type testEnv struct {
	auth     *fakeAuth
	projects *fakeProjects
	catalog  *fakeCatalog
	contacts *fakeContacts
	handler  http.Handler
}

func newTestEnv(t *testing.T, opts Options, uploads http.Handler) *testEnv {
	t.Helper()

	if opts.RateLimitPerMinute == 0 {
		opts.RateLimitPerMinute = 1000
	}

	env := &testEnv{
		auth:     newFakeAuth(),
		projects: newFakeProjects(),
		catalog:  &fakeCatalog{},
		contacts: &fakeContacts{},
	}

	srv := NewRESTServer("127.0.0.1:0", logging.Nop{}, Deps{
		Auth:     env.auth,
		Projects: env.projects,
		Catalog:  env.catalog,
		Contacts: env.contacts,
		Uploads:  uploads,
	}, opts)
	env.handler = srv.Handler()

	return env
}

func (e *testEnv) do(method, target, body string, authed bool) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+testToken)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}
