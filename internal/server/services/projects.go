package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/buildpanel/internal/common"
	"github.com/dmitrijs2005/buildpanel/internal/dbx"
	"github.com/dmitrijs2005/buildpanel/internal/logging"
	"github.com/dmitrijs2005/buildpanel/internal/server/config"
	"github.com/dmitrijs2005/buildpanel/internal/server/models"
	"github.com/dmitrijs2005/buildpanel/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/buildpanel/internal/storage"
)

// ProjectImagePrefix is the storage prefix of project images.
const ProjectImagePrefix = "projects"

// pendingBatch bounds how many queued deletions one call retries.
const pendingBatch = 50

type CreateProjectInput struct {
	Title          string     `json:"title" validate:"required,max=200"`
	Description    string     `json:"description" validate:"required"`
	Location       string     `json:"location" validate:"required,max=200"`
	Status         string     `json:"status" validate:"omitempty,oneof=in-progress completed"`
	Features       []string   `json:"features" validate:"omitempty,dive,required"`
	CompletionDate *time.Time `json:"completionDate"`
}

// UpdateProjectInput is a partial update; absent fields keep their value.
// An explicit null completionDate clears it.
// Images are managed through UploadImages and RemoveImage only.
type UpdateProjectInput struct {
	Title          *string      `json:"title" validate:"omitnil,min=1,max=200"`
	Description    *string      `json:"description" validate:"omitnil,min=1"`
	Location       *string      `json:"location" validate:"omitnil,min=1,max=200"`
	Status         *string      `json:"status" validate:"omitnil,oneof=in-progress completed"`
	Features       *[]string    `json:"features" validate:"omitnil,dive,required"`
	CompletionDate NullableTime `json:"completionDate"`
}

// ProjectService manages projects and the image files they reference.
type ProjectService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	storage       storage.Provider
	logger        logging.Logger
	maxUploadSize int64
}

func NewProjectService(db *sql.DB, m repomanager.RepositoryManager, store storage.Provider, cfg *config.Config, logger logging.Logger) *ProjectService {
	return &ProjectService{
		db:            db,
		repomanager:   m,
		storage:       store,
		logger:        logger,
		maxUploadSize: cfg.MaxUploadSize,
	}
}

func (s *ProjectService) List(ctx context.Context, filter models.ProjectFilter) ([]*models.Project, error) {
	if filter.Status != "" && filter.Status != models.ProjectStatusInProgress && filter.Status != models.ProjectStatusCompleted {
		return nil, fmt.Errorf("%w: unknown status %q", common.ErrorValidation, filter.Status)
	}
	return s.repomanager.Projects(s.db).List(ctx, filter)
}

func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.repomanager.Projects(s.db).Get(ctx, id)
}

func (s *ProjectService) Create(ctx context.Context, in CreateProjectInput) (*models.Project, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	p := &models.Project{
		Title:          in.Title,
		Description:    in.Description,
		Location:       in.Location,
		Status:         in.Status,
		Images:         []string{},
		Features:       in.Features,
		CompletionDate: in.CompletionDate,
	}
	if p.Status == "" {
		p.Status = models.ProjectStatusInProgress
	}

	return s.repomanager.Projects(s.db).Create(ctx, p)
}

func (s *ProjectService) Update(ctx context.Context, id string, in UpdateProjectInput) (*models.Project, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := Validate(in); err != nil {
		return nil, err
	}

	return s.repomanager.Projects(s.db).Update(ctx, id, models.ProjectPatch{
		Title:               in.Title,
		Description:         in.Description,
		Location:            in.Location,
		Status:              in.Status,
		Features:            in.Features,
		CompletionDate:      in.CompletionDate.Time,
		ClearCompletionDate: in.CompletionDate.Set && in.CompletionDate.Time == nil,
	})
}

// Delete removes the project and then its image files. The row delete and
// the enqueueing of its files commit together; file removal happens after
// commit and whatever fails stays queued for the next Delete or RemoveImage.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	s.RetryPendingDeletions(ctx)

	var keys []string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		paths, err := s.repomanager.Projects(tx).Delete(ctx, id)
		if err != nil {
			return err
		}
		keys = s.storageKeys(ctx, paths)
		return s.repomanager.FileCleanup(tx).Enqueue(ctx, keys)
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "project deleted", "project_id", id, "images", len(keys))
	s.removeFiles(ctx, keys)
	return nil
}

// UploadImages stores files and appends their paths, in order, to the
// project's image list. Files stored before a failure are removed again.
func (s *ProjectService) UploadImages(ctx context.Context, id string, files []storage.File) (*models.Project, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	repo := s.repomanager.Projects(s.db)
	if _, err := repo.Get(ctx, id); err != nil {
		return nil, err
	}

	images, err := storage.PrepareImages(ProjectImagePrefix, files, s.maxUploadSize)
	if err != nil {
		return nil, err
	}

	stored := make([]string, 0, len(images))
	paths := make([]string, 0, len(images))
	for _, img := range images {
		if err := s.storage.Put(ctx, img.Key, img.Body, img.ContentType); err != nil {
			s.discard(ctx, stored)
			return nil, fmt.Errorf("error storing image: %w", err)
		}
		stored = append(stored, img.Key)
		paths = append(paths, common.PathFromStorageKey(img.Key))
	}

	p, err := repo.AppendImages(ctx, id, paths)
	if err != nil {
		s.discard(ctx, stored)
		return nil, err
	}

	s.logger.Info(ctx, "project images uploaded", "project_id", id, "count", len(paths))
	return p, nil
}

// RemoveImage detaches imagePath from the project and deletes the file
// with the same queue-then-delete pattern as Delete.
func (s *ProjectService) RemoveImage(ctx context.Context, id string, imagePath string) (*models.Project, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	key, err := common.StorageKeyFromPath(imagePath)
	if err != nil {
		return nil, err
	}

	s.RetryPendingDeletions(ctx)

	var p *models.Project
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if p, err = s.repomanager.Projects(tx).RemoveImage(ctx, id, imagePath); err != nil {
			return err
		}
		return s.repomanager.FileCleanup(tx).Enqueue(ctx, []string{key})
	})
	if err != nil {
		return nil, err
	}

	s.removeFiles(ctx, []string{key})
	return p, nil
}

// RetryPendingDeletions retries physical deletes left over from earlier
// calls. Failures are logged and stay queued.
func (s *ProjectService) RetryPendingDeletions(ctx context.Context) {
	keys, err := s.repomanager.FileCleanup(s.db).Pending(ctx, pendingBatch)
	if err != nil {
		s.logger.Warn(ctx, "cannot read pending file deletions", "error", err)
		return
	}
	if len(keys) > 0 {
		s.logger.Info(ctx, "retrying pending file deletions", "count", len(keys))
		s.removeFiles(ctx, keys)
	}
}

func (s *ProjectService) removeFiles(ctx context.Context, keys []string) {
	queue := s.repomanager.FileCleanup(s.db)
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.Warn(ctx, "file delete failed, kept for retry", "key", key, "error", err)
			continue
		}
		if err := queue.Done(ctx, key); err != nil {
			s.logger.Warn(ctx, "cannot dequeue deleted file", "key", key, "error", err)
		}
	}
}

func (s *ProjectService) discard(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.Warn(ctx, "orphaned upload", "key", key, "error", err)
		}
	}
}

func (s *ProjectService) storageKeys(ctx context.Context, paths []string) []string {
	keys := make([]string, 0, len(paths))
	for _, p := range paths {
		key, err := common.StorageKeyFromPath(p)
		if err != nil {
			s.logger.Warn(ctx, "skipping unexpected image path", "path", p, "error", err)
			continue
		}
		keys = append(keys, key)
	}
	return keys
}
