package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/buildpanel/internal/common"
	"github.com/dmitrijs2005/buildpanel/internal/server/models"
	"github.com/dmitrijs2005/buildpanel/internal/server/services"
	"github.com/dmitrijs2005/buildpanel/internal/storage"
)

const (
	// imagesField is the multipart field carrying uploaded images.
	imagesField = "images"

	defaultMaxUploadSize = 5 << 20
	multipartMemory      = 8 << 20
	multipartOverhead    = 1 << 20
)

type removeImageRequest struct {
	ImagePath string `json:"imagePath" validate:"required"`
}

type projectMessageResponse struct {
	Message string          `json:"message"`
	Project *models.Project `json:"project"`
}

func (h *handlers) listProjects(w http.ResponseWriter, r *http.Request) {
	list, err := h.projects.List(r.Context(), models.ProjectFilter{Status: r.URL.Query().Get("status")})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handlers) getProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.projects.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handlers) createProject(w http.ResponseWriter, r *http.Request) {
	var in services.CreateProjectInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := h.projects.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *handlers) updateProject(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateProjectInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := h.projects.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handlers) deleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.projects.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "project deleted")
}

func (h *handlers) uploadProjectImages(w http.ResponseWriter, r *http.Request) {
	maxSize := h.maxUploadSize
	if maxSize <= 0 {
		maxSize = defaultMaxUploadSize
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxSize*storage.MaxFilesPerUpload+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			h.writeError(w, r, fmt.Errorf("%w: upload too large", common.ErrorValidation))
			return
		}
		h.writeError(w, r, fmt.Errorf("%w: expected multipart form with %q files", common.ErrorValidation, imagesField))
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[imagesField]
	if len(headers) > storage.MaxFilesPerUpload {
		h.writeError(w, r, fmt.Errorf("%w: at most %d images per upload", common.ErrorValidation, storage.MaxFilesPerUpload))
		return
	}

	files := make([]storage.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			h.writeError(w, r, fmt.Errorf("open upload %s: %w", fh.Filename, err))
			return
		}
		defer f.Close()

		files = append(files, storage.File{Name: fh.Filename, Size: fh.Size, Body: f})
	}

	p, err := h.projects.UploadImages(r.Context(), chi.URLParam(r, "id"), files)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handlers) removeProjectImage(w http.ResponseWriter, r *http.Request) {
	var req removeImageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := services.Validate(req); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.removeImage(w, r, req.ImagePath)
}

// removeProjectImageByName is the path-parameter form of removeProjectImage.
func (h *handlers) removeProjectImageByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "imageName")
	h.removeImage(w, r, common.UploadsURLPrefix+services.ProjectImagePrefix+"/"+name)
}

func (h *handlers) removeImage(w http.ResponseWriter, r *http.Request, imagePath string) {
	p, err := h.projects.RemoveImage(r.Context(), chi.URLParam(r, "id"), imagePath)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectMessageResponse{Message: "image removed", Project: p})
}
