package http

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/dmitrijs2005/imgbox/internal/server/models"
)

const (
	// multipartOverhead covers boundaries, part headers and small fields.
	multipartOverhead = 1 << 20
	// maxPostImages caps the number of images in one create_post request.
	maxPostImages = 4
)

var errNoFile = errors.New("no file part")

// nextFile advances mr to the next file part named field.
func nextFile(mr *multipart.Reader, field string) (*multipart.Part, error) {
	for {
		part, err := mr.NextPart()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errNoFile
			}
			return nil, err
		}
		if part.FormName() == field && part.FileName() != "" {
			return part, nil
		}
		_ = part.Close()
	}
}

// saveSingle stores the file part called field and returns its record.
func (s *HTTPServer) saveSingle(w http.ResponseWriter, r *http.Request, field string) (*models.StoredFile, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.images.MaxSize()+multipartOverhead)

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, badRequest(field, "multipart form required")
	}

	part, err := nextFile(mr, field)
	if err != nil {
		if errors.Is(err, errNoFile) {
			return nil, badRequest(field, "file is required")
		}
		return nil, err
	}
	defer part.Close()

	return s.images.Save(r.Context(), part.FileName(), part)
}

type uploadImageResponse struct {
	FileUpload string `json:"file_upload"`
}

func (s *HTTPServer) uploadImage(w http.ResponseWriter, r *http.Request) {
	f, err := s.saveSingle(w, r, "file")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, uploadImageResponse{FileUpload: f.Name})
}

type photoResponse struct {
	Filename string `json:"filename"`
	Location string `json:"location"`
}

func (s *HTTPServer) uploadPhoto(w http.ResponseWriter, r *http.Request) {
	f, err := s.saveSingle(w, r, "photo")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, photoResponse{Filename: f.Name, Location: f.Location})
}

type createPostResponse struct {
	Status      int                 `json:"status"`
	Description string              `json:"description"`
	Photos      []*models.PostImage `json:"photos"`
}

// createPost describes the posted images without storing them.
func (s *HTTPServer) createPost(w http.ResponseWriter, r *http.Request) {
	limit := maxPostImages*s.images.MaxSize() + multipartOverhead
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	mr, err := r.MultipartReader()
	if err != nil {
		s.writeError(w, r, badRequest("images", "multipart form required"))
		return
	}

	resp := createPostResponse{Status: http.StatusOK, Photos: []*models.PostImage{}}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		switch {
		case part.FormName() == "description" && part.FileName() == "":
			b, err := io.ReadAll(io.LimitReader(part, multipartOverhead))
			if err != nil {
				_ = part.Close()
				s.writeError(w, r, err)
				return
			}
			resp.Description = string(b)
		case part.FormName() == "images" && part.FileName() != "":
			if len(resp.Photos) == maxPostImages {
				_ = part.Close()
				s.writeError(w, r, badRequest("images", "too many images"))
				return
			}
			img, err := s.images.Inspect(r.Context(), part)
			if err != nil {
				_ = part.Close()
				s.writeError(w, r, err)
				return
			}
			resp.Photos = append(resp.Photos, img)
		}
		_ = part.Close()
	}

	if len(resp.Photos) == 0 {
		s.writeError(w, r, badRequest("images", "at least one image is required"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
