package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sanjaydhakar1990-design/schooltino-sub005/internal/core"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":  "ok",
		"imports": s.service.Limiter().Status(),
	})
}

func (s *Server) handleListImportTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"import_types":  s.service.ImportTypes(),
		"max_file_size": s.service.MaxFileSize(),
	})
}

// handleTemplate returns the template as JSON, or as a CSV download when
// ?format=csv.
func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	tmpl, err := s.service.Template(chi.URLParam(r, "importType"))
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, core.TemplateFilename(tmpl.ImportType)))
		_, _ = io.WriteString(w, tmpl.SampleCSV)
		return
	}
	writeJSON(w, r, http.StatusOK, tmpl)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	res, err := s.service.Preview(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// handleExecute answers 200 once every row was attempted, even when some rows
// failed. A rejected file is 422 and an aborted run 503; both carry the result.
func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	req, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	skip, err := parseBool(r.FormValue("skip_invalid"))
	if err != nil {
		s.respondError(w, r, &FormError{Messages: []string{"skip_invalid must be true or false"}}, http.StatusBadRequest)
		return
	}
	req.SkipInvalid = skip

	res, err := s.service.Execute(withClientInfo(r.Context(), r), req)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	status := http.StatusOK
	switch res.Status {
	case core.StatusRejected:
		status = http.StatusUnprocessableEntity
	case core.StatusAborted:
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, r, status, res)
}

// readUpload parses the multipart form shared by preview and execute.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (core.UploadRequest, error) {
	importType := chi.URLParam(r, "importType")
	maxSize := s.service.MaxFileSize()
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+formOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return core.UploadRequest{}, &core.ParseError{
				Kind:   core.ErrFileTooLarge,
				Detail: fmt.Sprintf("upload exceeds the %d byte limit", maxSize),
			}
		}
		return core.UploadRequest{}, &FormError{Messages: []string{"request must be multipart/form-data with a file field"}}
	}

	form := uploadForm{SchoolID: r.FormValue("school_id")}
	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		form.FileName = header.Filename
	}
	if err := s.validate.Struct(form); err != nil {
		return core.UploadRequest{}, err
	}

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return core.UploadRequest{}, &core.ParseError{Kind: core.ErrUnreadableFile, Detail: err.Error()}
	}

	return core.UploadRequest{
		ImportType: importType,
		SchoolID:   form.SchoolID,
		FileName:   form.FileName,
		Data:       data,
	}, nil
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}
