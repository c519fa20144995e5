package jobdescriptions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/extract"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/engine"
)

// Service contains business logic for job descriptions.
type Service struct {
	Store           object.ObjectStore
	StorageProvider string
	Repo            Repo
	Engine          *engine.Engine
	Now             func() time.Time
}

// TextInput describes a job description submitted as plain text.
type TextInput struct {
	Title   string
	Company string
	Text    string
}

// UploadInput describes a job description submitted as a file.
type UploadInput struct {
	Title    string
	Company  string
	FileName string
	Body     io.Reader
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// CreateFromText records a job description from raw text.
func (s *Service) CreateFromText(ctx context.Context, userID string, in TextInput) (JobDescription, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return JobDescription{}, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}
	keywords, err := s.Engine.Keywords(text)
	if err != nil {
		return JobDescription{}, err
	}

	jd := JobDescription{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     titleOrDefault(in.Title, ""),
		Company:   strings.TrimSpace(in.Company),
		Source:    SourceText,
		Text:      text,
		Keywords:  keywords,
		CreatedAt: s.now(),
	}
	if err := s.Repo.Create(ctx, jd); err != nil {
		return JobDescription{}, err
	}
	metrics.IncJobDescriptions(jd.Source)
	telemetry.Info("job_description.created", map[string]any{
		"user_id":            userID,
		"job_description_id": jd.ID,
		"source":             jd.Source,
		"keywords":           len(jd.Keywords),
	})
	return jd, nil
}

// Upload saves the file to object storage, extracts its text and records the
// job description. The stored object is removed when extraction fails.
func (s *Service) Upload(ctx context.Context, userID string, in UploadInput) (JobDescription, error) {
	fileName := strings.TrimSpace(in.FileName)
	if fileName == "" {
		return JobDescription{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	if s.Store == nil {
		return JobDescription{}, errors.New("object store not configured")
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, userID, fileName, in.Body)
	if err != nil {
		return JobDescription{}, err
	}

	text, extractedKey, err := extract.ExtractText(ctx, s.Store, storageKey, mimeType, fileName)
	if err != nil {
		s.discard(ctx, storageKey)
		if errors.Is(err, extract.ErrUnsupported) {
			return JobDescription{}, fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(fileName))
		}
		return JobDescription{}, err
	}
	if text == "" {
		s.discard(ctx, storageKey, extractedKey)
		return JobDescription{}, fmt.Errorf("%w: no text found in %s", ErrInvalidInput, fileName)
	}

	keywords, err := s.Engine.Keywords(text)
	if err != nil {
		s.discard(ctx, storageKey, extractedKey)
		return JobDescription{}, err
	}

	jd := JobDescription{
		ID:               uuid.NewString(),
		UserID:           userID,
		Title:            titleOrDefault(in.Title, fileName),
		Company:          strings.TrimSpace(in.Company),
		Source:           SourceUpload,
		FileName:         fileName,
		MimeType:         mimeType,
		SizeBytes:        size,
		StorageProvider:  s.StorageProvider,
		StorageKey:       storageKey,
		ExtractedTextKey: extractedKey,
		Text:             text,
		Keywords:         keywords,
		CreatedAt:        s.now(),
	}
	if err := s.Repo.Create(ctx, jd); err != nil {
		s.discard(ctx, storageKey, extractedKey)
		return JobDescription{}, err
	}
	metrics.IncJobDescriptions(jd.Source)
	telemetry.Info("job_description.uploaded", map[string]any{
		"user_id":            userID,
		"job_description_id": jd.ID,
		"mime_type":          mimeType,
		"size_bytes":         size,
		"keywords":           len(jd.Keywords),
	})
	return jd, nil
}

// Get returns a job description owned by a user.
func (s *Service) Get(ctx context.Context, userID, id string) (JobDescription, error) {
	if strings.TrimSpace(id) == "" {
		return JobDescription{}, ErrNotFound
	}
	return s.Repo.Get(ctx, userID, id)
}

// List returns a user's job descriptions.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]JobDescription, error) {
	return s.Repo.List(ctx, userID, limit, offset)
}

// Delete removes a job description and its stored objects.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	jd, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.discard(ctx, jd.StorageKey, jd.ExtractedTextKey)
	return nil
}

// JobText returns the text of a stored job description.
func (s *Service) JobText(ctx context.Context, userID, id string) (string, error) {
	jd, err := s.Get(ctx, userID, id)
	if err != nil {
		return "", err
	}
	return jd.Text, nil
}

func (s *Service) discard(ctx context.Context, keys ...string) {
	if s.Store == nil {
		return
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.Store.Delete(ctx, key); err != nil {
			telemetry.Warn("job_description.discard_failed", map[string]any{"storage_key": key, "error": err})
		}
	}
}

func titleOrDefault(title, fileName string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	if fileName != "" {
		return strings.TrimSuffix(fileName, filepath.Ext(fileName))
	}
	return DefaultTitle
}
