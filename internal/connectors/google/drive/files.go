package drive

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/drive/v3"

	gerrors "github.com/custodia-labs/worklink/internal/connectors/google"
	"github.com/custodia-labs/worklink/internal/core/domain"
	"github.com/custodia-labs/worklink/internal/logger"
)

// FileKind filters name lookups to a Google Workspace file type.
type FileKind string

// Supported file kinds. KindAny disables the type filter.
const (
	KindAny          FileKind = ""
	KindSpreadsheet  FileKind = "spreadsheet"
	KindDocument     FileKind = "document"
	KindPresentation FileKind = "presentation"
	KindForm         FileKind = "form"
	KindFolder       FileKind = "folder"
)

var kindMIMETypes = map[FileKind]string{
	KindSpreadsheet:  "application/vnd.google-apps.spreadsheet",
	KindDocument:     "application/vnd.google-apps.document",
	KindPresentation: "application/vnd.google-apps.presentation",
	KindForm:         "application/vnd.google-apps.form",
	KindFolder:       "application/vnd.google-apps.folder",
}

// Candidate is one of several files matching a name lookup.
type Candidate struct {
	ID       string
	Name     string
	MIMEType string
}

// AmbiguityError reports a name lookup that matched more than one file.
// It unwraps to domain.ErrAmbiguous and carries the candidates so callers
// can list them for the user.
type AmbiguityError struct {
	Name       string
	Candidates []Candidate
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("multiple files found with name %q (%d matches)", e.Name, len(e.Candidates))
}

func (e *AmbiguityError) Unwrap() error {
	return domain.ErrAmbiguous
}

// Files wraps the Drive API for file lookup and deletion.
type Files struct {
	svc *drive.Service
}

// NewFiles creates a Files facade over a Drive service.
func NewFiles(svc *drive.Service) *Files {
	return &Files{svc: svc}
}

// FindByName resolves a file name to a file ID.
//
// Returns domain.ErrNotFound when no file matches and an *AmbiguityError
// when more than one does. Trashed files are never considered.
func (f *Files) FindByName(ctx context.Context, name string, kind FileKind) (string, error) {
	query := fmt.Sprintf("name = '%s' and trashed = false", escapeQueryValue(name))
	if mimeType, ok := kindMIMETypes[kind]; ok && kind != KindAny {
		query += fmt.Sprintf(" and mimeType = '%s'", mimeType)
	} else if kind != KindAny {
		logger.Warn("unknown file kind %q, searching all file types", kind)
	}

	logger.Debug("drive: searching files with query %q", query)
	result, err := f.svc.Files.List().
		Q(query).
		Fields("files(id, name, mimeType, webViewLink)").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("drive file search failed: %w", gerrors.WrapError(err))
	}

	switch len(result.Files) {
	case 0:
		return "", fmt.Errorf("%w: no %s found with name %q", domain.ErrNotFound, kindLabel(kind), name)
	case 1:
		return result.Files[0].Id, nil
	default:
		ambErr := &AmbiguityError{Name: name}
		for _, file := range result.Files {
			ambErr.Candidates = append(ambErr.Candidates, Candidate{
				ID:       file.Id,
				Name:     file.Name,
				MIMEType: file.MimeType,
			})
		}
		return "", ambErr
	}
}

// Name returns the display name of a file.
func (f *Files) Name(ctx context.Context, fileID string) (string, error) {
	file, err := f.svc.Files.Get(fileID).Fields("name").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get file %s: %w", fileID, gerrors.WrapError(err))
	}
	return file.Name, nil
}

// Delete permanently deletes a file, bypassing the trash.
// Confirmation is the caller's responsibility; this method is unconditional.
func (f *Files) Delete(ctx context.Context, fileID string) error {
	if err := f.svc.Files.Delete(fileID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", fileID, gerrors.WrapError(err))
	}
	return nil
}

// escapeQueryValue escapes a string literal for a Drive query.
func escapeQueryValue(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(value, `'`, `\'`)
}

func kindLabel(kind FileKind) string {
	if kind == KindAny {
		return "file"
	}
	return string(kind)
}
