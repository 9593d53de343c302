package drive

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	gdrive "google.golang.org/api/drive/v3"
	goption "google.golang.org/api/option"

	portssvc "github.com/hearthsplit/household_manager_app/internal/core/ports/services"
)

// ReceiptStore uploads receipt images into one Google Drive folder and hands
// back the web view link stored on the debt row.
type ReceiptStore struct {
	service  *gdrive.Service
	folderID string
}

// NewReceiptStore builds a Drive client from service account credentials.
// Credentials come from GOOGLE_SERVICE_ACCOUNT_JSON or, failing that, the
// file named by GOOGLE_SERVICE_ACCOUNT_FILE / GOOGLE_APPLICATION_CREDENTIALS.
// An empty folderID disables receipt storage.
func NewReceiptStore(ctx context.Context, folderID string) (*ReceiptStore, error) {
	if folderID == "" {
		return &ReceiptStore{}, nil
	}

	credentialsJSON, err := loadCredentials()
	if err != nil {
		return nil, err
	}

	service, err := gdrive.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gdrive.DriveFileScope))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return &ReceiptStore{service: service, folderID: folderID}, nil
}

var _ portssvc.ReceiptStore = (*ReceiptStore)(nil)

func loadCredentials() ([]byte, error) {
	if inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); inline != "" {
		return []byte(inline), nil
	}
	path := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if path == "" {
		path = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if path == "" {
		return nil, fmt.Errorf("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
	credentialsJSON, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return credentialsJSON, nil
}

// Store uploads the receipt bytes into the configured folder and returns the
// link used to view it. Returns an empty URL without error when the store is
// disabled.
func (s *ReceiptStore) Store(ctx context.Context, name string, data []byte, mimeType string) (string, error) {
	if s.service == nil {
		return "", nil
	}

	meta := &gdrive.File{
		Name:    name,
		Parents: []string{s.folderID},
	}
	if mimeType != "" {
		meta.MimeType = mimeType
	}

	file, err := s.service.Files.Create(meta).
		Context(ctx).
		Media(bytes.NewReader(data)).
		Fields("id", "webViewLink", "webContentLink").
		Do()
	if err != nil {
		return "", fmt.Errorf("upload receipt %s: %w", name, err)
	}

	if file.WebViewLink != "" {
		return file.WebViewLink, nil
	}
	if file.WebContentLink != "" {
		return file.WebContentLink, nil
	}
	return fmt.Sprintf("https://drive.google.com/file/d/%s/view", file.Id), nil
}
