package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catering-service/internal/models"
	"catering-service/internal/store"
	"catering-service/internal/util"

	"go.uber.org/zap"
)

// BackupService exports and restores the full persisted key space as a
// single JSON document
type BackupService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(st *store.Store) *BackupService {
	return &BackupService{store: st, logger: util.GetLogger()}
}

// Backup is the export result: the bundled document plus its filename
type Backup struct {
	Filename string                     `json:"filename"`
	Document map[string]json.RawMessage `json:"document"`
}

// BackupFilename formats the download name for an export taken at t
func BackupFilename(t time.Time) string {
	return fmt.Sprintf("backup-%s.json", t.Format("20060102-150405"))
}

// Export bundles every persisted key and records the export in the
// backup history
func (s *BackupService) Export(ctx context.Context, createdBy string) (*Backup, error) {
	ctx, span := util.StartSpan(ctx, "BackupService.Export")
	defer span.End()

	doc, err := s.store.Export(ctx)
	if err != nil {
		return nil, err
	}

	filename := BackupFilename(time.Now())
	if err := s.store.AddBackupRecord(ctx, models.BackupRecord{
		Filename:  filename,
		CreatedBy: createdBy,
	}); err != nil {
		return nil, err
	}

	util.BackupsCreatedTotal.Inc()
	s.logger.Info("Backup exported", zap.String("filename", filename))
	return &Backup{Filename: filename, Document: doc}, nil
}

// ValidateBackup checks that a document carries the minimum keys to be
// restorable: users, creatorInfo or companyInfo, and theme
func ValidateBackup(doc map[string]json.RawMessage) error {
	if _, ok := doc[store.KeyUsers]; !ok {
		return fmt.Errorf("backup is missing %q: %w", store.KeyUsers, store.ErrValidation)
	}
	_, hasCreator := doc["creatorInfo"]
	_, hasCompany := doc[store.KeyCompanyInfo]
	if !hasCreator && !hasCompany {
		return fmt.Errorf("backup is missing creatorInfo/companyInfo: %w", store.ErrValidation)
	}
	if _, ok := doc[store.KeyTheme]; !ok {
		return fmt.Errorf("backup is missing %q: %w", store.KeyTheme, store.ErrValidation)
	}
	return nil
}

// Restore validates a backup document and overwrites every key
// wholesale. An invalid document leaves the store untouched.
func (s *BackupService) Restore(ctx context.Context, raw []byte) error {
	ctx, span := util.StartSpan(ctx, "BackupService.Restore")
	defer span.End()

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("backup document is not valid JSON: %w", store.ErrValidation)
	}
	if err := ValidateBackup(doc); err != nil {
		return err
	}

	// Legacy documents carry creatorInfo instead of companyInfo.
	if _, ok := doc[store.KeyCompanyInfo]; !ok {
		doc[store.KeyCompanyInfo] = doc["creatorInfo"]
	}

	if err := s.store.Restore(ctx, doc); err != nil {
		return err
	}
	s.logger.Info("Backup restored", zap.Int("keys", len(doc)))
	return nil
}
