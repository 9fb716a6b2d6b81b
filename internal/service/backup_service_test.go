package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"catering-service/internal/models"
	"catering-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupFilenameFormat(t *testing.T) {
	ts := time.Date(2026, 9, 1, 14, 5, 9, 0, time.UTC)
	assert.Equal(t, "backup-20260901-140509.json", BackupFilename(ts))
}

func TestValidateBackup(t *testing.T) {
	valid := map[string]json.RawMessage{
		store.KeyUsers:       json.RawMessage(`[]`),
		store.KeyCompanyInfo: json.RawMessage(`{}`),
		store.KeyTheme:       json.RawMessage(`"dark"`),
	}
	assert.NoError(t, ValidateBackup(valid))

	// legacy documents carry creatorInfo instead of companyInfo
	legacy := map[string]json.RawMessage{
		store.KeyUsers: json.RawMessage(`[]`),
		"creatorInfo":  json.RawMessage(`{}`),
		store.KeyTheme: json.RawMessage(`"dark"`),
	}
	assert.NoError(t, ValidateBackup(legacy))

	for _, missing := range []string{store.KeyUsers, store.KeyCompanyInfo, store.KeyTheme} {
		doc := map[string]json.RawMessage{}
		for k, v := range valid {
			if k != missing {
				doc[k] = v
			}
		}
		assert.ErrorIs(t, ValidateBackup(doc), store.ErrValidation, "missing %s", missing)
	}
}

func TestExportRecordsHistory(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := NewBackupService(st)

	_, err := st.AddUser(ctx, models.User{Name: "Ana", Role: models.RoleAdmin})
	require.NoError(t, err)
	require.NoError(t, st.SetTheme(ctx, "dark"))

	backup, err := svc.Export(ctx, "u-admin")
	require.NoError(t, err)
	assert.Contains(t, backup.Filename, "backup-")
	assert.Contains(t, backup.Document, store.KeyUsers)

	history := st.BackupHistory()
	require.Len(t, history, 1)
	assert.Equal(t, backup.Filename, history[0].Filename)
	assert.Equal(t, "u-admin", history[0].CreatedBy)
}

func TestRestoreRejectsInvalidDocument(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := NewBackupService(st)

	require.NoError(t, st.SetTheme(ctx, "dark"))

	assert.ErrorIs(t, svc.Restore(ctx, []byte(`not json`)), store.ErrValidation)
	assert.ErrorIs(t, svc.Restore(ctx, []byte(`{"theme":"light"}`)), store.ErrValidation)

	// the store stayed untouched
	assert.Equal(t, "dark", st.Theme())
}

func TestRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := NewBackupService(st)

	user, err := st.AddUser(ctx, models.User{Name: "Ana", Email: "ana@school.test", Role: models.RoleAdmin})
	require.NoError(t, err)
	require.NoError(t, st.SetCompanyInfo(ctx, models.CompanyInfo{Name: "Escuela de Cocina"}))
	require.NoError(t, st.SetTheme(ctx, "dark"))

	backup, err := svc.Export(ctx, user.ID)
	require.NoError(t, err)
	raw, err := json.Marshal(backup.Document)
	require.NoError(t, err)

	// wipe everything after the export
	require.NoError(t, st.DeleteUser(ctx, user.ID))
	require.NoError(t, st.SetTheme(ctx, "light"))

	require.NoError(t, svc.Restore(ctx, raw))
	got, err := st.UserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, "dark", st.Theme())
	assert.Equal(t, "Escuela de Cocina", st.CompanyInfo().Name)
}

func TestRestoreAcceptsLegacyCreatorInfo(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := NewBackupService(st)

	doc := map[string]json.RawMessage{
		store.KeyUsers: json.RawMessage(`[{"id":"u1","name":"Ana","role":"admin"}]`),
		"creatorInfo":  json.RawMessage(`{"name":"Escuela Antigua"}`),
		store.KeyTheme: json.RawMessage(`"light"`),
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	require.NoError(t, svc.Restore(ctx, raw))
	assert.Equal(t, "Escuela Antigua", st.CompanyInfo().Name)
	assert.Equal(t, "light", st.Theme())
}
