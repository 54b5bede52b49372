package database

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"boorukit/database/data_model"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "archive.db")
}

func TestPostEntryUpsert(t *testing.T) {
	db, err := Open(openTestDB(t))
	require.NoError(t, err)
	defer Close(db)

	entry := &data_model.PostEntry{
		ThumbnailURL: "https://wimg.example.com/thumbnails/1234/thumbnail_abcdef.jpg",
		ContentURL:   "https://wimg.example.com/images/1234/abcdef.jpg",
		FileName:     "abcdef.jpg",
		Tag:          "blue_sky",
		Rating:       "safe",
	}
	entry.Upsert(db)

	found := &data_model.PostEntry{}
	db.Limit(1).Find(found, "thumbnail_url = ?", entry.ThumbnailURL)
	require.Equal(t, entry.ContentURL, found.ContentURL)
	require.Equal(t, "blue_sky", found.Tag)
	require.False(t, found.DlFailed)

	// second upsert with the same key updates instead of inserting
	entry.DlFailed = true
	entry.Upsert(db)

	var count int64
	db.Model(&data_model.PostEntry{}).Count(&count)
	require.EqualValues(t, 1, count)

	db.Limit(1).Find(found, "thumbnail_url = ?", entry.ThumbnailURL)
	require.True(t, found.DlFailed)
}

func TestGetModel(t *testing.T) {
	require.NotNil(t, GetModel("post_entries"))
	require.Nil(t, GetModel("no_such_table"))
}

func TestSaveAsCSV(t *testing.T) {
	db, err := Open(openTestDB(t))
	require.NoError(t, err)
	defer Close(db)

	entry := &data_model.PostEntry{
		ThumbnailURL: "https://wimg.example.com/thumbnails/1/thumbnail_a.jpg",
		ContentURL:   "https://wimg.example.com/images/1/a.jpg",
		FileName:     "a.jpg",
		Tag:          "blue_sky",
	}
	entry.Upsert(db)

	rows, err := db.Model(&data_model.PostEntry{}).Rows()
	require.NoError(t, err)
	defer rows.Close()

	csvPath := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, SaveAsCSV(rows, csvPath))

	file, err := os.Open(csvPath)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Contains(t, records[0], "thumbnail_url")
	require.Contains(t, records[1], "a.jpg")
}
