package msgraph_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/orometrisi/internal/msgraph"
)

// fakeDrive serves a single in-memory drive under /me/drive/root:.
type fakeDrive struct {
	files   map[string][]byte
	lastCT  string
	lastPut string
}

func (f *fakeDrive) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const prefix = "/v1.0/me/drive/root:"
	p := strings.TrimPrefix(r.URL.Path, prefix)
	content := strings.HasSuffix(p, ":/content")
	p = strings.TrimSuffix(p, ":/content")

	switch {
	case r.Method == http.MethodGet && content:
		data, ok := f.files[p]
		if !ok {
			http.Error(w, `{"error":{"code":"itemNotFound"}}`, http.StatusNotFound)
			return
		}
		_, _ = w.Write(data)
	case r.Method == http.MethodGet:
		data, ok := f.files[p]
		if !ok {
			http.Error(w, `{"error":{"code":"itemNotFound"}}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"01ABC","name":"`+filepath.Base(p)+`","size":`+strconv.Itoa(len(data))+`,"lastModifiedDateTime":"2025-08-01T09:30:00Z"}`)
	case r.Method == http.MethodPut && content:
		data, _ := io.ReadAll(r.Body)
		f.files[p] = data
		f.lastCT = r.Header.Get("Content-Type")
		f.lastPut = p
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"01NEW","name":"`+filepath.Base(p)+`","webUrl":"https://onedrive.example/x"}`)
	default:
		http.Error(w, "unexpected", http.StatusBadRequest)
	}
}

func newClient(t *testing.T, drive *fakeDrive) *msgraph.Client {
	t.Helper()
	srv := httptest.NewServer(drive)
	t.Cleanup(srv.Close)
	return msgraph.NewClientWithHTTP(srv.Client(), srv.URL+"/v1.0/")
}

func TestRemotePath(t *testing.T) {
	cases := []struct{ folder, name, want string }{
		{"", "payroll.xlsx", "/payroll.xlsx"},
		{"Payroll/2025", "payroll.xlsx", "/Payroll/2025/payroll.xlsx"},
		{"/Payroll/", "July/week1.xlsx", "/Payroll/July/week1.xlsx"},
		{"Payroll", "/Other/payroll.xlsx", "/Other/payroll.xlsx"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, msgraph.RemotePath(c.folder, c.name), "RemotePath(%q, %q)", c.folder, c.name)
	}
}

func TestFetch(t *testing.T) {
	drive := &fakeDrive{files: map[string][]byte{
		"/Payroll/ΙΟΥΛΙΟΣ.xlsx": []byte("PK-fake-workbook"),
	}}
	c := newClient(t, drive)
	local := filepath.Join(t.TempDir(), "july.xlsx")

	res, err := msgraph.Fetch(context.Background(), c, "/Payroll/ΙΟΥΛΙΟΣ.xlsx", local)
	require.NoError(t, err)
	assert.Equal(t, 16, res.Bytes)
	assert.Equal(t, local, res.Local)

	data, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Equal(t, "PK-fake-workbook", string(data))

	entries, err := os.ReadDir(filepath.Dir(local))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFetchNotFound(t *testing.T) {
	c := newClient(t, &fakeDrive{files: map[string][]byte{}})
	local := filepath.Join(t.TempDir(), "x.xlsx")

	_, err := msgraph.Fetch(context.Background(), c, "/missing.xlsx", local)
	require.Error(t, err)
	assert.True(t, errors.Is(err, msgraph.ErrNotFound))
	_, statErr := os.Stat(local)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPublish(t *testing.T) {
	drive := &fakeDrive{files: map[string][]byte{}}
	c := newClient(t, drive)
	local := filepath.Join(t.TempDir(), "Payroll_Calculated.xlsx")
	require.NoError(t, os.WriteFile(local, []byte("calculated"), 0o600))

	res, err := msgraph.Publish(context.Background(), c, local, "/Payroll/Payroll_Calculated.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "https://onedrive.example/x", res.WebURL)
	assert.Equal(t, "/Payroll/Payroll_Calculated.xlsx", drive.lastPut)
	assert.Equal(t, "calculated", string(drive.files["/Payroll/Payroll_Calculated.xlsx"]))
	assert.Contains(t, drive.lastCT, "spreadsheetml")
}

func TestUploadTooLarge(t *testing.T) {
	c := newClient(t, &fakeDrive{files: map[string][]byte{}})
	_, err := c.Upload(context.Background(), "/big.xlsx", make([]byte, msgraph.MaxSimpleUpload+1))
	assert.ErrorIs(t, err, msgraph.ErrTooLarge)
}

func TestItem(t *testing.T) {
	drive := &fakeDrive{files: map[string][]byte{"/week.xlsx": []byte("1234")}}
	c := newClient(t, drive)

	item, err := c.Item(context.Background(), "week.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "01ABC", item.ID)
	assert.Equal(t, "week.xlsx", item.Name)
	assert.Equal(t, int64(4), item.Size)
	assert.Equal(t, 2025, item.LastModified.Year())
}
