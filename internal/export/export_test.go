package export

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mawrid/mawrid/internal/suppliers"
)

func strPtr(s string) *string { return &s }

func sampleRows() []suppliers.Supplier {
	return []suppliers.Supplier{
		{
			ID:                    "1",
			CompanyName:           "Nile Foods",
			ResponsiblePersonName: "Mona",
			Address:               "12 Tahrir St",
			Mobile1:               "01012345678",
			Mobile2:               strPtr("01198765432"),
			Email:                 strPtr("sales@nile.eg"),
			Category:              strPtr("Food"),
			City:                  strPtr("Cairo"),
			CreatedAt:             time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:                    "2",
			CompanyName:           "Delta Steel",
			ResponsiblePersonName: "Omar",
			Address:               "Industrial zone",
			Mobile1:               "0123",
		},
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, "en", sampleRows()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetName}, f.GetSheetList())
	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Company name", rows[0][0])
	assert.Equal(t, "Created", rows[0][8])
	assert.Equal(t, []string{
		"Nile Foods", "Mona", "12 Tahrir St", "Cairo", "Food supplies",
		"010-1234-5678", "011-9876-5432", "sales@nile.eg", "09/03/2025",
	}, rows[1])
	assert.Equal(t, "Delta Steel", rows[2][0])
	assert.Equal(t, "-", rows[2][4])
	assert.Equal(t, "0123", rows[2][5])
}

func TestWriteXLSXArabicHeaders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, "ar", nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "اسم الشركة", rows[0][0])
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 5, 0, 0, time.UTC)
	assert.Equal(t, "suppliers-20261016-0905.xlsx", Filename("xlsx", now))
}

func TestPDFClientRenderHTML(t *testing.T) {
	var gotHTML, landscape string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/forms/chromium/convert/html", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("files")
		require.NoError(t, err)
		assert.Equal(t, "index.html", header.Filename)
		raw, _ := io.ReadAll(file)
		gotHTML = string(raw)
		landscape = r.FormValue("landscape")
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.7"))
	}))
	defer srv.Close()

	client := NewPDFClient(srv.URL+"/", time.Second)
	pdf, err := client.RenderHTML(context.Background(), []byte("<h1>hi</h1>"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(pdf))
	assert.Equal(t, "<h1>hi</h1>", gotHTML)
	assert.Equal(t, "true", landscape)
}

func TestPDFClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "chromium crashed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewPDFClient(srv.URL, time.Second).RenderHTML(context.Background(), []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "chromium crashed")

	disabled := NewPDFClient("", 0)
	assert.False(t, disabled.Enabled())
	_, err = disabled.RenderHTML(context.Background(), nil)
	assert.ErrorIs(t, err, ErrPDFDisabled)
	assert.ErrorIs(t, disabled.Ping(context.Background()), ErrPDFDisabled)
}

func TestPDFClientPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	assert.NoError(t, NewPDFClient(srv.URL, time.Second).Ping(context.Background()))
}
