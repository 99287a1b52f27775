package controllers

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mellynhq/mellyn/internal/app/models"
	"github.com/mellynhq/mellyn/internal/app/models/dto"
	"github.com/mellynhq/mellyn/internal/pkg/apperrors"
)

type fakeSignatureService struct {
	rows  []dto.SignatureRow
	total int64
	err   error
}

func (f *fakeSignatureService) SignAgreement(ctx context.Context, agreementSlug string, userID int64, req *dto.SignAgreementRequest) (*models.Signature, error) {
	return nil, f.err
}

func (f *fakeSignatureService) GetSignatures(ctx context.Context, agreementSlug, query string, page, size int) ([]dto.SignatureRow, int64, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.rows, f.total, nil
}

func (f *fakeSignatureService) GetAllSignatureRows(ctx context.Context, agreementSlug string) ([]dto.SignatureRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func (f *fakeSignatureService) GetSignatureStats(ctx context.Context, agreementSlug string) (*dto.SignatureStats, error) {
	return &dto.SignatureStats{}, f.err
}

func signatureRouter(svc *fakeSignatureService) *gin.Engine {
	router := gin.New()
	ctrl := NewSignatureController(svc)
	router.GET("/agreements/:slug/signatures", ctrl.GetSignatures)
	router.GET("/agreements/:slug/signatures/export", ctrl.ExportSignatures)
	return router
}

func testRows() []dto.SignatureRow {
	signedAt := time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)
	return []dto.SignatureRow{
		{
			Username:       "frodo",
			FirstName:      "Frodo",
			LastName:       "Baggins",
			Email:          "frodo@example.edu",
			DepartmentName: "Geography",
			FacultyName:    "Science",
			SignedAt:       signedAt,
			LicenseCode:    "MAP-0001",
		},
		{
			Username:       "sam",
			FirstName:      "Sam",
			LastName:       "Gamgee",
			Email:          "sam@example.edu",
			DepartmentName: "Botany",
			FacultyName:    "Science",
			SignedAt:       signedAt.Add(time.Hour),
		},
	}
}

func TestExportSignaturesCSV(t *testing.T) {
	router := signatureRouter(&fakeSignatureService{rows: testRows()})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/agreements/maps/signatures/export?format=csv", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Content-Disposition"); !strings.Contains(got, "maps-signatures.csv") {
		t.Errorf("Content-Disposition = %q", got)
	}

	records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header plus 2 rows", len(records))
	}

	wantHeader := []string{"Username", "First name", "Last name", "Email", "Department", "Faculty", "Signed at", "License code"}
	if !reflect.DeepEqual(records[0], wantHeader) {
		t.Errorf("header = %v, want %v", records[0], wantHeader)
	}

	if records[1][0] != "frodo" || records[1][7] != "MAP-0001" {
		t.Errorf("first row = %v", records[1])
	}
	if records[1][6] != "2026-04-02T09:30:00Z" {
		t.Errorf("signed at = %q, want RFC3339", records[1][6])
	}
	// Signature without a code exports an empty cell.
	if records[2][7] != "" {
		t.Errorf("license code = %q, want empty", records[2][7])
	}
}

func TestExportSignaturesXLSX(t *testing.T) {
	router := signatureRouter(&fakeSignatureService{rows: testRows()})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/agreements/maps/signatures/export?format=xlsx", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Content-Type"); !strings.Contains(got, "spreadsheetml") {
		t.Errorf("Content-Type = %q", got)
	}
	// XLSX files are ZIP archives.
	if body := w.Body.Bytes(); len(body) < 4 || body[0] != 'P' || body[1] != 'K' {
		t.Error("export body is not a ZIP archive")
	}
}

func TestExportSignaturesUnknownFormat(t *testing.T) {
	router := signatureRouter(&fakeSignatureService{rows: testRows()})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/agreements/maps/signatures/export?format=pdf", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestExportSignaturesAgreementNotFound(t *testing.T) {
	router := signatureRouter(&fakeSignatureService{err: apperrors.ErrAgreementNotFound})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/agreements/nope/signatures/export", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGetSignaturesPagination(t *testing.T) {
	router := signatureRouter(&fakeSignatureService{rows: testRows(), total: 31})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/agreements/maps/signatures?page=2&size=15", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Data       []dto.SignatureRow  `json:"data"`
		Pagination *dto.PaginationInfo `json:"pagination"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Errorf("rows = %d, want 2", len(resp.Data))
	}
	if resp.Pagination == nil || resp.Pagination.CurrentPage != 2 || resp.Pagination.TotalPages != 3 {
		t.Errorf("pagination = %+v", resp.Pagination)
	}
}
