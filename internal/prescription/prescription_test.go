package prescription

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xwebp "golang.org/x/image/webp"

	"github.com/BruksfildServices01/healthconnect-api/internal/audit"
	domain "github.com/BruksfildServices01/healthconnect-api/internal/domain/prescription"
	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/infra/repository"
	"github.com/BruksfildServices01/healthconnect-api/internal/timezone"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 7 {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// pngHeader returns a grayscale PNG that stops after IHDR, which is all
// DecodeConfig reads.
func pngHeader(w, h uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8] = 8

	chunk := append([]byte("IHDR"), ihdr...)
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

var pdf = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")

func TestNormalizeDownscalesImages(t *testing.T) {
	out, err := Normalize(pngBytes(t, 3000, 1200))
	require.NoError(t, err)
	assert.Equal(t, "image/webp", out.ContentType)
	assert.Equal(t, "webp", out.Ext)

	cfg, err := xwebp.DecodeConfig(bytes.NewReader(out.Body))
	require.NoError(t, err)
	assert.Equal(t, MaxImageEdge, cfg.Width)
	assert.Equal(t, 800, cfg.Height)
}

func TestNormalizeKeepsSmallImageSize(t *testing.T) {
	out, err := Normalize(pngBytes(t, 40, 60))
	require.NoError(t, err)

	cfg, err := xwebp.DecodeConfig(bytes.NewReader(out.Body))
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, 60, cfg.Height)
}

func TestNormalizePassesPDF(t *testing.T) {
	out, err := Normalize(pdf)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", out.ContentType)
	assert.Equal(t, pdf, out.Body)
}

func TestNormalizeRejects(t *testing.T) {
	_, err := Normalize([]byte("just some text"))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeUnsupportedFileType))

	_, err = Normalize(make([]byte, MaxUploadSize+1))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeFileTooLarge))
}

func TestNormalizeRefusesOversizedDimensions(t *testing.T) {
	bomb := pngHeader(50000, 50000)
	require.Less(t, len(bomb), 64)

	_, err := Normalize(bomb)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeFileTooLarge))

	// within budget the truncated body fails to decode instead
	_, err = Normalize(pngHeader(100, 100))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeUnsupportedFileType))
}

func newService() (*Service, *MemoryStore) {
	store := NewMemoryStore()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := NewService(
		repository.NewPrescriptionMemoryRepository(),
		store,
		audit.Discard{},
		timezone.Fixed(now),
		zerolog.Nop(),
	)
	return svc, store
}

func TestUploadAndReview(t *testing.T) {
	ctx := context.Background()
	svc, store := newService()

	p, err := svc.Upload(ctx, UploadInput{
		UserID:   "u1",
		UserName: "Alice",
		FileName: `C:\scans\rx.PDF`,
		Purpose:  "medicine",
		Data:     pdf,
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPendingReview), p.Status)
	assert.Equal(t, string(domain.PurposeMedicine), p.Purpose)
	assert.Equal(t, "rx.pdf", p.FileName)
	assert.True(t, strings.HasPrefix(p.ObjectKey, "prescriptions/u1/"))

	body, ct, ok := store.Object(p.ObjectKey)
	require.True(t, ok)
	assert.Equal(t, "application/pdf", ct)
	assert.Equal(t, pdf, body)

	approved, err := svc.Approve(ctx, "admin", p.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusApproved), approved.Status)
	require.NotNil(t, approved.ReviewedAt)

	_, err = svc.Reject(ctx, "admin", p.ID)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidStateTransition))
}

func TestUploadRejectsBadPurpose(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Upload(context.Background(), UploadInput{UserID: "u1", Purpose: "Surgery", Data: pdf})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidRequest))
}

func TestDownloadURLOwnership(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	p, err := svc.Upload(ctx, UploadInput{UserID: "u1", FileName: "rx.pdf", Purpose: "Lab Test", Data: pdf})
	require.NoError(t, err)

	url, err := svc.DownloadURL(ctx, "u1", false, p.ID)
	require.NoError(t, err)
	assert.Contains(t, url, p.ObjectKey)

	_, err = svc.DownloadURL(ctx, "u2", false, p.ID)
	assert.True(t, httperr.IsBusiness(err, httperr.CodePrescriptionNotFound))

	_, err = svc.DownloadURL(ctx, "admin", true, p.ID)
	assert.NoError(t, err)
}

func TestLists(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	for _, u := range []string{"u1", "u2", "u1"} {
		_, err := svc.Upload(ctx, UploadInput{UserID: u, Purpose: "Medicine", Data: pdf})
		require.NoError(t, err)
	}

	mine, err := svc.ListMine(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := svc.ListAll(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pending, err := svc.ListAll(ctx, string(domain.StatusPendingReview))
	require.NoError(t, err)
	assert.Len(t, pending, 3)
}
