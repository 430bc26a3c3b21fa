package exporting

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/adscope/unified-ads-mcp/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Server: config.Server{Host: "localhost", Port: "8080"},
		Report: config.Report{
			TempDir:        t.TempDir(),
			DownloadSecret: "test-download-secret",
			LinkTTLMinutes: 30,
		},
	}
}

func tokenOf(t *testing.T, export *Export) string {
	t.Helper()

	idx := strings.LastIndex(export.DownloadURL, "/download/")
	assert.NotEqual(t, -1, idx)
	return export.DownloadURL[idx+len("/download/"):]
}

func TestSaveReportAndResolve(t *testing.T) {
	cfg := testConfig(t)
	service := NewService(cfg)

	export, err := service.SaveReport("<html>report</html>", "주간 리포트")
	assert.NoError(t, err)

	assert.True(t, strings.HasPrefix(export.FileName, "주간리포트-"))
	assert.True(t, strings.HasSuffix(export.FileName, ".html"))
	assert.True(t, strings.HasPrefix(export.DownloadURL, "http://localhost:8080/download/"))
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), export.ExpiresAt, 5*time.Second)

	path, err := service.ResolvePath(tokenOf(t, export))
	assert.NoError(t, err)

	content, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "<html>report</html>", string(content))
}

func TestSaveReportNamesAreCollisionFree(t *testing.T) {
	service := NewService(testConfig(t))

	first, err := service.SaveReport("a", "report")
	assert.NoError(t, err)
	second, err := service.SaveReport("b", "report")
	assert.NoError(t, err)

	assert.NotEqual(t, first.FileName, second.FileName)
}

func TestSaveReportUsesExternalURL(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.ExternalURL = "https://ads.example.com/"
	service := NewService(cfg)

	export, err := service.SaveReport("x", "")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(export.DownloadURL, "https://ads.example.com/download/"))
	assert.True(t, strings.HasPrefix(export.FileName, "report-"))
}

func TestResolvePathRejectsGarbage(t *testing.T) {
	service := NewService(testConfig(t))

	_, err := service.ResolvePath("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolvePathRejectsForeignSignature(t *testing.T) {
	cfg := testConfig(t)
	service := NewService(cfg)

	foreign := testConfig(t)
	foreign.Report.DownloadSecret = "some-other-secret"
	foreign.Report.TempDir = cfg.Report.TempDir

	export, err := NewService(foreign).SaveReport("x", "report")
	assert.NoError(t, err)

	_, err = service.ResolvePath(tokenOf(t, export))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolvePathRejectsExpiredToken(t *testing.T) {
	cfg := testConfig(t)

	stale := NewService(cfg)
	stale.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	export, err := stale.SaveReport("x", "report")
	assert.NoError(t, err)

	_, err = NewService(cfg).ResolvePath(tokenOf(t, export))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolvePathRejectsRemovedFile(t *testing.T) {
	cfg := testConfig(t)
	service := NewService(cfg)

	export, err := service.SaveReport("x", "report")
	assert.NoError(t, err)

	assert.NoError(t, os.Remove(filepath.Join(cfg.Report.TempDir, export.FileName)))

	_, err = service.ResolvePath(tokenOf(t, export))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCleanupExpired(t *testing.T) {
	cfg := testConfig(t)
	service := NewService(cfg)

	oldPath := filepath.Join(cfg.Report.TempDir, "old-report.html")
	freshPath := filepath.Join(cfg.Report.TempDir, "fresh-report.html")
	otherPath := filepath.Join(cfg.Report.TempDir, "notes.txt")

	assert.NoError(t, os.WriteFile(oldPath, []byte("old"), 0o644))
	assert.NoError(t, os.WriteFile(freshPath, []byte("fresh"), 0o644))
	assert.NoError(t, os.WriteFile(otherPath, []byte("keep"), 0o644))

	expired := time.Now().Add(-2 * time.Hour)
	assert.NoError(t, os.Chtimes(oldPath, expired, expired))
	assert.NoError(t, os.Chtimes(otherPath, expired, expired))

	assert.NoError(t, service.CleanupExpired())

	_, err := os.Stat(oldPath)
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(freshPath)
	assert.NoError(t, err)

	// Only report files are subject to cleanup.
	_, err = os.Stat(otherPath)
	assert.NoError(t, err)
}

func TestCleanupExpiredMissingDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.Report.TempDir = filepath.Join(cfg.Report.TempDir, "never-created")

	assert.NoError(t, NewService(cfg).CleanupExpired())
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "ascii kept", in: "weekly-report_7", want: "weekly-report_7"},
		{name: "html suffix stripped", in: "weekly.html", want: "weekly"},
		{name: "hangul kept", in: "주간 리포트", want: "주간리포트"},
		{name: "path separators dropped", in: "../../etc/passwd", want: "etcpasswd"},
		{name: "empty", in: "  ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeName(tt.in))
		})
	}
}
