// Package exporting persists generated HTML reports to a temp directory and
// hands out time-limited signed download links.
package exporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/adscope/unified-ads-mcp/internal/config"
)

// ErrInvalidToken covers expired, malformed or foreign download tokens.
var ErrInvalidToken = errors.New("invalid or expired download token")

// Export is the outcome of persisting one report.
type Export struct {
	FileName    string
	DownloadURL string
	ExpiresAt   time.Time
}

type Exporter interface {
	SaveReport(content, requestedName string) (*Export, error)
	ResolvePath(token string) (string, error)
	CleanupExpired() error
}

type Service struct {
	cfg *config.Config
	now func() time.Time
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg: cfg,
		now: time.Now,
	}
}

// SaveReport writes the document into the temp directory under a
// collision-free name and returns a link valid for the configured TTL.
// Regenerating re-signs a fresh token.
func (s *Service) SaveReport(content, requestedName string) (*Export, error) {
	if err := os.MkdirAll(s.cfg.Report.TempDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating report directory")
	}

	suffix, err := gonanoid.New(10)
	if err != nil {
		return nil, errors.Wrap(err, "generating file name")
	}

	base := sanitizeName(requestedName)
	if base == "" {
		base = "report"
	}
	fileName := fmt.Sprintf("%s-%s.html", base, suffix)

	path := filepath.Join(s.cfg.Report.TempDir, fileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, errors.Wrap(err, "writing report file")
	}

	expiresAt := s.now().Add(s.linkTTL())

	token, err := s.signToken(fileName, expiresAt)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"file":       fileName,
		"expires_at": expiresAt.Format(time.RFC3339),
	}).Info("report exported")

	return &Export{
		FileName:    fileName,
		DownloadURL: fmt.Sprintf("%s/download/%s", s.baseURL(), token),
		ExpiresAt:   expiresAt,
	}, nil
}

// ResolvePath validates a download token and returns the absolute path of
// the file it names.
func (s *Service) ResolvePath(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.Report.DownloadSecret), nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}

	fileName, _ := claims["file"].(string)
	if fileName == "" || fileName != filepath.Base(fileName) {
		return "", ErrInvalidToken
	}

	path := filepath.Join(s.cfg.Report.TempDir, fileName)
	if _, err := os.Stat(path); err != nil {
		return "", ErrInvalidToken
	}

	return path, nil
}

// CleanupExpired removes report files past the link TTL, judged by mtime.
func (s *Service) CleanupExpired() error {
	entries, err := os.ReadDir(s.cfg.Report.TempDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "reading report directory")
	}

	cutoff := s.now().Add(-s.linkTTL())
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.cfg.Report.TempDir, entry.Name())); err != nil {
				logrus.WithError(err).WithField("file", entry.Name()).
					Warn("failed to remove expired report")
				continue
			}
			removed++
		}
	}

	if removed > 0 {
		logrus.WithField("removed", removed).Info("expired reports cleaned up")
	}
	return nil
}

func (s *Service) signToken(fileName string, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"file": fileName,
		"exp":  expiresAt.Unix(),
		"iat":  s.now().Unix(),
	})

	signed, err := token.SignedString([]byte(s.cfg.Report.DownloadSecret))
	if err != nil {
		return "", errors.Wrap(err, "signing download token")
	}
	return signed, nil
}

func (s *Service) linkTTL() time.Duration {
	minutes := s.cfg.Report.LinkTTLMinutes
	if minutes <= 0 {
		minutes = 30
	}
	return time.Duration(minutes) * time.Minute
}

// baseURL picks the advertised download origin: the external URL when the
// process runs behind a remote transport, the bound address otherwise.
func (s *Service) baseURL() string {
	if s.cfg.Server.ExternalURL != "" {
		return strings.TrimRight(s.cfg.Server.ExternalURL, "/")
	}
	return fmt.Sprintf("http://%s:%s", s.cfg.Server.Host, s.cfg.Server.Port)
}

// sanitizeName keeps a requested file name safe for the filesystem and the
// download URL.
func sanitizeName(name string) string {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".html")

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			// Hangul and other word characters survive, path separators don't.
			if r > 127 && r != '/' && r != '\\' {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
