package tools

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/adscope/unified-ads-mcp/internal/config"
	"github.com/adscope/unified-ads-mcp/internal/domain"
	"github.com/adscope/unified-ads-mcp/internal/usecases/exporting"
	"github.com/adscope/unified-ads-mcp/internal/usecases/querying"
	"github.com/adscope/unified-ads-mcp/internal/usecases/reporting"
)

// fakeQuerier echoes the parsed command back as an empty result and records
// it for inspection.
type fakeQuerier struct {
	lastCommand *domain.Command
}

func (q *fakeQuerier) Run(_ context.Context, command *domain.Command) *querying.Result {
	q.lastCommand = command
	return &querying.Result{
		Command: command,
		Platforms: []querying.PlatformResult{
			{Platform: domain.PlatformFacebook},
		},
		GeneratedAt: time.Date(2025, 7, 21, 14, 30, 0, 0, time.UTC),
	}
}

func testDeps(t *testing.T) (Dependencies, *fakeQuerier) {
	t.Helper()

	cfg := &config.Config{
		Server: config.Server{Host: "localhost", Port: "8080"},
		Report: config.Report{
			TempDir:        t.TempDir(),
			DownloadSecret: "test-download-secret",
			LinkTTLMinutes: 30,
		},
	}

	querier := &fakeQuerier{}
	deps := Dependencies{
		Cfg:      cfg,
		Querier:  querier,
		Composer: reporting.NewService(),
		Exporter: exporting.NewService(cfg),
		Now: func() time.Time {
			return time.Date(2025, 7, 21, 14, 30, 0, 0, time.UTC)
		},
	}
	return deps, querier
}

func toolNames(registry *Registry) []string {
	names := make([]string, 0)
	for _, definition := range registry.List() {
		names = append(names, definition.Name)
	}
	return names
}

func TestNewToolSetWithoutIntegrators(t *testing.T) {
	deps, _ := testDeps(t)

	registry := NewToolSet(deps)

	// Admin tools stay unregistered when no platform credentials exist.
	assert.Equal(t, []string{
		"structured_campaign_search",
		"search_help",
		"test_html_output",
		"generate_html_file",
	}, toolNames(registry))
}

func TestStructuredCampaignSearchText(t *testing.T) {
	deps, querier := testDeps(t)
	registry := NewToolSet(deps)

	out, err := registry.Call(context.Background(), "structured_campaign_search", map[string]any{
		"command": "키워드:여름 날짜:어제 매체:facebook 리포트:client",
	})
	assert.NoError(t, err)

	assert.Contains(t, out, "📊 광고 성과 리포트")
	assert.NotContains(t, out, "<!DOCTYPE html>")

	assert.Equal(t, "여름", querier.lastCommand.Keyword)
	assert.Equal(t, "2025-07-20", querier.lastCommand.StartDate)
	assert.Equal(t, "2025-07-20", querier.lastCommand.EndDate)
	assert.Equal(t, domain.ReportTypeClient, querier.lastCommand.ReportType)
	assert.Equal(t, []domain.Platform{domain.PlatformFacebook}, querier.lastCommand.Platforms)
}

func TestStructuredCampaignSearchHTMLFormat(t *testing.T) {
	deps, _ := testDeps(t)
	registry := NewToolSet(deps)

	out, err := registry.Call(context.Background(), "structured_campaign_search", map[string]any{
		"command":       "키워드: 날짜:어제 매체:all",
		"output_format": "html",
	})
	assert.NoError(t, err)
	assert.Contains(t, out, "<!DOCTYPE html>")
}

func TestStructuredCampaignSearchInvalidCommand(t *testing.T) {
	deps, _ := testDeps(t)
	registry := NewToolSet(deps)

	_, err := registry.Call(context.Background(), "structured_campaign_search", map[string]any{
		"command": "날짜:어제 매체:화성",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "명령이 올바르지 않습니다")
	assert.Contains(t, err.Error(), "키워드 필드는 필수입니다")
	assert.Contains(t, err.Error(), "지원하지 않는 매체입니다")
}

func TestSearchHelp(t *testing.T) {
	deps, _ := testDeps(t)
	registry := NewToolSet(deps)

	out, err := registry.Call(context.Background(), "search_help", nil)
	assert.NoError(t, err)
	assert.Contains(t, out, "구조화 캠페인 검색 명령 문법")
	assert.Contains(t, out, "날짜:20250701-20250707")
}

func TestTestHTMLOutputIsStable(t *testing.T) {
	deps, _ := testDeps(t)
	registry := NewToolSet(deps)

	first, err := registry.Call(context.Background(), "test_html_output", nil)
	assert.NoError(t, err)
	second, err := registry.Call(context.Background(), "test_html_output", nil)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "샘플 캠페인")
	assert.Contains(t, first, "생성 시각: 2025-07-03 09:00:00")
}

func TestGenerateHTMLFile(t *testing.T) {
	deps, _ := testDeps(t)
	registry := NewToolSet(deps)

	out, err := registry.Call(context.Background(), "generate_html_file", map[string]any{
		"command":  "키워드: 날짜:어제 매체:all",
		"filename": "주간 리포트",
	})
	assert.NoError(t, err)

	assert.Contains(t, out, "리포트가 생성되었습니다.")
	assert.Contains(t, out, "다운로드: http://localhost:8080/download/")
	assert.Contains(t, out, "만료: ")

	// The signed link resolves back to the stored document.
	line := ""
	for _, l := range strings.Split(out, "\n") {
		if strings.HasPrefix(l, "다운로드: ") {
			line = l
		}
	}
	token := line[strings.LastIndex(line, "/")+1:]

	path, err := deps.Exporter.ResolvePath(token)
	assert.NoError(t, err)
	assert.NotEmpty(t, path)
}
