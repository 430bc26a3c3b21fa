// Package command parses the one-line structured query language used by the
// search tools. Tokens are whitespace-separated key:value pairs with Korean
// or English keys; the title key consumes tokens until the next key.
package command

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/adscope/unified-ads-mcp/internal/domain"
)

const (
	errKeywordRequired = "키워드 필드는 필수입니다 (키워드: 형태로 빈 값 허용)"
	errDateFormat      = "날짜 형식이 올바르지 않습니다: %s"
	errDateOrder       = "시작일이 종료일보다 늦을 수 없습니다"
	errDateSpan        = "조회 기간이 90일을 초과할 수 없습니다"
	errUnknownPlatform = "지원하지 않는 매체입니다: %s"
	errNoPlatform      = "매체를 최소 하나 이상 지정해야 합니다"
	errUnknownReport   = "지원하지 않는 리포트 타입입니다: %s"
	errUnknownUnit     = "지원하지 않는 단위입니다: %s"
	errTitleTooLong    = "제목은 100자를 초과할 수 없습니다"
)

// platformAliases maps localized and English names to canonical codes.
var platformAliases = map[string]domain.Platform{
	"페이스북":        domain.PlatformFacebook,
	"메타":          domain.PlatformFacebook,
	"facebook":    domain.PlatformFacebook,
	"meta":        domain.PlatformFacebook,
	"fb":          domain.PlatformFacebook,
	"구글":          domain.PlatformGoogle,
	"google":      domain.PlatformGoogle,
	"틱톡":          domain.PlatformTikTok,
	"tiktok":      domain.PlatformTikTok,
	"마켓":          domain.PlatformMarketplace,
	"마켓플레이스":      domain.PlatformMarketplace,
	"marketplace": domain.PlatformMarketplace,
}

var keyPattern = regexp.MustCompile(`^(키워드|keyword|날짜|date|매체|platforms|media|리포트|report|타입|type|단위|unit|제목|title):`)

var (
	datePattern      = regexp.MustCompile(`^(\d{8})$`)
	dateRangePattern = regexp.MustCompile(`^(\d{8})-(\d{8})$`)
	lastDaysPattern  = regexp.MustCompile(`^(\d+)(일|day)$`)
)

// Parse turns a free-form one-line query into a validated Command.
// now anchors the relative date expressions (어제, 오늘, N일).
func Parse(line string, now time.Time) *domain.Command {
	cmd := &domain.Command{
		Platforms:   append([]domain.Platform(nil), domain.AllPlatforms...),
		ReportType:  domain.ReportTypeInternal,
		DisplayUnit: domain.DisplayUnitAd,
	}

	yesterday := now.AddDate(0, 0, -1)
	cmd.StartDate = yesterday.Format(time.DateOnly)
	cmd.EndDate = yesterday.Format(time.DateOnly)

	fields := parseFields(line)

	if _, ok := fields["keyword"]; !ok {
		cmd.Errors = append(cmd.Errors, errKeywordRequired)
	} else {
		cmd.Keyword = strings.TrimSpace(fields["keyword"])
	}

	if v, ok := fields["date"]; ok {
		parseDateField(cmd, v, now)
	}

	if v, ok := fields["platforms"]; ok {
		parsePlatformsField(cmd, v)
	}

	if v, ok := fields["report"]; ok {
		parseReportField(cmd, v)
	}

	if v, ok := fields["unit"]; ok {
		parseUnitField(cmd, v)
	}

	if v, ok := fields["title"]; ok {
		parseTitleField(cmd, v)
	}

	validateDates(cmd)

	cmd.IsValid = len(cmd.Errors) == 0
	return cmd
}

// canonicalKeys collapses the localized key spellings.
var canonicalKeys = map[string]string{
	"키워드": "keyword", "keyword": "keyword",
	"날짜": "date", "date": "date",
	"매체": "platforms", "platforms": "platforms", "media": "platforms",
	"리포트": "report", "report": "report",
	"타입": "report", "type": "report",
	"단위": "unit", "unit": "unit",
	"제목": "title", "title": "title",
}

// parseFields tokenizes the line. Every recognized key:value token starts a
// field; the title field keeps consuming tokens until the next key.
func parseFields(line string) map[string]string {
	fields := make(map[string]string)

	var titleParts []string
	inTitle := false

	for _, token := range strings.Fields(line) {
		match := keyPattern.FindStringSubmatch(token)
		if match == nil {
			if inTitle {
				titleParts = append(titleParts, token)
			}
			continue
		}

		key := canonicalKeys[match[1]]
		value := token[len(match[0]):]

		if key == "title" {
			inTitle = true
			titleParts = titleParts[:0]
			if value != "" {
				titleParts = append(titleParts, value)
			}
			continue
		}

		inTitle = false
		fields[key] = value
	}

	if inTitle || len(titleParts) > 0 {
		fields["title"] = strings.Join(titleParts, " ")
	}

	return fields
}

func parseDateField(cmd *domain.Command, value string, now time.Time) {
	yesterday := now.AddDate(0, 0, -1)

	switch {
	case value == "어제" || value == "yesterday":
		cmd.StartDate = yesterday.Format(time.DateOnly)
		cmd.EndDate = cmd.StartDate

	case value == "오늘" || value == "today":
		cmd.StartDate = now.Format(time.DateOnly)
		cmd.EndDate = cmd.StartDate

	case dateRangePattern.MatchString(value):
		m := dateRangePattern.FindStringSubmatch(value)
		start, err1 := time.Parse("20060102", m[1])
		end, err2 := time.Parse("20060102", m[2])
		if err1 != nil || err2 != nil {
			cmd.Errors = append(cmd.Errors, fmt.Sprintf(errDateFormat, value))
			return
		}
		cmd.StartDate = start.Format(time.DateOnly)
		cmd.EndDate = end.Format(time.DateOnly)

	case datePattern.MatchString(value):
		day, err := time.Parse("20060102", value)
		if err != nil {
			cmd.Errors = append(cmd.Errors, fmt.Sprintf(errDateFormat, value))
			return
		}
		cmd.StartDate = day.Format(time.DateOnly)
		cmd.EndDate = cmd.StartDate

	case lastDaysPattern.MatchString(value):
		m := lastDaysPattern.FindStringSubmatch(value)
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			cmd.Errors = append(cmd.Errors, fmt.Sprintf(errDateFormat, value))
			return
		}
		// Rolling window of the last n days ending yesterday.
		cmd.EndDate = yesterday.Format(time.DateOnly)
		cmd.StartDate = yesterday.AddDate(0, 0, -(n - 1)).Format(time.DateOnly)

	default:
		cmd.Errors = append(cmd.Errors, fmt.Sprintf(errDateFormat, value))
	}
}

func parsePlatformsField(cmd *domain.Command, value string) {
	if value == "" {
		cmd.Errors = append(cmd.Errors, errNoPlatform)
		return
	}

	seen := make(map[domain.Platform]bool)
	platforms := make([]domain.Platform, 0, 4)

	for _, raw := range strings.Split(value, ",") {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}

		if name == "all" || name == "전체" {
			platforms = platforms[:0]
			platforms = append(platforms, domain.AllPlatforms...)
			seen = make(map[domain.Platform]bool)
			for _, p := range platforms {
				seen[p] = true
			}
			continue
		}

		platform, ok := platformAliases[name]
		if !ok {
			cmd.Errors = append(cmd.Errors, fmt.Sprintf(errUnknownPlatform, raw))
			continue
		}
		if !seen[platform] {
			seen[platform] = true
			platforms = append(platforms, platform)
		}
	}

	if len(platforms) == 0 && len(cmd.Errors) == 0 {
		cmd.Errors = append(cmd.Errors, errNoPlatform)
		return
	}

	cmd.Platforms = platforms
}

func parseReportField(cmd *domain.Command, value string) {
	switch strings.ToLower(value) {
	case "client", "광고주":
		cmd.ReportType = domain.ReportTypeClient
	case "internal", "내부":
		cmd.ReportType = domain.ReportTypeInternal
	case "a":
		cmd.ReportType = domain.ReportTypeA
	case "b":
		cmd.ReportType = domain.ReportTypeB
	default:
		cmd.Errors = append(cmd.Errors, fmt.Sprintf(errUnknownReport, value))
	}
}

func parseUnitField(cmd *domain.Command, value string) {
	switch strings.ToLower(value) {
	case "campaign", "캠페인":
		cmd.DisplayUnit = domain.DisplayUnitCampaign
	case "ad", "광고":
		cmd.DisplayUnit = domain.DisplayUnitAd
	default:
		cmd.Errors = append(cmd.Errors, fmt.Sprintf(errUnknownUnit, value))
	}
}

func parseTitleField(cmd *domain.Command, value string) {
	title := strings.TrimSpace(value)
	if len([]rune(title)) > domain.MaxTitleLength {
		cmd.Errors = append(cmd.Errors, errTitleTooLong)
		return
	}

	// Escaped at parse time so no raw user input reaches the HTML composer.
	cmd.CustomTitle = html.EscapeString(title)
}

func validateDates(cmd *domain.Command) {
	start, err1 := time.Parse(time.DateOnly, cmd.StartDate)
	end, err2 := time.Parse(time.DateOnly, cmd.EndDate)
	if err1 != nil || err2 != nil {
		return
	}

	if start.After(end) {
		cmd.Errors = append(cmd.Errors, errDateOrder)
		return
	}

	if int(end.Sub(start).Hours()/24)+1 > domain.MaxQueryDays {
		cmd.Errors = append(cmd.Errors, errDateSpan)
	}
}
