package domain

// ReportType selects which report variant the composer renders.
type ReportType string

const (
	ReportTypeInternal ReportType = "internal"
	ReportTypeClient   ReportType = "client"
	ReportTypeA        ReportType = "A"
	ReportTypeB        ReportType = "B"
)

// DisplayUnit selects the granularity of the rendered report.
type DisplayUnit string

const (
	DisplayUnitCampaign DisplayUnit = "campaign"
	DisplayUnitAd       DisplayUnit = "ad"
)

// OutputFormat selects the composer output mode.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatHTML OutputFormat = "html"
)

// Command is the validated form of a one-line structured query.
// Dates are normalized to YYYY-MM-DD and the range is inclusive.
type Command struct {
	Keyword     string
	StartDate   string
	EndDate     string
	Platforms   []Platform
	ReportType  ReportType
	DisplayUnit DisplayUnit
	CustomTitle string
	Errors      []string
	IsValid     bool
}

// MaxQueryDays is the longest allowed query window, inclusive of both ends.
const MaxQueryDays = 90

// MaxTitleLength is the longest accepted custom report title, in runes.
const MaxTitleLength = 100
