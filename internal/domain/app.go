package domain

import "strconv"

// Source labels written into the Source column.
const (
	SourcePlayStore = "Google Play Store"
	SourceAppStore  = "App Store"
)

// Columns is the unified column order shared by both output datasets.
var Columns = []string{
	"Name",
	"Category",
	"Rating",
	"Review_Count",
	"Installs",
	"Type",
	"Price",
	"Content_Rating",
	"Size_Bytes",
	"Required_Android_Version",
	"Last_Updated_Date",
	"Avg_Sentiment_Polarity",
	"Source",
}

// App is one row of the unified schema. Nil pointers are nulls.
type App struct {
	Name                   string
	Category               string // "" when unknown
	Rating                 *float64
	ReviewCount            *int64
	Installs               *int64
	Type                   *string
	Price                  *float64
	ContentRating          *string
	SizeBytes              *float64
	RequiredAndroidVersion *string
	LastUpdatedDate        *string
	AvgSentimentPolarity   *float64
	Source                 string
}

// Row renders the app in Columns order; nulls become empty cells.
func (a App) Row() []string {
	return []string{
		a.Name,
		a.Category,
		fmtFloat(a.Rating),
		fmtInt(a.ReviewCount),
		fmtInt(a.Installs),
		fmtStr(a.Type),
		fmtFloat(a.Price),
		fmtStr(a.ContentRating),
		fmtFloat(a.SizeBytes),
		fmtStr(a.RequiredAndroidVersion),
		fmtStr(a.LastUpdatedDate),
		fmtFloat(a.AvgSentimentPolarity),
		a.Source,
	}
}

func fmtFloat(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func fmtInt(p *int64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatInt(*p, 10)
}

func fmtStr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
