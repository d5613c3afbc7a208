package adsdomain

// ReportRow é uma linha do relatório da API de anúncios. Os valores numéricos
// chegam como texto e são convertidos pelo integrador.
type ReportRow struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Status          string `json:"status"`
	ParentID        string `json:"parent_id"`
	CampaignType    string `json:"campaign_type"`
	Date            string `json:"date"`
	Spend           string `json:"spend"`
	Clicks          string `json:"clicks"`
	Impressions     string `json:"impressions"`
	Conversions     string `json:"conversions"`
	ConversionValue string `json:"conversion_value"`
}

type ReportResponse struct {
	Data          []ReportRow `json:"data"`
	NextPageToken string      `json:"next_page_token"`
}
