package models

// HTTP request shapes, bound from query strings or JSON bodies.

type FeedRequest struct {
	Company string `query:"company" json:"company"`
	Domain  string `query:"domain" json:"domain" default:"ai-ml" validate:"slug"`
	Limit   int    `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=100"`
}

type CompetitorsRequest struct {
	Domain string `query:"domain" json:"domain" validate:"required,slug"`
}

type SampleRequest struct {
	Domain string `query:"domain" json:"domain" validate:"required,slug"`
	Limit  int    `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=1000"`
}

type ForecastRequest struct {
	Company string `query:"company" json:"company" default:"aggregate"`
	Domain  string `query:"domain" json:"domain" validate:"omitempty,slug"`
	Days    int    `query:"days" json:"days" validate:"gte=0"`
}

type InsightsRequest struct {
	Company string `query:"company" json:"company" validate:"required"`
	Domain  string `query:"domain" json:"domain" default:"ai-ml" validate:"slug"`
}

type AlertRequest struct {
	Title    string                 `json:"title" validate:"required"`
	Severity string                 `json:"severity" default:"info" validate:"oneof=info warning critical"`
	Message  string                 `json:"message" validate:"required"`
	Meta     map[string]interface{} `json:"meta"`
}
