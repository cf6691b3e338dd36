package models

// Requests for the HTTP API. Defined in domain for consistency and reuse.

type PredictRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,alphanum,uppercase,max=10"`
	Days   int    `query:"days" json:"days" default:"7" validate:"gte=1,lte=30"`
}

type AnalysisRequest struct {
	Symbol    string `query:"symbol" json:"symbol" validate:"required,alphanum,uppercase,max=10"`
	Benchmark string `query:"benchmark" json:"benchmark" validate:"omitempty,uppercase,max=10"`
}

type HistoryRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,alphanum,uppercase,max=10"`
	N      int    `query:"n" json:"n" default:"180" validate:"gte=1,lte=2000"`
}

type TrainRequest struct {
	Symbol string `json:"symbol" validate:"required,alphanum,uppercase,max=10"`
}

type TradeRequest struct {
	UserID   int64   `json:"user_id" validate:"required,gt=0"`
	Symbol   string  `json:"symbol" validate:"required,alphanum,uppercase,max=10"`
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
}

type PortfolioRequest struct {
	UserID int64 `query:"user_id" json:"user_id" validate:"required,gt=0"`
}
