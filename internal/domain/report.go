package domain

import (
	"encoding/json"
	"time"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
)

// QuoteReportEntry describes one liquidity source as it was considered or delivered.
type QuoteReportEntry struct {
	Source      Source          `json:"liquiditySource"`
	MakerAmount decimal.Decimal `json:"makerAmount"`
	TakerAmount decimal.Decimal `json:"takerAmount"`
	FillData    FillData        `json:"fillData,omitempty"`
	IsRfq       bool            `json:"isRfqt,omitempty"`
	IsFallback  bool            `json:"isFallback,omitempty"`
}

// QuoteReport records which sources were considered and which were used for one quote.
type QuoteReport struct {
	ID                string             `json:"id"`
	Side              Side               `json:"side"`
	InputToken        string             `json:"inputToken"`
	OutputToken       string             `json:"outputToken"`
	InputAmount       decimal.Decimal    `json:"inputAmount"`
	BlockNumber       uint64             `json:"blockNumber"`
	AdjustedRate      decimal.Decimal    `json:"adjustedRate"`
	SourceFlags       SourceFlags        `json:"sourceFlags"`
	IsTwoHop          bool               `json:"isTwoHop"`
	SourcesConsidered []QuoteReportEntry `json:"sourcesConsidered"`
	SourcesDelivered  []QuoteReportEntry `json:"sourcesDelivered"`
	CreatedAt         time.Time          `json:"createdAt"`
}

type quoteReportEntryJSON struct {
	Source      Source          `json:"liquiditySource"`
	MakerAmount decimal.Decimal `json:"makerAmount"`
	TakerAmount decimal.Decimal `json:"takerAmount"`
	FillData    json.RawMessage `json:"fillData"`
	IsRfq       bool            `json:"isRfqt"`
	IsFallback  bool            `json:"isFallback"`
}

func (e *QuoteReportEntry) UnmarshalJSON(data []byte) error {
	var raw quoteReportEntryJSON
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	var fd FillData
	if len(raw.FillData) > 0 && string(raw.FillData) != "null" {
		var err error
		if fd, err = DecodeFillData(raw.Source, raw.FillData); err != nil {
			return err
		}
	}
	*e = QuoteReportEntry{
		Source:      raw.Source,
		MakerAmount: raw.MakerAmount,
		TakerAmount: raw.TakerAmount,
		FillData:    fd,
		IsRfq:       raw.IsRfq,
		IsFallback:  raw.IsFallback,
	}
	return nil
}
