package domain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
)

// BridgeEncoding is the on-chain bridge parameter layout of a bridge order.
type BridgeEncoding struct {
	SourceID common.Hash   `json:"sourceId"`
	Data     hexutil.Bytes `json:"data"`
}

// OptimizedOrder is a concrete maker/taker order derived 1:1 from a CollapsedFill.
type OptimizedOrder struct {
	Type         FillType         `json:"type"`
	Source       Source           `json:"source"`
	SourcePathID string           `json:"sourcePathId"`
	MakerToken   common.Address   `json:"makerToken"`
	TakerToken   common.Address   `json:"takerToken"`
	MakerAmount  decimal.Decimal  `json:"makerAmount"`
	TakerAmount  decimal.Decimal  `json:"takerAmount"`
	FillData     FillData         `json:"fillData,omitempty"`
	Bridge       *BridgeEncoding  `json:"bridge,omitempty"`
	Fills        []*CollapsedFill `json:"fills"`
	IsFallback   bool             `json:"isFallback"`
}
