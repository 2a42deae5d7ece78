package domain

import (
	"encoding/json"

	"github.com/bytedance/sonic"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// DexSample is one cumulative point of a sampled source curve.
type DexSample struct {
	Source   Source          `json:"source"`
	Input    decimal.Decimal `json:"input"`
	Output   decimal.Decimal `json:"output"`
	FillData FillData        `json:"fillData,omitempty"`
}

type dexSampleJSON struct {
	Source   Source          `json:"source"`
	Input    decimal.Decimal `json:"input"`
	Output   decimal.Decimal `json:"output"`
	FillData json.RawMessage `json:"fillData"`
}

func (s *DexSample) UnmarshalJSON(data []byte) error {
	var raw dexSampleJSON
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	fd, err := DecodeFillData(raw.Source, raw.FillData)
	if err != nil {
		return err
	}
	*s = DexSample{Source: raw.Source, Input: raw.Input, Output: raw.Output, FillData: fd}
	return nil
}

// TwoHopSample is the best first/second hop pair sampled through one intermediate token.
type TwoHopSample struct {
	Input    decimal.Decimal   `json:"input"`
	Output   decimal.Decimal   `json:"output"`
	FillData *MultiHopFillData `json:"fillData"`
}

type Signature struct {
	SignatureType uint8       `json:"signatureType"`
	V             uint8       `json:"v"`
	R             common.Hash `json:"r"`
	S             common.Hash `json:"s"`
}

// NativeOrder is the signed order body shared by limit and RFQ orders.
// Fields that only exist on limit orders are zero for RFQ orders.
type NativeOrder struct {
	MakerToken          common.Address  `json:"makerToken"`
	TakerToken          common.Address  `json:"takerToken"`
	MakerAmount         decimal.Decimal `json:"makerAmount"`
	TakerAmount         decimal.Decimal `json:"takerAmount"`
	TakerTokenFeeAmount decimal.Decimal `json:"takerTokenFeeAmount"`
	Maker               common.Address  `json:"maker"`
	Taker               common.Address  `json:"taker"`
	Sender              common.Address  `json:"sender"`
	FeeRecipient        common.Address  `json:"feeRecipient"`
	TxOrigin            common.Address  `json:"txOrigin"`
	Pool                common.Hash     `json:"pool"`
	Expiry              uint64          `json:"expiry"`
	Salt                decimal.Decimal `json:"salt"`
	ChainID             uint64          `json:"chainId"`
	VerifyingContract   common.Address  `json:"verifyingContract"`
}

// NativeOrderWithFillableAmounts is a native order with its remaining fillable amounts.
// RFQ quotes arrive in the same shape with Type set to FillTypeRfq.
type NativeOrderWithFillableAmounts struct {
	Type                   FillType        `json:"type"`
	Order                  NativeOrder     `json:"order"`
	Signature              Signature       `json:"signature"`
	FillableMakerAmount    decimal.Decimal `json:"fillableMakerAmount"`
	FillableTakerAmount    decimal.Decimal `json:"fillableTakerAmount"`
	FillableTakerFeeAmount decimal.Decimal `json:"fillableTakerFeeAmount"`
}

// MarketSideLiquidity is the sampled liquidity snapshot for one optimisation call.
type MarketSideLiquidity struct {
	Side               Side                             `json:"side"`
	InputAmount        decimal.Decimal                  `json:"inputAmount"`
	InputToken         common.Address                   `json:"inputToken"`
	OutputToken        common.Address                   `json:"outputToken"`
	InputAmountPerEth  decimal.Decimal                  `json:"inputAmountPerEth"`
	OutputAmountPerEth decimal.Decimal                  `json:"outputAmountPerEth"`
	DexQuotes          [][]DexSample                    `json:"dexQuotes"`
	NativeOrders       []NativeOrderWithFillableAmounts `json:"nativeOrders"`
	TwoHopQuotes       []TwoHopSample                   `json:"twoHopQuotes"`
	MakerTokenDecimals int32                            `json:"makerTokenDecimals"`
	TakerTokenDecimals int32                            `json:"takerTokenDecimals"`
	BlockNumber        uint64                           `json:"blockNumber"`
}

// MakerTakerTokens returns the maker and taker token for the side.
func (m *MarketSideLiquidity) MakerTakerTokens() (common.Address, common.Address) {
	if m.Side == SideSell {
		return m.OutputToken, m.InputToken
	}
	return m.InputToken, m.OutputToken
}
