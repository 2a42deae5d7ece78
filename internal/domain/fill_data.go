package domain

import (
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// FillData carries the per-source parameters needed to encode an order later.
// The concrete type is fixed by the Source the data belongs to; see NewFillData.
type FillData interface {
	isFillData()
}

// PoolFillData is used by sources addressed by a single pool contract
// (Mooniswap, Shell, mStable, Eth2Dai, Balancer, Cream).
type PoolFillData struct {
	PoolAddress common.Address `json:"poolAddress"`
}

type CurveFillData struct {
	PoolAddress              common.Address `json:"poolAddress"`
	ExchangeFunctionSelector hexutil.Bytes  `json:"exchangeFunctionSelector"`
	FromTokenIdx             int64          `json:"fromTokenIdx"`
	ToTokenIdx               int64          `json:"toTokenIdx"`
}

type BalancerV2FillData struct {
	Vault  common.Address `json:"vault"`
	PoolID common.Hash    `json:"poolId"`
}

type BancorFillData struct {
	NetworkAddress common.Address   `json:"networkAddress"`
	Path           []common.Address `json:"path"`
}

type UniswapFillData struct {
	Router common.Address `json:"router"`
}

// UniswapV2FillData serves router-style AMMs (Uniswap V2, SushiSwap).
type UniswapV2FillData struct {
	Router           common.Address   `json:"router"`
	TokenAddressPath []common.Address `json:"tokenAddressPath"`
}

type UniswapV3FillData struct {
	Router      common.Address `json:"router"`
	UniswapPath hexutil.Bytes  `json:"uniswapPath"`
	HopCount    int            `json:"hopCount,omitempty"`
}

type KyberFillData struct {
	NetworkProxy common.Address `json:"networkProxy"`
	Hint         hexutil.Bytes  `json:"hint"`
}

type KyberDmmFillData struct {
	Router           common.Address   `json:"router"`
	PoolsPath        []common.Address `json:"poolsPath"`
	TokenAddressPath []common.Address `json:"tokenAddressPath"`
}

type DodoFillData struct {
	HelperAddress common.Address `json:"helperAddress"`
	PoolAddress   common.Address `json:"poolAddress"`
	IsSellBase    bool           `json:"isSellBase"`
}

type DodoV2FillData struct {
	PoolAddress common.Address `json:"poolAddress"`
	IsSellBase  bool           `json:"isSellBase"`
}

// LiquidityProviderFillData addresses a direct liquidity provider contract.
// Data is passed through to the provider untouched.
type LiquidityProviderFillData struct {
	PoolAddress common.Address `json:"poolAddress"`
	GasCost     uint64         `json:"gasCost,omitempty"`
	Data        hexutil.Bytes  `json:"data,omitempty"`
}

type LidoFillData struct {
	StEthTokenAddress common.Address `json:"stEthTokenAddress"`
}

// NativeFillData references the signed order a native fill was drawn from.
type NativeFillData struct {
	NativeOrderWithFillableAmounts
}

// SourceQuote pairs a source with its fill data, e.g. one hop of a two-hop route.
type SourceQuote struct {
	Source   Source   `json:"source"`
	FillData FillData `json:"fillData"`
}

type MultiHopFillData struct {
	IntermediateToken common.Address `json:"intermediateToken"`
	FirstHopSource    *SourceQuote   `json:"firstHopSource"`
	SecondHopSource   *SourceQuote   `json:"secondHopSource"`
}

func (*PoolFillData) isFillData()              {}
func (*CurveFillData) isFillData()             {}
func (*BalancerV2FillData) isFillData()        {}
func (*BancorFillData) isFillData()            {}
func (*UniswapFillData) isFillData()           {}
func (*UniswapV2FillData) isFillData()         {}
func (*UniswapV3FillData) isFillData()         {}
func (*KyberFillData) isFillData()             {}
func (*KyberDmmFillData) isFillData()          {}
func (*DodoFillData) isFillData()              {}
func (*DodoV2FillData) isFillData()            {}
func (*LiquidityProviderFillData) isFillData() {}
func (*LidoFillData) isFillData()              {}
func (*NativeFillData) isFillData()            {}
func (*MultiHopFillData) isFillData()          {}

// NewFillData returns an empty FillData of the shape the source expects.
func NewFillData(source Source) (FillData, error) {
	switch source {
	case SourceMooniswap, SourceShell, SourceMStable, SourceEth2Dai, SourceBalancer, SourceCream:
		return &PoolFillData{}, nil
	case SourceCurve, SourceSwerve:
		return &CurveFillData{}, nil
	case SourceBalancerV2:
		return &BalancerV2FillData{}, nil
	case SourceBancor:
		return &BancorFillData{}, nil
	case SourceUniswap:
		return &UniswapFillData{}, nil
	case SourceUniswapV2, SourceSushiSwap:
		return &UniswapV2FillData{}, nil
	case SourceUniswapV3:
		return &UniswapV3FillData{}, nil
	case SourceKyber:
		return &KyberFillData{}, nil
	case SourceKyberDmm:
		return &KyberDmmFillData{}, nil
	case SourceDodo:
		return &DodoFillData{}, nil
	case SourceDodoV2:
		return &DodoV2FillData{}, nil
	case SourceLiquidityProvider:
		return &LiquidityProviderFillData{}, nil
	case SourceLido:
		return &LidoFillData{}, nil
	case SourceNative:
		return &NativeFillData{}, nil
	case SourceMultiHop:
		return &MultiHopFillData{}, nil
	default:
		return nil, fmt.Errorf("unknown source: %q", source)
	}
}

// DecodeFillData decodes raw JSON into the FillData shape of the source.
// An empty or null payload yields the empty shape.
func DecodeFillData(source Source, raw []byte) (FillData, error) {
	fd, err := NewFillData(source)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return fd, nil
	}
	if err := sonic.Unmarshal(raw, fd); err != nil {
		return nil, fmt.Errorf("failed to decode %s fill data: %w", source, err)
	}
	return fd, nil
}

type sourceQuoteJSON struct {
	Source   Source          `json:"source"`
	FillData json.RawMessage `json:"fillData"`
}

func (q *SourceQuote) UnmarshalJSON(data []byte) error {
	var raw sourceQuoteJSON
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	fd, err := DecodeFillData(raw.Source, raw.FillData)
	if err != nil {
		return err
	}
	q.Source = raw.Source
	q.FillData = fd
	return nil
}
