package router

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/hxuan190/swap-optimizer/internal/domain"
)

// BridgeProtocol is the settlement adapter family a bridge order is routed to.
type BridgeProtocol uint64

const (
	BridgeProtocolUnknown BridgeProtocol = iota
	BridgeProtocolCurve
	BridgeProtocolUniswapV2
	BridgeProtocolUniswap
	BridgeProtocolBalancer
	BridgeProtocolKyber
	BridgeProtocolMooniswap
	BridgeProtocolMStable
	BridgeProtocolOasis
	BridgeProtocolShell
	BridgeProtocolDodo
	BridgeProtocolDodoV2
	BridgeProtocolCryptoCom
	BridgeProtocolBancor
	BridgeProtocolCoFiX
	BridgeProtocolNerve
	BridgeProtocolMakerPsm
	BridgeProtocolBalancerV2
	BridgeProtocolUniswapV3
	BridgeProtocolKyberDmm
	BridgeProtocolCurveV2
	BridgeProtocolLido
)

// BridgeSourceID packs the protocol into the high 16 bytes and the source name,
// right padded and truncated to 16 bytes, into the low 16 bytes.
func BridgeSourceID(protocol BridgeProtocol, name string) common.Hash {
	var id common.Hash
	new(big.Int).SetUint64(uint64(protocol)).FillBytes(id[:16])
	copy(id[16:], name)
	return id
}

// CurveExchangeSelector is used when a Curve fill carries no selector.
var CurveExchangeSelector = crypto.Keccak256([]byte("exchange(int128,int128,uint256,uint256)"))[:4]

var (
	abiAddress      = mustABIType("address")
	abiAddressArray = mustABIType("address[]")
	abiBytes        = mustABIType("bytes")
	abiBytes4       = mustABIType("bytes4")
	abiBytes32      = mustABIType("bytes32")
	abiInt128       = mustABIType("int128")
	abiBool         = mustABIType("bool")
)

func mustABIType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

func abiArgs(types ...abi.Type) abi.Arguments {
	args := make(abi.Arguments, len(types))
	for i, t := range types {
		args[i] = abi.Argument{Type: t}
	}
	return args
}

// BridgeEncoder ABI-encodes the bridge parameters of one source family.
type BridgeEncoder struct {
	Protocol  BridgeProtocol
	Arguments abi.Arguments
	Values    func(fd domain.FillData) ([]interface{}, bool)
}

func (e *BridgeEncoder) Encode(fd domain.FillData) ([]byte, error) {
	values, ok := e.Values(fd)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrInvalidFillData, fd)
	}
	return e.Arguments.Pack(values...)
}

// BridgeEncoderRegistry maps sources to their bridge encoders.
type BridgeEncoderRegistry struct {
	encoders map[domain.Source]*BridgeEncoder
}

func NewBridgeEncoderRegistry() *BridgeEncoderRegistry {
	return &BridgeEncoderRegistry{encoders: make(map[domain.Source]*BridgeEncoder)}
}

func (r *BridgeEncoderRegistry) Register(source domain.Source, encoder *BridgeEncoder) {
	r.encoders[source] = encoder
}

// Encode returns the bridge source id and encoded bridge data for a fill.
func (r *BridgeEncoderRegistry) Encode(source domain.Source, fd domain.FillData) (*domain.BridgeEncoding, error) {
	if source == domain.SourceNative || source == domain.SourceMultiHop {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBridgeSource, source)
	}
	encoder, ok := r.encoders[source]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoBridgeForSource, source)
	}
	data, err := encoder.Encode(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s bridge data: %w", source, err)
	}
	return &domain.BridgeEncoding{
		SourceID: BridgeSourceID(encoder.Protocol, string(source)),
		Data:     data,
	}, nil
}

var defaultBridgeEncoders = NewDefaultBridgeEncoderRegistry()

// NewDefaultBridgeEncoderRegistry registers every bridgeable source.
func NewDefaultBridgeEncoderRegistry() *BridgeEncoderRegistry {
	r := NewBridgeEncoderRegistry()

	curve := &BridgeEncoder{
		Protocol:  BridgeProtocolCurve,
		Arguments: abiArgs(abiAddress, abiBytes4, abiInt128, abiInt128),
		Values: func(fd domain.FillData) ([]interface{}, bool) {
			c, ok := fd.(*domain.CurveFillData)
			if !ok {
				return nil, false
			}
			var selector [4]byte
			if len(c.ExchangeFunctionSelector) == 4 {
				copy(selector[:], c.ExchangeFunctionSelector)
			} else {
				copy(selector[:], CurveExchangeSelector)
			}
			return []interface{}{c.PoolAddress, selector, big.NewInt(c.FromTokenIdx), big.NewInt(c.ToTokenIdx)}, true
		},
	}
	r.Register(domain.SourceCurve, curve)
	r.Register(domain.SourceSwerve, curve)

	for source, protocol := range map[domain.Source]BridgeProtocol{
		domain.SourceBalancer:  BridgeProtocolBalancer,
		domain.SourceCream:     BridgeProtocolBalancer,
		domain.SourceMooniswap: BridgeProtocolMooniswap,
		domain.SourceShell:     BridgeProtocolShell,
		domain.SourceMStable:   BridgeProtocolMStable,
		domain.SourceEth2Dai:   BridgeProtocolOasis,
	} {
		r.Register(source, &BridgeEncoder{
			Protocol:  protocol,
			Arguments: abiArgs(abiAddress),
			Values: func(fd domain.FillData) ([]interface{}, bool) {
				p, ok := fd.(*domain.PoolFillData)
				if !ok {
					return nil, false
				}
				return []interface{}{p.PoolAddress}, true
			},
		})
	}

	r.Register(domain.SourceBalancerV2, &BridgeEncoder{
		Protocol:  BridgeProtocolBalancerV2,
		Arguments: abiArgs(abiAddress, abiBytes32),
		Values: func(fd domain.FillData) ([]interface{}, bool) {
			b, ok := fd.(*domain.BalancerV2FillData)
			if !ok {
				return nil, false
			}
			return []interface{}{b.Vault, [32]byte(b.PoolID)}, true
		},
	})

	r.Register(domain.SourceBancor, &BridgeEncoder{
		Protocol:  BridgeProtocolBancor,
		Arguments: abiArgs(abiAddress, abiAddressArray),
		Values: func(fd domain.FillData) ([]interface{}, bool) {
			b, ok := fd.(*domain.BancorFillData)
			if !ok {
				return nil, false
			}
			return []interface{}{b.NetworkAddress, b.Path}, true
		},
	})

	uniswapV2 := &BridgeEncoder{
		Protocol:  BridgeProtocolUniswapV2,
		Arguments: abiArgs(abiAddress, abiAddressArray),
		Values: func(fd domain.FillData) ([]interface{}, bool) {
			u, ok := fd.(*domain.UniswapV2FillData)
			if !ok {
				return nil, false
			}
			return []interface{}{u.Router, u.TokenAddressPath}, true
		},
	}
	r.Register(domain.SourceUniswapV2, uniswapV2)
	r.Register(domain.SourceSushiSwap, uniswapV2)

	r.Register(domain.SourceUniswap, &BridgeEncoder{
		Protocol:  BridgeProtocolUniswap,
		Arguments: abiArgs(abiAddress),
		Values: func(fd domain.FillData) ([]interface{}, bool) {
			u, ok := fd.(*domain.UniswapFillData)
			if !ok {
				return nil, false
			}
			return []interface{}{u.Router}, true
		},
	})

	r.Register(domain.SourceUniswapV3, &BridgeEncoder{
		Protocol:  BridgeProtocolUniswapV3,
		Arguments: abiArgs(abiAddress, abiBytes),
		Values: func(fd domain.FillData) ([]interface{}, bool) {
			u, ok := fd.(*domain.UniswapV3FillData)
			if !ok {
				return nil, false
			}
			return []interface{}{u.Router, []byte(u.UniswapPath)}, true
		},
	})

	r.Register(domain.SourceKyber, &BridgeEncoder{
		Protocol:  BridgeProtocolKyber,
		Arguments: abiArgs(abiAddress, abiBytes),
		Values: func(fd domain.FillData) ([]interface{}, bool) {
			k, ok := fd.(*domain.KyberFillData)
			if !ok {
				return nil, false
			}
			return []interface{}{k.NetworkProxy, []byte(k.Hint)}, true
		},
	})

	r.Register(domain.SourceKyberDmm, &BridgeEncoder{
		Protocol:  BridgeProtocolKyberDmm,
		Arguments: abiArgs(abiAddress, abiAddressArray, abiAddressArray),
		Values: func(fd domain.FillData) ([]interface{}, bool) {
			k, ok := fd.(*domain.KyberDmmFillData)
			if !ok {
				return nil, false
			}
			return []interface{}{k.Router, k.PoolsPath, k.TokenAddressPath}, true
		},
	})

	r.Register(domain.SourceDodo, &BridgeEncoder{
		Protocol:  BridgeProtocolDodo,
		Arguments: abiArgs(abiAddress, abiAddress, abiBool),
		Values: func(fd domain.FillData) ([]interface{}, bool) {
			d, ok := fd.(*domain.DodoFillData)
			if !ok {
				return nil, false
			}
			return []interface{}{d.HelperAddress, d.PoolAddress, d.IsSellBase}, true
		},
	})

	r.Register(domain.SourceDodoV2, &BridgeEncoder{
		Protocol:  BridgeProtocolDodoV2,
		Arguments: abiArgs(abiAddress, abiBool),
		Values: func(fd domain.FillData) ([]interface{}, bool) {
			d, ok := fd.(*domain.DodoV2FillData)
			if !ok {
				return nil, false
			}
			return []interface{}{d.PoolAddress, d.IsSellBase}, true
		},
	})

	r.Register(domain.SourceLiquidityProvider, &BridgeEncoder{
		Protocol:  BridgeProtocolUnknown,
		Arguments: abiArgs(abiAddress, abiBytes),
		Values: func(fd domain.FillData) ([]interface{}, bool) {
			lp, ok := fd.(*domain.LiquidityProviderFillData)
			if !ok {
				return nil, false
			}
			return []interface{}{lp.PoolAddress, []byte(lp.Data)}, true
		},
	})

	r.Register(domain.SourceLido, &BridgeEncoder{
		Protocol:  BridgeProtocolLido,
		Arguments: abiArgs(abiAddress),
		Values: func(fd domain.FillData) ([]interface{}, bool) {
			l, ok := fd.(*domain.LidoFillData)
			if !ok {
				return nil, false
			}
			return []interface{}{l.StEthTokenAddress}, true
		},
	})

	return r
}
