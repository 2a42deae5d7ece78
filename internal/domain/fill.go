package domain

import (
	"github.com/shopspring/decimal"
)

// FillID identifies a fill within its source chain.
type FillID struct {
	SourcePathID string
	Index        int
}

// Fill is one atomic, already-penalized input to output opportunity.
// Fills are immutable once built; paths share them by pointer.
//
// The parent relationship is a handle, not a pointer: a fill with HasParent set
// must be immediately preceded by the fill {SourcePathID, Index-1}.
type Fill struct {
	SourcePathID   string          `json:"sourcePathId"`
	Source         Source          `json:"source"`
	Type           FillType        `json:"type"`
	FillData       FillData        `json:"fillData,omitempty"`
	Flags          SourceFlags     `json:"flags"`
	Input          decimal.Decimal `json:"input"`
	Output         decimal.Decimal `json:"output"`
	AdjustedOutput decimal.Decimal `json:"adjustedOutput"`
	GasCost        uint64          `json:"gasCost"`
	Index          int             `json:"index"`
	HasParent      bool            `json:"hasParent"`
}

func (f *Fill) ID() FillID {
	return FillID{SourcePathID: f.SourcePathID, Index: f.Index}
}

// ParentID returns the handle of the preceding fill in the same chain.
func (f *Fill) ParentID() (FillID, bool) {
	if !f.HasParent {
		return FillID{}, false
	}
	return FillID{SourcePathID: f.SourcePathID, Index: f.Index - 1}, true
}

// IsParentOf reports whether f is the fill that must immediately precede other.
func (f *Fill) IsParentOf(other *Fill) bool {
	if f == nil || other == nil || !other.HasParent {
		return false
	}
	return f.SourcePathID == other.SourcePathID && f.Index == other.Index-1
}

// IsNative reports whether the fill was drawn from the native order chain.
func (f *Fill) IsNative() bool {
	return f.Source == SourceNative
}

// CollapsedFill merges consecutive fills of one source path into one logical unit.
type CollapsedFill struct {
	SourcePathID string          `json:"sourcePathId"`
	Source       Source          `json:"source"`
	Type         FillType        `json:"type"`
	FillData     FillData        `json:"fillData,omitempty"`
	Input        decimal.Decimal `json:"input"`
	Output       decimal.Decimal `json:"output"`
	SubFills     []*Fill         `json:"subFills"`
	IsFallback   bool            `json:"isFallback"`
}
