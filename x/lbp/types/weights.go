package types

import (
	sdkmath "cosmossdk.io/math"
)

// WeightPair is the share/asset weight split at one instant. The two sides
// always sum to WeightBase.
type WeightPair struct {
	ShareWeightBp uint64 `json:"share_weight_bp"`
	AssetWeightBp uint64 `json:"asset_weight_bp"`
}

// WeightAt returns the pool's weight pair at the given timestamp. Before the
// sale window it pins to the start weights, at or after the end to the end
// weights, and in between it interpolates linearly using integer arithmetic.
//
// The interpolation step truncates the signed delta toward zero, so partway
// through a declining sale the share weight is never rounded below the exact
// line. Rounding always lands on the pool's side of the instantaneous price,
// which closes the rounding-across-a-timestamp-boundary exploit.
func (p *Pool) WeightAt(now int64) WeightPair {
	shareBp := interpolateWeight(p.StartWeightBp, p.EndWeightBp, p.SaleStartTime, p.SaleEndTime, now)
	return WeightPair{
		ShareWeightBp: shareBp,
		AssetWeightBp: WeightBase - shareBp,
	}
}

func interpolateWeight(startBp, endBp uint64, saleStart, saleEnd, now int64) uint64 {
	if now <= saleStart {
		return startBp
	}
	if now >= saleEnd {
		return endBp
	}

	elapsed := now - saleStart
	duration := saleEnd - saleStart

	// The weight delta fits in an int64, but delta*elapsed does not for
	// very long sale windows, so the product is taken at arbitrary width.
	// The quotient is back under WeightBase.
	delta := sdkmath.NewInt(int64(endBp) - int64(startBp)).
		MulRaw(elapsed).
		QuoRaw(duration)
	return uint64(int64(startBp) + delta.Int64())
}
