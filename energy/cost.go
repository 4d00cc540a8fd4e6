package energy

import "gonum.org/v1/gonum/floats"

type costKind uint8

const (
	kindPotts costKind = iota
	kindGeneral
)

// EdgeCost is a pairwise cost V(ki, kj) for an edge (i, j): either a Potts
// weight or a dense table. Build one with Potts or General.
type EdgeCost struct {
	kind   costKind
	lambda float64
	table  []float64
}

// Potts returns V(ki, kj) = 0 if ki == kj, lambda otherwise.
func Potts(lambda float64) EdgeCost {
	return EdgeCost{kind: kindPotts, lambda: lambda}
}

// General returns V(ki, kj) = v[ki*K + kj]. v is copied when the edge is added.
func General(v []float64) EdgeCost {
	return EdgeCost{kind: kindGeneral, table: v}
}

// edge is one pairwise term. tail < head in node order.
type edge struct {
	tail, head NodeID

	gammaForward  float64
	gammaBackward float64

	kind   costKind
	lambda float64
	table  []float64 // K×K row-major (tail label, head label); arena span
	msg    []float64 // arena span
}

// at returns V(ki, kj).
func (e *edge) at(ki, kj, k int) float64 {
	if e.kind == kindPotts {
		if ki == kj {
			return 0
		}
		return e.lambda
	}

	return e.table[ki*k+kj]
}

// updateMessage replaces the message held by e with the one sent from the
// source end (tail if dir == 0, head if dir == 1):
//
//  1. buf[ks] = gamma*source[ks] - msg[ks]
//  2. msg[kd] = min_ks buf[ks] + V(ks, kd)   (V oriented by dir)
//  3. vMin = min msg; msg -= vMin
//
// and returns vMin. source is not modified.
func (e *edge) updateMessage(k int, source []float64, gamma float64, dir int, buf []float64) float64 {
	floats.ScaleTo(buf, gamma, source)
	floats.Sub(buf, e.msg)

	switch {
	case e.kind == kindPotts:
		// Potts distance transform: min(buf[kd], min(buf) + lambda).
		bound := floats.Min(buf) + e.lambda
		for kd := 0; kd < k; kd++ {
			v := buf[kd]
			if v > bound {
				v = bound
			}
			e.msg[kd] = v
		}
	case dir == 0:
		for kd := 0; kd < k; kd++ {
			vMin := buf[0] + e.table[kd]
			for ks := 1; ks < k; ks++ {
				if v := buf[ks] + e.table[ks*k+kd]; v < vMin {
					vMin = v
				}
			}
			e.msg[kd] = vMin
		}
	default:
		for kd := 0; kd < k; kd++ {
			row := e.table[kd*k : (kd+1)*k]
			vMin := buf[0] + row[0]
			for ks := 1; ks < k; ks++ {
				if v := buf[ks] + row[ks]; v < vMin {
					vMin = v
				}
			}
			e.msg[kd] = vMin
		}
	}

	vMin := floats.Min(e.msg)
	floats.AddConst(-vMin, e.msg)

	return vMin
}

// addColumn adds V(ksource, ·) to dest when dir == 0 (source is the tail)
// and V(·, ksource) when dir == 1 (source is the head).
func (e *edge) addColumn(k, ksource int, dest []float64, dir int) {
	if e.kind == kindPotts {
		for kd := range dest {
			if kd != ksource {
				dest[kd] += e.lambda
			}
		}
		return
	}
	if dir == 0 {
		floats.Add(dest, e.table[ksource*k:(ksource+1)*k])
		return
	}
	for kd := range dest {
		dest[kd] += e.table[kd*k+ksource]
	}
}
