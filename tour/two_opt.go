package tour

// twoOptMinGain is the absolute improvement a 2-opt move must deliver to be
// applied. The floor keeps the search from churning on sub-unit swaps whose
// effect is below the budget tolerance anyway.
const twoOptMinGain = 1.0

// TwoOpt runs best-improvement 2-opt to a fixed point: in each round it
// scans all cut pairs (i, j), picks the swap with the largest gain among
// those above the floor, reverses the interior segment i+1..j, and repeats. The depot never
// moves. Terminates because every applied move shortens the tour by more
// than twoOptMinGain.
func (t *Tour) TwoOpt() {
	L := len(t.vertices)
	if L < 4 {
		return
	}

	var (
		i, j, bi, bj int
		gain, best   float64
	)
	for {
		best, bi, bj = 0, -1, -1
		for i = 0; i <= L-2; i++ {
			for j = i + 1; j <= L-1; j++ {
				// Replace edges (i, i+1) and (j, j+1) with (i, j), (i+1, j+1).
				gain = t.edgeTimes[i] + t.edgeTimes[j] -
					t.g.MustTravelTime(t.vertices[i], t.vertices[j]) -
					t.g.MustTravelTime(t.vertices[i+1], t.vertices[(j+1)%L])
				if gain > twoOptMinGain && gain > best {
					best, bi, bj = gain, i, j
				}
			}
		}
		if bi < 0 {
			return
		}
		t.reverseSegment(bi+1, bj)
	}
}

// reverseSegment reverses positions a..b (1 ≤ a ≤ b ≤ L−1) and refreshes the
// touched edges, the position index, and the cached travel time.
func (t *Tour) reverseSegment(a, b int) {
	L := len(t.vertices)

	var removed, added float64
	var e int
	for e = a - 1; e <= b; e++ {
		removed += t.edgeTimes[e]
	}
	for x, y := a, b; x < y; x, y = x+1, y-1 {
		t.vertices[x], t.vertices[y] = t.vertices[y], t.vertices[x]
	}
	for e = a - 1; e <= b; e++ {
		d := t.g.MustTravelTime(t.vertices[e], t.vertices[(e+1)%L])
		t.edgeTimes[e] = d
		added += d
	}
	for q := a; q <= b; q++ {
		t.pos[t.vertices[q]] = q
	}
	t.travelTime = round1e9(t.travelTime - removed + added)
}
