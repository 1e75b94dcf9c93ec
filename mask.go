package qrcode

// Penalty weights for the four mask evaluation rules.
const (
	penaltyN1 = 3
	penaltyN2 = 3
	penaltyN3 = 40
	penaltyN4 = 10
)

// applyMask XORs the mask pattern onto the non-function modules.
// Masking is an involution: applying the same pattern twice restores
// the matrix.
func (q *QRCode) applyMask(mask int) {
	for y := 0; y < q.size; y++ {
		for x := 0; x < q.size; x++ {
			var invert bool

			switch mask {
			case 0:
				invert = (x+y)%2 == 0
			case 1:
				invert = y%2 == 0
			case 2:
				invert = x%3 == 0
			case 3:
				invert = (x+y)%3 == 0
			case 4:
				invert = (x/3+y/2)%2 == 0
			case 5:
				invert = x*y%2+x*y%3 == 0
			case 6:
				invert = (x*y%2+x*y%3)%2 == 0
			case 7:
				invert = ((x+y)%2+x*y%3)%2 == 0
			default:
				panic("qrcode: BUG: mask out of range")
			}

			if invert && !q.isFunction[y][x] {
				q.modules[y][x] = !q.modules[y][x]
			}
		}
	}
}

// penaltyScore rates the masked matrix; lower is better. The four
// rules penalize long same-color runs, 2x2 blocks, finder-lookalike
// patterns, and dark/light imbalance.
func (q *QRCode) penaltyScore() int {
	result := 0

	// Runs and finder-lookalikes in rows.
	for y := 0; y < q.size; y++ {
		runColor := false
		runX := 0

		var history runHistory

		for x := 0; x < q.size; x++ {
			if q.modules[y][x] == runColor {
				runX++

				if runX == 5 {
					result += penaltyN1
				} else if runX > 5 {
					result++
				}
			} else {
				q.finderPenaltyAddHistory(runX, &history)

				if !runColor {
					result += finderPenaltyCountPatterns(&history) * penaltyN3
				}

				runColor = q.modules[y][x]
				runX = 1
			}
		}

		result += q.finderPenaltyTerminateAndCount(runColor, runX, &history) * penaltyN3
	}

	// Runs and finder-lookalikes in columns.
	for x := 0; x < q.size; x++ {
		runColor := false
		runY := 0

		var history runHistory

		for y := 0; y < q.size; y++ {
			if q.modules[y][x] == runColor {
				runY++

				if runY == 5 {
					result += penaltyN1
				} else if runY > 5 {
					result++
				}
			} else {
				q.finderPenaltyAddHistory(runY, &history)

				if !runColor {
					result += finderPenaltyCountPatterns(&history) * penaltyN3
				}

				runColor = q.modules[y][x]
				runY = 1
			}
		}

		result += q.finderPenaltyTerminateAndCount(runColor, runY, &history) * penaltyN3
	}

	// 2x2 blocks of a single color.
	for y := 0; y < q.size-1; y++ {
		for x := 0; x < q.size-1; x++ {
			c := q.modules[y][x]

			if c == q.modules[y][x+1] && c == q.modules[y+1][x] && c == q.modules[y+1][x+1] {
				result += penaltyN2
			}
		}
	}

	// Balance of dark modules, 10 points per 5% band away from 50%.
	dark := 0

	for _, row := range q.modules {
		for _, m := range row {
			if m {
				dark++
			}
		}
	}

	total := q.size * q.size
	k := (abs(dark*20-total*10)+total-1)/total - 1
	result += k * penaltyN4

	return result
}

// runHistory holds the lengths of the last seven runs on a scan line,
// most recent first, alternating light and dark.
type runHistory [7]int

// finderPenaltyCountPatterns reports how many of the two orientations
// of the 1:1:3:1:1 finder ratio, flanked by a light run of at least
// four units, the current history matches.
func finderPenaltyCountPatterns(history *runHistory) int {
	n := history[1]

	core := n > 0 && history[2] == n && history[3] == n*3 && history[4] == n && history[5] == n

	result := 0

	if core && history[0] >= n*4 && history[6] >= n {
		result++
	}

	if core && history[6] >= n*4 && history[0] >= n {
		result++
	}

	return result
}

// finderPenaltyTerminateAndCount flushes the run in progress, padding
// the line end with an implicit light border, and counts patterns one
// last time.
func (q *QRCode) finderPenaltyTerminateAndCount(currentRunColor bool, currentRunLength int, history *runHistory) int {
	if currentRunColor {
		q.finderPenaltyAddHistory(currentRunLength, history)

		currentRunLength = 0
	}

	currentRunLength += q.size
	q.finderPenaltyAddHistory(currentRunLength, history)

	return finderPenaltyCountPatterns(history)
}

// finderPenaltyAddHistory pushes a finished run onto the history. The
// very first run on a line is padded with an implicit light border.
func (q *QRCode) finderPenaltyAddHistory(currentRunLength int, history *runHistory) {
	if history[0] == 0 {
		currentRunLength += q.size
	}

	copy(history[1:], history[:len(history)-1])
	history[0] = currentRunLength
}
