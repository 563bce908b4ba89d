package game

// matchCounts returns the number of exact position matches and the number of
// color matches among the remaining positions. Every secret symbol is
// consumed at most once, so exact+color is the multiset overlap of the codes.
func matchCounts(secret, guess Code) (exact, color int) {
	cntS := make(map[int]int)
	cntG := make(map[int]int)

	for i := 0; i < secret.Len(); i++ {
		s, g := secret.At(i), guess.At(i)
		if s == g {
			exact++
			continue
		}
		cntS[s]++
		cntG[g]++
	}

	for sym, n := range cntG {
		color += min(n, cntS[sym])
	}
	return exact, color
}

// positionSigns compares each position numerically: +1 when the guess symbol
// is higher than the secret one, -1 when lower, 0 when equal.
func positionSigns(secret, guess Code) []int {
	signs := make([]int, secret.Len())
	for i := range signs {
		diff := secret.At(i) - guess.At(i)
		switch {
		case diff > 0:
			signs[i] = -1
		case diff < 0:
			signs[i] = 1
		}
	}
	return signs
}
