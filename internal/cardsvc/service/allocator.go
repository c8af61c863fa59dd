package service

import "sort"

// nextNumber picks the number for a new card: sort the distinct
// existing numbers ascending and return the first adjacent gap, or
// max+1 when the sequence is dense. An empty set starts at 1.
func nextNumber(numbers []int) int {
	if len(numbers) == 0 {
		return 1
	}

	seen := make(map[int]struct{}, len(numbers))
	uniq := make([]int, 0, len(numbers))
	for _, n := range numbers {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		uniq = append(uniq, n)
	}
	sort.Ints(uniq)

	for i := 0; i < len(uniq)-1; i++ {
		if uniq[i+1] != uniq[i]+1 {
			return uniq[i] + 1
		}
	}

	return uniq[len(uniq)-1] + 1
}
