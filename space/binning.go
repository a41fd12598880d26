package space

import "sync"

// partsSortThreshold is the partition size above which the two recursive
// halves of the hybrid quicksort may run on independent goroutines (§4.1
// "≈100").
const partsSortThreshold = 100

// sortPartsByBin sorts parts (and the parallel ind slice of bin indices)
// in place using a hybrid quicksort/insertion sort: insertion sort below
// a small partition size, quicksort with a median-of-three pivot above
// it, with the two halves of a large-enough partition sorted concurrently.
// This mirrors the original's parts_sort, generalised so any partition
// above partsSortThreshold, not just the top-level call, may fan out.
func sortPartsByBin(parts []Particle, ind []int, lo, hi int) {
	if hi-lo <= 1 {
		return
	}
	if hi-lo <= 16 {
		insertionSortRange(parts, ind, lo, hi)
		return
	}

	mid := partitionByBin(parts, ind, lo, hi)

	if mid-lo > partsSortThreshold && hi-mid > partsSortThreshold {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			sortPartsByBin(parts, ind, lo, mid)
		}()
		go func() {
			defer wg.Done()
			sortPartsByBin(parts, ind, mid, hi)
		}()
		wg.Wait()
	} else {
		sortPartsByBin(parts, ind, lo, mid)
		sortPartsByBin(parts, ind, mid, hi)
	}
}

func insertionSortRange(parts []Particle, ind []int, lo, hi int) {
	for i := lo + 1; i < hi; i++ {
		for j := i; j > lo && ind[j-1] > ind[j]; j-- {
			ind[j-1], ind[j] = ind[j], ind[j-1]
			parts[j-1], parts[j] = parts[j], parts[j-1]
		}
	}
}

// partitionByBin performs a Hoare-style partition around a median-of-three
// pivot, returning the split point.
func partitionByBin(parts []Particle, ind []int, lo, hi int) int {
	mid := lo + (hi-lo)/2
	if ind[mid] < ind[lo] {
		swap(parts, ind, lo, mid)
	}
	if ind[hi-1] < ind[lo] {
		swap(parts, ind, lo, hi-1)
	}
	if ind[hi-1] < ind[mid] {
		swap(parts, ind, mid, hi-1)
	}
	pivot := ind[mid]

	i, j := lo, hi-1
	for i <= j {
		for ind[i] < pivot {
			i++
		}
		for ind[j] > pivot {
			j--
		}
		if i <= j {
			swap(parts, ind, i, j)
			i++
			j--
		}
	}
	return i
}

func swap(parts []Particle, ind []int, a, b int) {
	ind[a], ind[b] = ind[b], ind[a]
	parts[a], parts[b] = parts[b], parts[a]
}
