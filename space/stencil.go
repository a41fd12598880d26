package space

// sortlistID maps a relative cell displacement (ii,jj,kk) in {-1,0,1}^3,
// indexed as (kk+1) + 3*((jj+1) + 3*(ii+1)), to one of 13 canonical sort
// directions, folding direction d and -d together (§4.3.1). This table is
// load-bearing numeric data transcribed from the original's sortlistID,
// not something to be re-derived.
var sortlistID = [27]int{
	0, 1, 2, 3, 4, 5, 6, 7, 8,
	9, 10, 11, 12, 0, 12, 11, 10, 9,
	8, 7, 6, 5, 4, 3, 2, 1, 0,
}

// sortDir returns the canonical direction for a relative displacement
// whose components are each -1, 0, or 1.
func sortDir(ii, jj, kk int) int {
	return sortlistID[(kk+1)+3*((jj+1)+3*(ii+1))]
}

// childPairDirs is a 7x8 table: for split-self refinement, childPairDirs[j][k]
// (j<k) gives the sort direction shared by children j and k when a self
// task is expanded into one self per child plus one pair per unordered
// child pair (§4.3.3, the "pts" table). Entries with j>=k are unused.
var childPairDirs = [7][8]int{
	{-1, 12, 10, 9, 4, 3, 1, 0},
	{-1, -1, 11, 10, 5, 4, 2, 1},
	{-1, -1, -1, 12, 7, 6, 4, 3},
	{-1, -1, -1, -1, 8, 7, 5, 4},
	{-1, -1, -1, -1, -1, 12, 10, 9},
	{-1, -1, -1, -1, -1, -1, 11, 10},
	{-1, -1, -1, -1, -1, -1, -1, 12},
}

// faceDirections holds every sid' that is not a corner of the 3x3x3 stencil
// (the corners are 0, 2, 6 and 8); only these are eligible for
// sub-conversion of a refinable pair (§4.3.3).
var faceDirections = map[int]bool{
	1: true, 3: true, 4: true, 5: true, 7: true,
	9: true, 10: true, 11: true, 12: true,
}

// directionVector[d] is a representative displacement vector for
// canonical direction d, used to project particle positions for sort
// tasks. Derived from sortlistID itself so the projection axis always
// agrees with whichever direction index a pair task looked up.
var directionVector [13][3]float64

func init() {
	for raw := 26; raw >= 14; raw-- {
		kk := raw%3 - 1
		rem := raw / 3
		jj := rem%3 - 1
		ii := rem/3 - 1
		d := sortlistID[raw]
		if directionVector[d] == [3]float64{} {
			directionVector[d] = [3]float64{float64(ii), float64(jj), float64(kk)}
		}
	}
}

// childPair names one grandchild-to-grandchild interaction spawned when a
// refinable pair task is split: CiProgeny/CjProgeny index into
// ci.Progeny/cj.Progeny, CiDir/CjDir are the sort directions each side's
// grandchild sort task must have completed.
type childPair struct {
	CiProgeny, CjProgeny int
	CiDir, CjDir         int
}

// pairSplitTable[sid'] is the exact child-progeny/sort-direction wiring
// for a refinable pair task, one entry per canonical direction 0..12,
// transcribed verbatim from space_splittasks' switch(sid) (§4.3.3.1).
// This is load-bearing numeric data, not prose to reinterpret.
var pairSplitTable = [13][]childPair{
	0: {{7, 0, 0, 0}},
	1: {{6, 0, 1, 1}, {7, 1, 1, 1}, {6, 1, 0, 0}, {7, 0, 2, 2}},
	2: {{6, 1, 2, 2}},
	3: {{5, 0, 3, 3}, {7, 2, 3, 3}, {5, 2, 0, 0}, {7, 0, 6, 6}},
	4: {
		{4, 0, 4, 4}, {5, 0, 5, 5}, {6, 0, 7, 7}, {7, 0, 8, 8},
		{4, 1, 3, 3}, {5, 1, 4, 4}, {6, 1, 6, 6}, {7, 1, 7, 7},
		{4, 2, 1, 1}, {5, 2, 2, 2}, {6, 2, 4, 4}, {7, 2, 5, 5},
		{4, 3, 0, 0}, {5, 3, 1, 1}, {6, 3, 3, 3}, {7, 3, 4, 4},
	},
	5: {{4, 1, 5, 5}, {6, 3, 5, 5}, {4, 3, 2, 2}, {6, 1, 8, 8}},
	6: {{5, 2, 6, 6}},
	7: {{4, 3, 6, 6}, {5, 2, 8, 8}, {4, 2, 7, 7}, {5, 3, 7, 7}},
	8: {{4, 3, 8, 8}},
	9: {{3, 0, 9, 9}, {7, 4, 9, 9}, {3, 4, 0, 0}, {7, 0, 8, 8}},
	10: {
		{2, 0, 10, 10}, {3, 0, 11, 11}, {6, 0, 7, 7}, {7, 0, 6, 6},
		{2, 1, 9, 9}, {3, 1, 10, 10}, {6, 1, 8, 8}, {7, 1, 7, 7},
		{2, 4, 1, 1}, {3, 4, 2, 2}, {6, 4, 10, 10}, {7, 4, 11, 11},
		{2, 5, 0, 0}, {3, 5, 1, 1}, {6, 5, 9, 9}, {7, 5, 10, 10},
	},
	11: {{2, 1, 11, 11}, {6, 5, 11, 11}, {2, 5, 2, 2}, {6, 1, 6, 6}},
	12: {
		{1, 0, 12, 12}, {3, 0, 11, 11}, {5, 0, 5, 5}, {7, 0, 2, 2},
		{1, 2, 9, 9}, {3, 2, 12, 12}, {5, 2, 8, 8}, {7, 2, 5, 5},
		{1, 4, 3, 3}, {3, 4, 6, 6}, {5, 4, 12, 12}, {7, 4, 11, 11},
		{1, 6, 0, 0}, {3, 6, 3, 3}, {5, 6, 9, 9}, {7, 6, 12, 12},
	},
}
