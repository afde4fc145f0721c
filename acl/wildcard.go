package acl

// matchWildcard reports whether s matches pattern, where '*' is the only
// metacharacter (matches any byte sequence, including empty) and every
// other byte must match literally.
//
// This is the iterative two-pointer algorithm with greedy backtracking: on
// a mismatch with a remembered '*' position, the match point after that
// star is advanced by one and the pattern pointer rewound to just past the
// star; on a mismatch with no remembered star,
// the match fails outright. This runs in O(len(s)+len(pattern)) typical
// and O(len(s)*len(pattern)) worst case, and — unlike recursive
// backtracking — never blows up on adversarial patterns like "*a*b*c*d*".
func matchWildcard(s, pattern string) bool {
	si, pi := 0, 0
	starPi := -1
	starSi := 0

	for si < len(s) {
		switch {
		case pi < len(pattern) && (pattern[pi] == s[si]):
			si++
			pi++
		case pi < len(pattern) && pattern[pi] == '*':
			starPi = pi
			starSi = si
			pi++
		case starPi != -1:
			pi = starPi + 1
			starSi++
			si = starSi
		default:
			return false
		}
	}

	for pi < len(pattern) && pattern[pi] == '*' {
		pi++
	}
	return pi == len(pattern)
}
