package artifact

import (
	"math"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Unordered is the sequence number of a file name with no numeric hint.
// It sorts after every real sequence number.
const Unordered = math.MaxInt32

// sequencePatterns are tried in order against the file name without its
// extension. The first pattern that matches supplies the sequence number.
var sequencePatterns = []*regexp.Regexp{
	// digits immediately before a trailing separator: "user_02-cart"
	regexp.MustCompile(`(\d+)[-_.][^\d]*$`),
	// leading digits: "03_login"
	regexp.MustCompile(`^(\d+)`),
	// digits surrounded by separators: "user-7-x1"
	regexp.MustCompile(`[-_.](\d+)[-_.]`),
	// trailing digits: "user_step4"
	regexp.MustCompile(`(\d+)$`),
}

// SequenceNumber extracts the capture position encoded in a file name.
func SequenceNumber(name string) int {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	for _, re := range sequencePatterns {
		m := re.FindStringSubmatch(base)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n >= Unordered {
			continue
		}
		return n
	}
	return Unordered
}

// SortBySequence orders names by sequence number, then lexically.
// Names without a numeric hint sort last.
func SortBySequence(names []string) {
	seq := make(map[string]int, len(names))
	for _, n := range names {
		seq[n] = SequenceNumber(n)
	}
	sort.SliceStable(names, func(i, j int) bool {
		si, sj := seq[names[i]], seq[names[j]]
		if si != sj {
			return si < sj
		}
		return names[i] < names[j]
	})
}
