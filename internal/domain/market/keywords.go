package market

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

const topN = 10

// ExtractTopKeywords tokenizes listing titles and returns the ten most
// frequent words longer than three characters. Ties keep first-seen order.
func ExtractTopKeywords(titles []string) []string {
	counts := make(map[string]int)
	order := make(map[string]int)
	next := 0

	for _, title := range titles {
		for _, raw := range strings.Fields(strings.ToLower(title)) {
			word := stripNonAlnum(raw)
			if len(word) <= 3 {
				continue
			}
			if _, seen := counts[word]; !seen {
				order[word] = next
				next++
			}
			counts[word]++
		}
	}

	return topByCount(counts, order)
}

// PopularTags returns the ten most frequent tags across listings,
// lowercased, ties in first-seen order.
func PopularTags(tagLists [][]string) []string {
	counts := make(map[string]int)
	order := make(map[string]int)
	next := 0

	for _, tags := range tagLists {
		for _, raw := range tags {
			tag := strings.ToLower(strings.TrimSpace(raw))
			if tag == "" {
				continue
			}
			if _, seen := counts[tag]; !seen {
				order[tag] = next
				next++
			}
			counts[tag]++
		}
	}

	return topByCount(counts, order)
}

// AveragePrice parses price strings like "$24.99" and returns the mean of
// the usable ones, rounded to cents. Everything but digits and dots is
// stripped before parsing, so currency symbols and signs are ignored;
// unparseable or zero prices are skipped, and no usable price yields 0.
func AveragePrice(prices []string) float64 {
	sum := 0.0
	n := 0
	for _, raw := range prices {
		cleaned := stripToNumeric(raw)
		value, err := strconv.ParseFloat(cleaned, 64)
		if err != nil || value <= 0 {
			continue
		}
		sum += value
		n++
	}
	if n == 0 {
		return 0
	}
	return math.Round(sum/float64(n)*100) / 100
}

func topByCount(counts map[string]int, order map[string]int) []string {
	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return order[words[i]] < order[words[j]]
	})
	if len(words) > topN {
		words = words[:topN]
	}
	return words
}

func stripNonAlnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func stripToNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
