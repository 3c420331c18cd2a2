package engine

import (
	"math/rand/v2"
	"strings"
)

// Genres is the fixed palette the generator draws from.
var Genres = []string{
	"Adventure",
	"Biography",
	"Fantasy",
	"History",
	"Horror",
	"Mystery",
	"Poetry",
	"Romance",
	"Science Fiction",
	"Thriller",
}

var titleWords = []string{
	"Shadow", "River", "Winter", "Garden", "Silent", "Crimson", "Forgotten",
	"Glass", "Iron", "Golden", "Midnight", "Broken", "Distant", "Hollow",
	"Ember", "Harvest", "Stone", "Orchard", "Lantern", "Thorn",
}

var firstNames = []string{
	"Ada", "Marcus", "Elena", "Tobias", "Ingrid", "Samuel", "Clara",
	"Victor", "Maeve", "Oliver", "Ruth", "Hector", "Nadia", "Felix",
	"June", "Arthur", "Lydia", "Soren", "Paulina", "Edgar",
}

var lastNames = []string{
	"Hargrove", "Lindqvist", "Okafor", "Marchetti", "Beaumont", "Kowalski",
	"Ashworth", "Fontaine", "Drummond", "Vasquez", "Holloway", "Nordstrom",
	"Castellan", "Whitlock", "Iwata", "Pemberton", "Calloway", "Reyes",
	"Sinclair", "Morrow",
}

// Generate produces count synthetic records for demo and test data:
// a short word-sequence title, a first+last author pair, a genre from the
// fixed palette, a publication year uniform in [1800, 2023], and a
// 13-digit commerce-style ISBN. Randomness is unseeded (math/rand/v2
// global source), so output is not reproducible across runs.
func Generate(count int) Collection {
	if count <= 0 {
		return Collection{}
	}

	records := make(Collection, count)
	for i := range records {
		records[i] = Record{
			Title:         randomTitle(),
			Author:        pick(firstNames) + " " + pick(lastNames),
			Genre:         pick(Genres),
			PublishedYear: 1800 + rand.IntN(2023-1800+1),
			ISBN:          randomISBN(),
		}
	}
	return records
}

func pick(words []string) string {
	return words[rand.IntN(len(words))]
}

func randomTitle() string {
	n := 1 + rand.IntN(3)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = pick(titleWords)
	}
	return strings.Join(parts, " ")
}

// randomISBN builds a 13-digit identifier with the 978 bookland prefix.
// No checksum digit is computed; these are demo identifiers, not real ISBNs.
func randomISBN() string {
	var b strings.Builder
	b.Grow(13)
	b.WriteString("978")
	for i := 0; i < 10; i++ {
		b.WriteByte(byte('0' + rand.IntN(10)))
	}
	return b.String()
}
