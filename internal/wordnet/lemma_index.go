package wordnet

import (
	"sort"

	"github.com/Adithya-Monish-Kumar-K/ontocompare/internal/normalize"
)

// LemmaIndex maps normalized written forms to the synsets they sense. It is
// filled by the builder and read-only afterwards, so lookups need no lock.
type LemmaIndex struct {
	index map[string]IDSet
	forms int
}

func NewLemmaIndex() *LemmaIndex {
	return &LemmaIndex{
		index: make(map[string]IDSet),
	}
}

// Add indexes writtenForm under its normalized key for every synset id. It
// returns the key, or false when the form normalizes to nothing.
func (l *LemmaIndex) Add(writtenForm string, synsetIDs []string) (string, bool) {
	key := normalize.Key(writtenForm)
	if key == "" {
		return "", false
	}
	set, exists := l.index[key]
	if !exists {
		set = make(IDSet, len(synsetIDs))
		l.index[key] = set
	}
	set.Add(synsetIDs...)
	l.forms++
	return key, true
}

// Lookup returns the synsets indexed under an already-normalized key. The
// returned set is shared and must not be modified. The empty key never
// matches.
func (l *LemmaIndex) Lookup(key string) IDSet {
	if key == "" {
		return nil
	}
	return l.index[key]
}

// Keys returns every indexed key in ascending order.
func (l *LemmaIndex) Keys() []string {
	keys := make([]string, 0, len(l.index))
	for k := range l.index {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of distinct keys.
func (l *LemmaIndex) Len() int {
	return len(l.index)
}

// Forms returns how many written forms were indexed.
func (l *LemmaIndex) Forms() int {
	return l.forms
}
