package wordnet

import (
	"bufio"
	"fmt"
	"os"

	apperrors "github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/errors"
)

// Load streams the WN-LMF file at path into a Graph.
func Load(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wordnet file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat wordnet file: %w", err)
	}
	if info.Size() == 0 {
		return nil, apperrors.Newf(apperrors.ErrMalformedResource, "%s is empty", path)
	}

	g, err := Build(bufio.NewReaderSize(f, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return g, nil
}
