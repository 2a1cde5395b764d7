package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
)

//go:embed data/default.json
var defaultJSON []byte

// Default returns the embedded starter catalog so the tool works without
// any external data files.
func Default() *Catalog {
	c, err := Load(bytes.NewReader(defaultJSON))
	if err != nil {
		panic(fmt.Sprintf("embedded default catalog is invalid: %v", err))
	}
	return c
}
