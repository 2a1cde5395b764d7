package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// On-disk catalog form. Recipes carry raw timings and unsigned amounts;
// per-minute signed rates are derived at load so the engine never needs
// to know about recipe durations.
type fileCatalog struct {
	Version string       `json:"version"`
	Items   []fileItem   `json:"items"`
	Recipes []fileRecipe `json:"recipes"`
}

type fileItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type fileRecipe struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Building    string       `json:"building"`
	TimeSecs    float64      `json:"time_secs"`
	Ingredients []fileAmount `json:"ingredients,omitempty"`
	Products    []fileAmount `json:"products,omitempty"`
	Power       filePower    `json:"power"`
}

type fileAmount struct {
	Item   string  `json:"item"`
	Amount float64 `json:"amount"`
}

type filePower struct {
	BaseMW float64 `json:"base_mw"`
	Curve  string  `json:"curve,omitempty"`
}

// Load reads a catalog JSON document. All structural problems (duplicate
// ids, references to unknown items, non-positive recipe times, curves that
// do not compile) are load errors.
func Load(r io.Reader) (*Catalog, error) {
	var f fileCatalog
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if f.Version == "" {
		return nil, fmt.Errorf("catalog has no version")
	}

	items := make([]Item, 0, len(f.Items))
	for _, it := range f.Items {
		items = append(items, Item{ID: ItemID(it.ID), Name: it.Name})
	}

	recipes := make([]Recipe, 0, len(f.Recipes))
	for _, fr := range f.Recipes {
		r, err := convertRecipe(fr)
		if err != nil {
			return nil, fmt.Errorf("recipe %q: %w", fr.ID, err)
		}
		recipes = append(recipes, r)
	}

	c, err := New(f.Version, items, recipes)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return c, nil
}

// LoadFile is Load over a file path.
func LoadFile(path string) (*Catalog, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer fh.Close()
	return Load(fh)
}

func convertRecipe(fr fileRecipe) (Recipe, error) {
	if fr.TimeSecs <= 0 {
		return Recipe{}, fmt.Errorf("time_secs must be positive, got %v", fr.TimeSecs)
	}
	perCycle := 60 / fr.TimeSecs

	net := make(map[ItemID]float64)
	for _, a := range fr.Ingredients {
		if a.Amount <= 0 {
			return Recipe{}, fmt.Errorf("ingredient %q: amount must be positive, got %v", a.Item, a.Amount)
		}
		net[ItemID(a.Item)] -= a.Amount * perCycle
	}
	for _, a := range fr.Products {
		if a.Amount <= 0 {
			return Recipe{}, fmt.Errorf("product %q: amount must be positive, got %v", a.Item, a.Amount)
		}
		net[ItemID(a.Item)] += a.Amount * perCycle
	}
	// Catalyst-style recipes can net out to zero for an item.
	for id, rate := range net {
		if rate == 0 {
			delete(net, id)
		}
	}

	var curve *Curve
	if fr.Power.Curve != "" {
		var err error
		curve, err = CompileCurve(fr.Power.Curve)
		if err != nil {
			return Recipe{}, err
		}
	}

	return Recipe{
		ID:          RecipeID(fr.ID),
		Name:        fr.Name,
		Building:    fr.Building,
		ItemsPerMin: net,
		Power:       PowerSpec{BaseMW: fr.Power.BaseMW, Curve: curve},
	}, nil
}
