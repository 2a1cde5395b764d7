package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownRecipe = errors.New("unknown recipe")
	ErrUnknownItem   = errors.New("unknown item")
)

type ItemID string

type RecipeID string

type Item struct {
	ID           ItemID
	Name         string
	DisplayOrder int
}

// PowerSpec describes the electric behavior of a recipe's building at 100%
// clock. BaseMW is signed: generators produce (positive), manufacturers
// consume (negative). Curve maps (base, clock fraction) to effective MW;
// a nil Curve scales linearly with the clock.
type PowerSpec struct {
	BaseMW float64
	Curve  *Curve
}

// MW evaluates the effective signed megawatts at the given clock fraction
// (1.0 = 100%).
func (p PowerSpec) MW(clockFrac float64) (float64, error) {
	if p.Curve == nil {
		return p.BaseMW * clockFrac, nil
	}
	return p.Curve.Eval(p.BaseMW, clockFrac)
}

// Recipe holds the signed per-minute item rates at 100% clock: products
// positive, ingredients negative. Items appearing on both sides are stored
// as their net rate; exact zeros are dropped.
type Recipe struct {
	ID          RecipeID
	Name        string
	Building    string
	ItemsPerMin map[ItemID]float64
	Power       PowerSpec
}

type Catalog struct {
	version     string
	items       map[ItemID]*Item
	recipes     map[RecipeID]*Recipe
	itemOrder   []ItemID
	recipeOrder []RecipeID
}

// New builds a catalog from already-converted entries. Item display order
// and recipe listing order follow the input slices.
func New(version string, items []Item, recipes []Recipe) (*Catalog, error) {
	c := &Catalog{
		version: version,
		items:   make(map[ItemID]*Item, len(items)),
		recipes: make(map[RecipeID]*Recipe, len(recipes)),
	}
	for i := range items {
		it := items[i]
		if it.ID == "" {
			return nil, fmt.Errorf("item %d: empty id", i)
		}
		if _, ok := c.items[it.ID]; ok {
			return nil, fmt.Errorf("duplicate item %q", it.ID)
		}
		it.DisplayOrder = i
		c.items[it.ID] = &it
		c.itemOrder = append(c.itemOrder, it.ID)
	}
	for i := range recipes {
		r := recipes[i]
		if r.ID == "" {
			return nil, fmt.Errorf("recipe %d: empty id", i)
		}
		if _, ok := c.recipes[r.ID]; ok {
			return nil, fmt.Errorf("duplicate recipe %q", r.ID)
		}
		for item := range r.ItemsPerMin {
			if _, ok := c.items[item]; !ok {
				return nil, fmt.Errorf("recipe %q: %w: %q", r.ID, ErrUnknownItem, item)
			}
		}
		c.recipes[r.ID] = &r
		c.recipeOrder = append(c.recipeOrder, r.ID)
	}
	return c, nil
}

func (c *Catalog) Version() string { return c.version }

func (c *Catalog) Item(id ItemID) (*Item, bool) {
	it, ok := c.items[id]
	return it, ok
}

// ItemName returns the display name for an item, falling back to the raw
// identifier when the item is not in the catalog.
func (c *Catalog) ItemName(id ItemID) string {
	if it, ok := c.items[id]; ok {
		return it.Name
	}
	return string(id)
}

// Items lists all items in display order.
func (c *Catalog) Items() []*Item {
	out := make([]*Item, 0, len(c.itemOrder))
	for _, id := range c.itemOrder {
		out = append(out, c.items[id])
	}
	return out
}

func (c *Catalog) Recipe(id RecipeID) (*Recipe, error) {
	r, ok := c.recipes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRecipe, id)
	}
	return r, nil
}

// Recipes lists all recipes in catalog order.
func (c *Catalog) Recipes() []*Recipe {
	out := make([]*Recipe, 0, len(c.recipeOrder))
	for _, id := range c.recipeOrder {
		out = append(out, c.recipes[id])
	}
	return out
}
