package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// ConvertRaw turns a raw game data export into catalog JSON. The export is
// the community dump shape: top-level version, items with className/name,
// recipes with duration, ingredients/products and power fields. Consumers
// carry powerConsumption plus an optional powerConsumptionExponent (0 means
// the building cannot be overclocked); fuel-burning generators carry
// powerProduction and scale linearly. The result is guaranteed to Load.
func ConvertRaw(raw []byte) ([]byte, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("raw game data is not valid JSON")
	}
	version := gjson.GetBytes(raw, "version").String()
	if version == "" {
		return nil, fmt.Errorf("raw game data has no version")
	}

	out := fileCatalog{Version: version}
	for _, it := range gjson.GetBytes(raw, "items").Array() {
		out.Items = append(out.Items, fileItem{
			ID:   it.Get("className").String(),
			Name: it.Get("name").String(),
		})
	}
	recipes := gjson.GetBytes(raw, "recipes")
	if !recipes.Exists() {
		return nil, fmt.Errorf("raw game data has no recipes")
	}
	for _, rc := range recipes.Array() {
		fr := fileRecipe{
			ID:       rc.Get("className").String(),
			Name:     rc.Get("name").String(),
			Building: rc.Get("producedIn").String(),
			TimeSecs: rc.Get("duration").Float(),
			Power:    convertRawPower(rc),
		}
		for _, a := range rc.Get("ingredients").Array() {
			fr.Ingredients = append(fr.Ingredients, fileAmount{
				Item:   a.Get("item").String(),
				Amount: a.Get("amount").Float(),
			})
		}
		for _, a := range rc.Get("products").Array() {
			fr.Products = append(fr.Products, fileAmount{
				Item:   a.Get("item").String(),
				Amount: a.Get("amount").Float(),
			})
		}
		out.Recipes = append(out.Recipes, fr)
	}

	buf, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding catalog: %w", err)
	}
	if _, err := Load(bytes.NewReader(buf)); err != nil {
		return nil, fmt.Errorf("converted catalog does not load: %w", err)
	}
	return buf, nil
}

func convertRawPower(rc gjson.Result) filePower {
	if prod := rc.Get("powerProduction").Float(); prod > 0 {
		return filePower{BaseMW: prod, Curve: "base * clock"}
	}
	cons := rc.Get("powerConsumption").Float()
	if cons == 0 {
		return filePower{}
	}
	exp := rc.Get("powerConsumptionExponent").Float()
	switch exp {
	case 0:
		return filePower{BaseMW: -cons, Curve: "base"}
	case 1:
		return filePower{BaseMW: -cons, Curve: "base * clock"}
	default:
		return filePower{BaseMW: -cons, Curve: fmt.Sprintf("base * pow(clock, %g)", exp)}
	}
}
