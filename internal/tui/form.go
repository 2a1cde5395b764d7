package tui

import (
	"context"
	"fmt"
	"strconv"

	"factorybook/internal/catalog"
	"factorybook/internal/cli/formatter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// factoryHuhTheme returns a custom huh theme using the existing Gruvbox palette.
func factoryHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// buildingFormValues holds the building form's string-typed fields. huh binds
// inputs to strings; parsing happens once the form completes.
type buildingFormValues struct {
	recipe string
	clock  string
	copies string
}

// newBuildingForm creates a huh form to pick a recipe and set clock and count.
func newBuildingForm(cat *catalog.Catalog, vals *buildingFormValues) *huh.Form {
	recipes := cat.Recipes()
	options := make([]huh.Option[string], 0, len(recipes))
	for _, r := range recipes {
		label := fmt.Sprintf("%s (%s)", r.Name, r.Building)
		options = append(options, huh.NewOption(label, string(r.ID)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Recipe").
				Options(options...).
				Value(&vals.recipe),
			huh.NewInput().
				Title("Clock (%)").
				Placeholder("100").
				Value(&vals.clock).
				Validate(validateScale),
			huh.NewInput().
				Title("Count").
				Placeholder("1").
				Value(&vals.copies).
				Validate(validateScale),
		),
	).WithTheme(factoryHuhTheme()).WithShowHelp(false)
}

// newCountForm creates a huh form for a node's copy count.
func newCountForm(title string, result *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder("1").
				Value(result).
				Validate(validateScale),
		),
	).WithTheme(factoryHuhTheme()).WithShowHelp(false)
}

// validateScale accepts empty or a non-negative number. Clocks and counts
// share the same domain.
func validateScale(s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return fmt.Errorf("enter a non-negative number")
	}
	return nil
}

// parseScale parses s, returning fallback when empty. Used after huh form
// validation has already ensured the string is valid.
func parseScale(s string, fallback float64) float64 {
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func formatScale(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// openBuildingForm opens the building form, prefilled from the selected node
// when editing an existing building.
func (m Model) openBuildingForm(edit bool) (tea.Model, tea.Cmd) {
	cat := m.sess.Catalog()
	if len(cat.Recipes()) == 0 {
		m.setError(fmt.Errorf("the catalog has no recipes"))
		return m, nil
	}

	sess := m.sess
	vals := &buildingFormValues{clock: "100", copies: "1"}

	if edit {
		n, ok := m.selected()
		if !ok || !n.IsBuilding() {
			return m, nil
		}
		vals.recipe = string(n.Recipe)
		vals.clock = formatScale(n.Clock)
		vals.copies = formatScale(n.Copies)
		id := n.ID
		prev := n

		m.formDone = func() (formResult, error) {
			ctx := context.Background()
			recipe := catalog.RecipeID(vals.recipe)
			if recipe != prev.Recipe {
				if err := sess.SetRecipe(ctx, id, recipe); err != nil {
					return formResult{}, err
				}
			}
			if clock := parseScale(vals.clock, 100); clock != prev.Clock {
				if err := sess.SetClock(ctx, id, clock); err != nil {
					return formResult{}, err
				}
			}
			if copies := parseScale(vals.copies, 1); copies != prev.Copies {
				if err := sess.SetCopies(ctx, id, copies); err != nil {
					return formResult{}, err
				}
			}
			return formResult{selectID: id, msg: "Updated building"}, nil
		}
	} else {
		parent, idx := m.insertTarget()

		m.formDone = func() (formResult, error) {
			ctx := context.Background()
			recipe := catalog.RecipeID(vals.recipe)
			id, err := sess.AddBuilding(ctx, parent, idx, recipe, parseScale(vals.clock, 100))
			if err != nil {
				return formResult{}, err
			}
			if copies := parseScale(vals.copies, 1); copies != 1 {
				if err := sess.SetCopies(ctx, id, copies); err != nil {
					return formResult{}, err
				}
			}
			name := vals.recipe
			if r, err := cat.Recipe(recipe); err == nil {
				name = r.Name
			}
			return formResult{selectID: id, msg: fmt.Sprintf("Added building %s", name)}, nil
		}
	}

	m.form = newBuildingForm(cat, vals)
	m.mode = modeForm
	m.clearStatus()
	return m, m.form.Init()
}

// openCopiesForm opens the count form for any node, the root included.
func (m Model) openCopiesForm() (tea.Model, tea.Cmd) {
	n, ok := m.selected()
	if !ok {
		return m, nil
	}

	sess := m.sess
	id := n.ID
	val := formatScale(n.Copies)
	result := &val

	m.formDone = func() (formResult, error) {
		copies := parseScale(*result, 1)
		if err := sess.SetCopies(context.Background(), id, copies); err != nil {
			return formResult{}, err
		}
		return formResult{selectID: id, msg: fmt.Sprintf("Set count to %s", formatter.FormatCount(copies))}, nil
	}

	m.form = newCountForm(fmt.Sprintf("Count for %s", nodeLabelFor(sess, n)), result)
	m.mode = modeForm
	m.clearStatus()
	return m, m.form.Init()
}
